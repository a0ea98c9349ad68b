// Package s3 stores workspace documents as objects in an S3 bucket
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

const contentType = "application/json"

// DocumentStore implements outbound.DocumentStore with one object per key
type DocumentStore struct {
	client s3iface.S3API
	bucket string
	prefix string
	logger *zap.Logger
}

var _ outbound.DocumentStore = (*DocumentStore)(nil)

// NewSession creates an AWS session for the configured region and endpoint
func NewSession(cfg config.S3Config) (*session.Session, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return sess, nil
}

// NewDocumentStore creates an S3 document store
func NewDocumentStore(client s3iface.S3API, cfg config.S3Config, logger *zap.Logger) *DocumentStore {
	return &DocumentStore{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}
}

// New creates a store backed by a real S3 client
func New(cfg config.S3Config, logger *zap.Logger) (*DocumentStore, error) {
	sess, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("S3 document store initialized",
		zap.String("bucket", cfg.Bucket),
		zap.String("region", cfg.Region))
	return NewDocumentStore(s3.New(sess), cfg, logger), nil
}

func (s *DocumentStore) objectKey(key string) string {
	return path.Join(s.prefix, key+".json")
}

func (s *DocumentStore) Load(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, outbound.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("load document %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", key, err)
	}
	return data, nil
}

func (s *DocumentStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("Failed to upload document", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("save document %s: %w", key, err)
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete document %s: %w", key, err)
	}
	return nil
}

func (s *DocumentStore) Close() error {
	return nil
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}
