package gorm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// DocumentStore implements outbound.DocumentStore over any GORM dialect
type DocumentStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ outbound.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a new GORM-based document store
func NewDocumentStore(db *gorm.DB, logger *zap.Logger) *DocumentStore {
	return &DocumentStore{
		db:     db,
		logger: logger,
	}
}

// Load retrieves a document by key
func (s *DocumentStore) Load(ctx context.Context, key string) ([]byte, error) {
	var model DocumentModel
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrDocumentNotFound
		}
		s.logger.Error("Failed to load document", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("load document %s: %w", key, err)
	}
	return model.Data, nil
}

// Save inserts the document or replaces its data and bumps its version
func (s *DocumentStore) Save(ctx context.Context, key string, data []byte) error {
	model := DocumentModel{Key: key, Data: data, Version: 1}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"data":       data,
			"version":    gorm.Expr("documents.version + 1"),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&model).Error
	if err != nil {
		s.logger.Error("Failed to save document", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("save document %s: %w", key, err)
	}

	s.logger.Debug("Document saved", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Delete removes a document
func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&DocumentModel{}).Error; err != nil {
		return fmt.Errorf("delete document %s: %w", key, err)
	}
	return nil
}

// Version returns how many times a document has been saved
func (s *DocumentStore) Version(ctx context.Context, key string) (int64, error) {
	var model DocumentModel
	err := s.db.WithContext(ctx).Select("version").Where("key = ?", key).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, outbound.ErrDocumentNotFound
	}
	return model.Version, err
}

// Close closes the underlying connection pool
func (s *DocumentStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
