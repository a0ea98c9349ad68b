// Package openai provides access to OpenAI-compatible chat completion APIs
// through langchaingo
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// Name identifies the provider in logs and metrics
const Name = "openai"

// Client implements outbound.LanguageModel over an OpenAI-compatible API
type Client struct {
	llm          llms.Model
	fastModel    string
	capableModel string
	temperature  float64
	logger       *zap.Logger
}

// NewClient creates a new OpenAI client
func NewClient(cfg config.AIConfig, logger *zap.Logger) (*Client, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.FastModel),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai: create client: %w", err)
	}

	logger.Info("OpenAI client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("fast_model", cfg.FastModel),
		zap.String("capable_model", cfg.CapableModel))

	return newClient(llm, cfg, logger), nil
}

func newClient(llm llms.Model, cfg config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		llm:          llm,
		fastModel:    cfg.FastModel,
		capableModel: cfg.CapableModel,
		temperature:  cfg.Temperature,
		logger:       logger.Named("openai-client"),
	}
}

// Name returns the provider name
func (c *Client) Name() string { return Name }

// Generate produces a complete reply
func (c *Client) Generate(ctx context.Context, req outbound.GenerateRequest) (*outbound.GenerateResponse, error) {
	model := c.model(req.Tier)

	resp, err := c.llm.GenerateContent(ctx, messages(req), c.callOptions(req)...)
	if err != nil {
		return nil, fmt.Errorf("openai: generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return nil, fmt.Errorf("openai: empty response from %s", model)
	}

	c.logger.Debug("OpenAI completion successful",
		zap.String("operation", req.Operation),
		zap.String("model", model))

	return &outbound.GenerateResponse{Text: resp.Choices[0].Content, Model: model}, nil
}

// Stream yields text deltas delivered by the streaming callback
func (c *Client) Stream(ctx context.Context, req outbound.GenerateRequest) iter.Seq2[outbound.StreamChunk, error] {
	return func(yield func(outbound.StreamChunk, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		chunks := make(chan string)
		done := make(chan error, 1)

		go func() {
			opts := append(c.callOptions(req), llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				select {
				case chunks <- string(chunk):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}))
			_, err := c.llm.GenerateContent(ctx, messages(req), opts...)
			done <- err
			close(chunks)
		}()

		for text := range chunks {
			if text == "" {
				continue
			}
			if !yield(outbound.StreamChunk{Text: text}, nil) {
				cancel()
				for range chunks {
				}
				return
			}
		}

		if err := <-done; err != nil {
			yield(outbound.StreamChunk{}, fmt.Errorf("openai: stream content: %w", err))
		}
	}
}

// HealthCheck sends a one token completion
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.llm.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, "ping")},
		llms.WithModel(c.fastModel),
		llms.WithMaxTokens(1),
	)
	if err != nil {
		return fmt.Errorf("openai health check failed: %w", err)
	}
	return nil
}

func (c *Client) model(tier outbound.ModelTier) string {
	if tier == outbound.TierCapable {
		return c.capableModel
	}
	return c.fastModel
}

func (c *Client) callOptions(req outbound.GenerateRequest) []llms.CallOption {
	opts := []llms.CallOption{
		llms.WithModel(c.model(req.Tier)),
		llms.WithTemperature(c.temperature),
	}
	if req.Schema != nil {
		opts = append(opts, llms.WithJSONMode())
	}
	return opts
}

// messages builds the conversation. The API has no schema field that every
// compatible server honours, so the schema travels in a system message.
func messages(req outbound.GenerateRequest) []llms.MessageContent {
	var out []llms.MessageContent
	if req.Schema != nil {
		schema, _ := json.Marshal(req.Schema.JSONSchema())
		var b strings.Builder
		b.WriteString("Reply only with JSON that conforms to this JSON schema:\n")
		b.Write(schema)
		out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, b.String()))
	}
	return append(out, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))
}
