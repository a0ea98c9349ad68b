// Package ollama provides Ollama integration for local AI inference
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// Name identifies the provider in logs and metrics
const Name = "ollama"

// DefaultBaseURL is where a local Ollama daemon listens
const DefaultBaseURL = "http://localhost:11434"

// Client implements outbound.LanguageModel using the Ollama API
type Client struct {
	baseURL      string
	fastModel    string
	capableModel string
	temperature  float64
	timeout      time.Duration
	client       *http.Client
	logger       *zap.Logger
}

// NewClient creates a new Ollama client
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	logger.Info("Ollama client initialized",
		zap.String("base_url", baseURL),
		zap.String("fast_model", cfg.FastModel),
		zap.String("capable_model", cfg.CapableModel),
		zap.Duration("timeout", cfg.Timeout))

	return &Client{
		baseURL:      baseURL,
		fastModel:    cfg.FastModel,
		capableModel: cfg.CapableModel,
		temperature:  cfg.Temperature,
		timeout:      cfg.Timeout,
		client:       &http.Client{},
		logger:       logger.Named("ollama-client"),
	}
}

// Ollama API structures
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ChatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Format   any                    `json:"format,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ChatResponse struct {
	Model         string      `json:"model"`
	Message       ChatMessage `json:"message"`
	Done          bool        `json:"done"`
	Error         string      `json:"error,omitempty"`
	TotalDuration int64       `json:"total_duration,omitempty"`
	EvalCount     int         `json:"eval_count,omitempty"`
	EvalDuration  int64       `json:"eval_duration,omitempty"`
}

// Name returns the provider name
func (c *Client) Name() string { return Name }

// HealthCheck verifies the Ollama service is available
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama health check failed with status %d", resp.StatusCode)
	}

	c.logger.Debug("Ollama health check passed")
	return nil
}

// Generate produces a complete reply
func (c *Client) Generate(ctx context.Context, req outbound.GenerateRequest) (*outbound.GenerateResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.post(ctx, c.chatRequest(req, false))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if !chatResp.Done {
		return nil, fmt.Errorf("incomplete response from Ollama")
	}

	c.logger.Debug("Ollama chat completion successful",
		zap.String("operation", req.Operation),
		zap.String("model", chatResp.Model),
		zap.Int64("eval_duration", chatResp.EvalDuration),
		zap.Int("eval_count", chatResp.EvalCount))

	return &outbound.GenerateResponse{Text: chatResp.Message.Content, Model: chatResp.Model}, nil
}

// Stream reads the newline delimited JSON stream of chat responses. Long
// generations are not cut off by the unary timeout; only ctx bounds them.
func (c *Client) Stream(ctx context.Context, req outbound.GenerateRequest) iter.Seq2[outbound.StreamChunk, error] {
	return func(yield func(outbound.StreamChunk, error) bool) {
		resp, err := c.post(ctx, c.chatRequest(req, true))
		if err != nil {
			yield(outbound.StreamChunk{}, err)
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var chunk ChatResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				yield(outbound.StreamChunk{}, fmt.Errorf("failed to unmarshal stream chunk: %w", err))
				return
			}
			if chunk.Error != "" {
				yield(outbound.StreamChunk{}, fmt.Errorf("ollama stream error: %s", chunk.Error))
				return
			}
			if chunk.Message.Content != "" {
				if !yield(outbound.StreamChunk{Text: chunk.Message.Content}, nil) {
					return
				}
			}
			if chunk.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(outbound.StreamChunk{}, fmt.Errorf("failed to read stream: %w", err))
			return
		}
		yield(outbound.StreamChunk{}, fmt.Errorf("incomplete response from Ollama"))
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) model(tier outbound.ModelTier) string {
	if tier == outbound.TierCapable {
		return c.capableModel
	}
	return c.fastModel
}

func (c *Client) chatRequest(req outbound.GenerateRequest, stream bool) ChatRequest {
	body := ChatRequest{
		Model:    c.model(req.Tier),
		Messages: []ChatMessage{{Role: "user", Content: req.Prompt}},
		Stream:   stream,
		Options: map[string]interface{}{
			"temperature": c.temperature,
		},
	}
	if req.Schema != nil {
		body.Format = req.Schema.JSONSchema()
	}
	return body
}

func (c *Client) post(ctx context.Context, body ChatRequest) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}
