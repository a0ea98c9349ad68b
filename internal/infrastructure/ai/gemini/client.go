// Package gemini provides Google Gemini integration through the genai SDK
package gemini

import (
	"context"
	"fmt"
	"iter"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/fridgeraider/fridgeraider/internal/domain/chat"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// Name identifies the provider in logs and metrics
const Name = "gemini"

// Client implements outbound.LanguageModel using the Gemini API
type Client struct {
	client       *genai.Client
	fastModel    string
	capableModel string
	temperature  float32
	timeout      time.Duration
	logger       *zap.Logger
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	logger.Info("Gemini client initialized",
		zap.String("fast_model", cfg.FastModel),
		zap.String("capable_model", cfg.CapableModel))

	return &Client{
		client:       client,
		fastModel:    cfg.FastModel,
		capableModel: cfg.CapableModel,
		temperature:  float32(cfg.Temperature),
		timeout:      cfg.Timeout,
		logger:       logger.Named("gemini-client"),
	}, nil
}

// Name returns the provider name
func (c *Client) Name() string { return Name }

// Generate produces a complete reply
func (c *Client) Generate(ctx context.Context, req outbound.GenerateRequest) (*outbound.GenerateResponse, error) {
	model := c.model(req.Tier)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), c.contentConfig(req))
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini: empty response from %s", model)
	}

	c.logger.Debug("Gemini completion successful",
		zap.String("operation", req.Operation),
		zap.String("model", model),
		zap.Int("length", len(text)))

	return &outbound.GenerateResponse{
		Text:      text,
		Citations: citations(resp),
		Model:     model,
	}, nil
}

// Stream yields text deltas as the model produces them. Only ctx bounds a
// stream; the configured timeout applies to unary calls.
func (c *Client) Stream(ctx context.Context, req outbound.GenerateRequest) iter.Seq2[outbound.StreamChunk, error] {
	model := c.model(req.Tier)
	cfg := c.contentConfig(req)

	return func(yield func(outbound.StreamChunk, error) bool) {
		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, genai.Text(req.Prompt), cfg) {
			if err != nil {
				yield(outbound.StreamChunk{}, fmt.Errorf("gemini: stream content: %w", err))
				return
			}

			chunk := outbound.StreamChunk{Text: resp.Text()}
			if cites := citations(resp); len(cites) > 0 {
				chunk.Citations = cites
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// HealthCheck verifies the fast model is reachable
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if _, err := c.client.Models.Get(ctx, c.fastModel, nil); err != nil {
		return fmt.Errorf("gemini health check failed: %w", err)
	}
	return nil
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

func (c *Client) contentConfig(req outbound.GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toSchema(req.Schema)
	}
	if req.WebSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return cfg
}

var schemaTypes = map[outbound.SchemaType]genai.Type{
	outbound.TypeObject:  genai.TypeObject,
	outbound.TypeArray:   genai.TypeArray,
	outbound.TypeString:  genai.TypeString,
	outbound.TypeNumber:  genai.TypeNumber,
	outbound.TypeInteger: genai.TypeInteger,
	outbound.TypeBoolean: genai.TypeBoolean,
}

func toSchema(s *outbound.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:             schemaTypes[s.Type],
		Description:      s.Description,
		PropertyOrdering: s.PropertyOrdering,
		Required:         s.Required,
		Items:            toSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}
	return out
}

func citations(resp *genai.GenerateContentResponse) []chat.Citation {
	var out []chat.Citation
	for _, cand := range resp.Candidates {
		if cand == nil || cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			out = append(out, chat.Citation{Title: chunk.Web.Title, URI: chunk.Web.URI})
		}
	}
	if out == nil {
		return nil
	}
	return chat.CleanCitations(out)
}
