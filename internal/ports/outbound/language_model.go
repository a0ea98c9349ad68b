package outbound

import (
	"context"
	"iter"

	"github.com/fridgeraider/fridgeraider/internal/domain/chat"
)

// ModelTier selects between a fast model and a more capable one.
type ModelTier string

const (
	TierFast    ModelTier = "fast"
	TierCapable ModelTier = "capable"
)

// GenerateRequest is one call to a language model. When Schema is set the
// reply text must be JSON matching it.
type GenerateRequest struct {
	// Operation names the calling use case for logs and metrics.
	Operation string
	Tier      ModelTier
	Prompt    string
	Schema    *Schema
	WebSearch bool
}

// GenerateResponse is a complete reply.
type GenerateResponse struct {
	Text      string
	Citations []chat.Citation
	Model     string
}

// StreamChunk is an incremental piece of a streamed reply. Text is the delta
// since the previous chunk. Citations is non-nil only when the chunk carried
// grounding metadata.
type StreamChunk struct {
	Text      string
	Citations []chat.Citation
}

// LanguageModel is an external generative AI service
type LanguageModel interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	// Stream yields chunks until the reply ends. A non-nil error ends the
	// sequence.
	Stream(ctx context.Context, req GenerateRequest) iter.Seq2[StreamChunk, error]
	HealthCheck(ctx context.Context) error
}
