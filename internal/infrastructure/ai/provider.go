// Package ai selects and instruments the language model provider
package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/ai/gemini"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/ai/ollama"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/ai/openai"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// NewLanguageModel builds the client for the configured provider
func NewLanguageModel(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (outbound.LanguageModel, error) {
	switch cfg.Provider {
	case gemini.Name:
		return gemini.NewClient(ctx, cfg, logger)
	case openai.Name:
		return openai.NewClient(cfg, logger)
	case ollama.Name:
		return ollama.NewClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
