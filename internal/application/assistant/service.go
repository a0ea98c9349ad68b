// Package assistant implements the AI-backed use cases: food validation,
// preference extraction, recipe generation, meal planning and chat.
package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"iter"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/domain/chat"
	"github.com/fridgeraider/fridgeraider/internal/domain/kitchen"
	"github.com/fridgeraider/fridgeraider/internal/domain/pantry"
	"github.com/fridgeraider/fridgeraider/internal/domain/preference"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
	"github.com/fridgeraider/fridgeraider/pkg/errors"
)

const recipeCount = kitchen.RecipesPerBatch

// Service implements inbound.AssistantService on top of a language model
type Service struct {
	model    outbound.LanguageModel
	cache    outbound.CacheRepository
	cacheTTL time.Duration
	newID    func() string
	logger   *zap.Logger
}

var _ inbound.AssistantService = (*Service)(nil)

// Option configures the service
type Option func(*Service)

// WithVerdictCache caches validator verdicts for ttl.
func WithVerdictCache(cache outbound.CacheRepository, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithIDGenerator replaces the uuid generator used for recipe ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService creates a new assistant service
func NewService(model outbound.LanguageModel, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		model:  model,
		newID:  func() string { return uuid.New().String() },
		logger: logger.Named("assistant"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateFood asks the model whether name is food. Any failure counts as a
// rejection with category Other.
func (s *Service) ValidateFood(ctx context.Context, name string) inbound.FoodVerdict {
	rejected := inbound.FoodVerdict{IsValid: false, Category: pantry.CategoryOther}

	name = strings.TrimSpace(name)
	if name == "" {
		return rejected
	}

	key := verdictCacheKey(name)
	if verdict, ok := s.cachedVerdict(ctx, key); ok {
		s.logger.Debug("Food verdict served from cache", zap.String("name", name))
		return verdict
	}

	resp, err := s.model.Generate(ctx, outbound.GenerateRequest{
		Operation: "validate_food",
		Tier:      outbound.TierFast,
		Prompt:    validationPrompt(name),
		Schema:    foodVerdictSchema(),
	})
	if err != nil {
		s.logger.Warn("Food validation failed", zap.String("name", name), zap.Error(err))
		return rejected
	}

	var verdict inbound.FoodVerdict
	if err := decodeReply(resp.Text, &verdict); err != nil {
		s.logger.Warn("Malformed food verdict", zap.String("name", name), zap.Error(err))
		return rejected
	}
	if strings.TrimSpace(verdict.Category) == "" {
		verdict.Category = pantry.CategoryOther
	}

	s.storeVerdict(ctx, key, verdict)

	s.logger.Info("Food validated",
		zap.String("name", name),
		zap.Bool("valid", verdict.IsValid),
		zap.String("category", verdict.Category),
	)
	return verdict
}

// ExtractPreferences turns a free-text diet description into tags. It
// returns an empty list on failure.
func (s *Service) ExtractPreferences(ctx context.Context, text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}

	resp, err := s.model.Generate(ctx, outbound.GenerateRequest{
		Operation: "extract_preferences",
		Tier:      outbound.TierFast,
		Prompt:    preferencesPrompt(text),
		Schema:    tagListSchema(),
	})
	if err != nil {
		s.logger.Warn("Preference extraction failed", zap.Error(err))
		return []string{}
	}

	var tags []string
	if err := decodeReply(resp.Text, &tags); err != nil {
		s.logger.Warn("Malformed preference tags", zap.Error(err))
		return []string{}
	}
	if tags == nil {
		tags = []string{}
	}

	s.logger.Info("Preferences extracted", zap.Strings("tags", tags))
	return tags
}

// GenerateRecipes suggests recipes that only use the inventory. An empty
// inventory short-circuits without calling the model.
func (s *Service) GenerateRecipes(ctx context.Context, inv pantry.Inventory, prefs preference.UserPreferences) []kitchen.Recipe {
	if len(inv) == 0 {
		return []kitchen.Recipe{}
	}

	s.logger.Info("Generating recipes", zap.Int("items", len(inv)), zap.Strings("tags", prefs.Tags))

	resp, err := s.model.Generate(ctx, outbound.GenerateRequest{
		Operation: "generate_recipes",
		Tier:      outbound.TierCapable,
		Prompt:    recipesPrompt(inv, prefs),
		Schema:    recipeListSchema(),
	})
	if err != nil {
		s.logger.Error("Recipe generation failed", zap.Error(err))
		return []kitchen.Recipe{}
	}

	var recipes []kitchen.Recipe
	if err := decodeReply(resp.Text, &recipes); err != nil {
		s.logger.Error("Malformed recipe list", zap.Error(err))
		return []kitchen.Recipe{}
	}

	recipes = kitchen.NormalizeRecipes(recipes, s.newID)
	if len(recipes) > recipeCount {
		recipes = recipes[:recipeCount]
	}

	s.logger.Info("Recipes generated", zap.Int("count", len(recipes)))
	return recipes
}

// GenerateMealPlan is PlanMeals with failures logged and replaced by an
// empty plan.
func (s *Service) GenerateMealPlan(ctx context.Context, inv pantry.Inventory, prefs preference.UserPreferences, days int) []kitchen.MealPlanDay {
	plan, err := s.PlanMeals(ctx, inv, prefs, days)
	if err != nil {
		s.logger.Error("Meal plan generation failed", zap.Int("days", days), zap.Error(err))
		return []kitchen.MealPlanDay{}
	}
	return plan
}

// PlanMeals builds a plan with exactly days entries numbered 1..days. An
// empty inventory yields an empty plan and no error.
func (s *Service) PlanMeals(ctx context.Context, inv pantry.Inventory, prefs preference.UserPreferences, days int) ([]kitchen.MealPlanDay, error) {
	if err := kitchen.ValidateDays(days); err != nil {
		return nil, errors.NewValidationError(err.Error()).WithCause(err)
	}
	if len(inv) == 0 {
		return []kitchen.MealPlanDay{}, nil
	}

	s.logger.Info("Planning meals", zap.Int("days", days), zap.Int("items", len(inv)))

	resp, err := s.model.Generate(ctx, outbound.GenerateRequest{
		Operation: "plan_meals",
		Tier:      outbound.TierCapable,
		Prompt:    mealPlanPrompt(inv, prefs, days),
		Schema:    mealPlanSchema(),
	})
	if err != nil {
		if errors.Is(err, errors.CodeTooManyRequests) {
			return nil, errors.Wrap(err, "")
		}
		return nil, errors.NewPlanGenerationError(days, errors.NewExternalServiceError(s.model.Name(), err))
	}

	var plan []kitchen.MealPlanDay
	if err := decodeReply(resp.Text, &plan); err != nil {
		return nil, errors.NewPlanGenerationError(days, err)
	}

	plan, err = kitchen.NormalizePlan(plan, days)
	if err != nil {
		return nil, errors.NewPlanGenerationError(days, err)
	}

	s.logger.Info("Meal plan generated", zap.Int("days", len(plan)))
	return plan, nil
}

// Chat answers a message in one piece with web search grounding. Failures
// produce the fixed apology and no citations.
func (s *Service) Chat(ctx context.Context, message string, inv pantry.Inventory, prefs *preference.UserPreferences) chat.Reply {
	resp, err := s.model.Generate(ctx, chatRequest(message, inv, prefs))
	if err != nil {
		s.logger.Error("Chat failed", zap.Error(err))
		return chat.Reply{Text: chat.ErrorReply, Citations: []chat.Citation{}}
	}

	return chat.Reply{Text: resp.Text, Citations: chat.CleanCitations(resp.Citations)}
}

// ChatStream answers a message incrementally. The sequence yields partial
// events carrying the cumulative text, then one done event carrying the last
// citations the model reported. A failure mid-stream yields the apology as a
// partial event before completing. The sequence can be consumed once.
func (s *Service) ChatStream(ctx context.Context, message string, inv pantry.Inventory, prefs *preference.UserPreferences) iter.Seq[chat.StreamEvent] {
	req := chatRequest(message, inv, prefs)
	var consumed atomic.Bool

	return func(yield func(chat.StreamEvent) bool) {
		if !consumed.CompareAndSwap(false, true) {
			return
		}

		var text strings.Builder
		citations := []chat.Citation{}
		chunks := 0

		for chunk, err := range s.model.Stream(ctx, req) {
			if err != nil {
				s.logger.Error("Chat stream failed", zap.Int("chunks", chunks), zap.Error(err))
				if !yield(chat.Partial(chat.ErrorReply)) {
					return
				}
				yield(chat.Done(nil))
				return
			}

			if chunk.Citations != nil {
				citations = chat.CleanCitations(chunk.Citations)
			}
			if chunk.Text == "" {
				continue
			}

			chunks++
			text.WriteString(chunk.Text)
			if !yield(chat.Partial(text.String())) {
				return
			}
		}

		s.logger.Debug("Chat stream completed", zap.Int("chunks", chunks), zap.Int("citations", len(citations)))
		yield(chat.Done(citations))
	}
}

func chatRequest(message string, inv pantry.Inventory, prefs *preference.UserPreferences) outbound.GenerateRequest {
	return outbound.GenerateRequest{
		Operation: "chat",
		Tier:      outbound.TierFast,
		Prompt:    chatPrompt(message, inv, prefs),
		WebSearch: true,
	}
}

func verdictCacheKey(name string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(name)))
	return "food-verdict:" + hex.EncodeToString(sum[:8])
}

func (s *Service) cachedVerdict(ctx context.Context, key string) (inbound.FoodVerdict, bool) {
	if s.cache == nil {
		return inbound.FoodVerdict{}, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return inbound.FoodVerdict{}, false
	}
	var verdict inbound.FoodVerdict
	if err := json.Unmarshal(data, &verdict); err != nil {
		return inbound.FoodVerdict{}, false
	}
	return verdict, true
}

func (s *Service) storeVerdict(ctx context.Context, key string, verdict inbound.FoodVerdict) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(verdict)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache food verdict", zap.Error(err))
	}
}
