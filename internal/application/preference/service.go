// Package preference provides the application layer for onboarding and
// dietary preferences.
package preference

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/application/events"
	"github.com/fridgeraider/fridgeraider/internal/domain/preference"
	"github.com/fridgeraider/fridgeraider/internal/domain/shared"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
	"github.com/fridgeraider/fridgeraider/pkg/errors"
)

// Topic carries preference changes.
const Topic = "preference"

// Extractor turns free text into dietary tags
type Extractor interface {
	ExtractPreferences(ctx context.Context, text string) []string
}

// Service implements inbound.PreferenceService
type Service struct {
	mu        sync.RWMutex
	prefs     preference.UserPreferences
	extractor Extractor
	store     outbound.DocumentStore
	bus       outbound.MessageBus
	logger    *zap.Logger
}

var _ inbound.PreferenceService = (*Service)(nil)

// NewService creates a preference service holding empty preferences
func NewService(extractor Extractor, store outbound.DocumentStore, bus outbound.MessageBus, logger *zap.Logger) *Service {
	return &Service{
		prefs:     preference.Empty(),
		extractor: extractor,
		store:     store,
		bus:       bus,
		logger:    logger.Named("preference-service"),
	}
}

// Load restores saved preferences. A missing document is a first run.
func (s *Service) Load(ctx context.Context) error {
	data, err := s.store.Load(ctx, outbound.DocumentPreferences)
	if stderrors.Is(err, outbound.ErrDocumentNotFound) {
		s.logger.Info("No saved preferences, onboarding required")
		return nil
	}
	if err != nil {
		return errors.NewStorageError("load preferences", err)
	}

	var prefs preference.UserPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return errors.NewStorageError("decode preferences", err)
	}

	s.mu.Lock()
	s.prefs = prefs.Normalize()
	s.mu.Unlock()

	s.logger.Info("Preferences loaded", zap.Strings("tags", prefs.Tags))
	return nil
}

// Get returns the current preferences
func (s *Service) Get() preference.UserPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return preference.UserPreferences{
		Tags:    append([]string{}, s.prefs.Tags...),
		RawText: s.prefs.RawText,
	}
}

// Onboard extracts tags from the text and replaces the preferences. An
// extraction failure still saves the raw text with no tags.
func (s *Service) Onboard(ctx context.Context, cmd inbound.OnboardCommand) (*preference.UserPreferences, error) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return nil, errors.NewValidationError("preference text must not be empty")
	}

	s.logger.Info("Onboarding", zap.Int("text_length", len(text)))

	tags := s.extractor.ExtractPreferences(ctx, text)
	prefs := preference.New(tags, text)

	data, err := json.Marshal(prefs)
	if err != nil {
		return nil, errors.NewStorageError("encode preferences", err)
	}

	s.mu.Lock()
	if err := s.store.Save(ctx, outbound.DocumentPreferences, data); err != nil {
		s.mu.Unlock()
		return nil, errors.NewStorageError("save preferences", err)
	}
	s.prefs = prefs
	s.mu.Unlock()

	events.Publish(ctx, s.bus, Topic, []shared.DomainEvent{
		preference.PreferencesUpdatedEvent{Tags: prefs.Tags, UpdatedAt: time.Now()},
	}, s.logger)

	s.logger.Info("Preferences saved", zap.Strings("tags", prefs.Tags))
	out := s.Get()
	return &out, nil
}
