// Package pantry provides the application layer for the inventory.
// It is the only writer of the inventory document.
package pantry

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/application/events"
	"github.com/fridgeraider/fridgeraider/internal/domain/kitchen"
	"github.com/fridgeraider/fridgeraider/internal/domain/pantry"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
	"github.com/fridgeraider/fridgeraider/pkg/errors"
)

// FoodValidator decides whether an item name is food
type FoodValidator interface {
	ValidateFood(ctx context.Context, name string) inbound.FoodVerdict
}

// Service implements inbound.PantryService
type Service struct {
	mu        sync.Mutex
	pantry    *pantry.Pantry
	validator FoodValidator
	store     outbound.DocumentStore
	bus       outbound.MessageBus
	cookDelay time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

var _ inbound.PantryService = (*Service)(nil)

// NewService creates a new pantry service with an empty inventory. Call
// Load to restore the persisted one.
func NewService(
	validator FoodValidator,
	store outbound.DocumentStore,
	bus outbound.MessageBus,
	cookDelay time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		pantry:    pantry.New(nil),
		validator: validator,
		store:     store,
		bus:       bus,
		cookDelay: cookDelay,
		now:       time.Now,
		logger:    logger.Named("pantry-service"),
	}
}

// Load restores the persisted inventory. A missing document is a first run.
func (s *Service) Load(ctx context.Context) error {
	data, err := s.store.Load(ctx, outbound.DocumentInventory)
	if stderrors.Is(err, outbound.ErrDocumentNotFound) {
		s.logger.Info("No saved inventory, starting empty")
		return nil
	}
	if err != nil {
		return errors.NewStorageError("load inventory", err)
	}

	var items pantry.Inventory
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.NewStorageError("decode inventory", err)
	}

	restored := pantry.Restore(items)
	evts := restored.Events()

	s.mu.Lock()
	s.pantry = restored
	s.mu.Unlock()

	s.logger.Info("Inventory loaded", zap.Int("items", restored.Len()))
	events.Publish(ctx, s.bus, pantry.InventoryTopic, evts, s.logger)
	return nil
}

// List returns the inventory with expiry classification
func (s *Service) List(ctx context.Context) []inbound.InventoryItemDTO {
	return s.toDTOs(s.Snapshot())
}

// Snapshot returns a copy of the inventory
func (s *Service) Snapshot() pantry.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pantry.Items()
}

// AddItem validates the name with the AI validator and appends the item
func (s *Service) AddItem(ctx context.Context, cmd inbound.AddItemCommand) (*inbound.InventoryItemDTO, error) {
	s.logger.Info("Adding inventory item",
		zap.String("name", cmd.Name),
		zap.Float64("quantity", cmd.Quantity),
		zap.String("unit", cmd.Unit),
	)

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errors.NewValidationError(pantry.ErrEmptyName.Error())
	}

	verdict := s.validator.ValidateFood(ctx, name)
	if !verdict.IsValid {
		s.logger.Info("Item rejected by validator", zap.String("name", name))
		return nil, errors.NewFoodRejectedError(name)
	}

	item, err := pantry.NewInventoryItem(name, verdict.Category, cmd.Quantity, pantry.ParseUnit(cmd.Unit), cmd.ExpiryDate)
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).WithCause(err)
	}

	if err := s.mutate(ctx, "add item", func(p *pantry.Pantry) error {
		p.Add(item)
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Inventory item added",
		zap.String("item_id", item.ID),
		zap.String("category", item.Category),
	)

	dto := s.toDTO(item)
	return &dto, nil
}

// DeleteItem removes an item by id
func (s *Service) DeleteItem(ctx context.Context, itemID string) error {
	s.logger.Info("Deleting inventory item", zap.String("item_id", itemID))

	return s.mutate(ctx, "delete item", func(p *pantry.Pantry) error {
		if err := p.Remove(itemID); err != nil {
			return errors.NewInventoryItemNotFoundError(itemID).WithCause(err)
		}
		return nil
	})
}

// Cook waits for the cooking delay and then consumes every ingredient of
// the recipe in one step. Cancelling ctx during the delay leaves the
// inventory untouched.
func (s *Service) Cook(ctx context.Context, recipe kitchen.Recipe) ([]inbound.InventoryItemDTO, error) {
	s.logger.Info("Cooking recipe",
		zap.String("recipe", recipe.Name),
		zap.Int("ingredients", len(recipe.Ingredients)),
		zap.Duration("delay", s.cookDelay),
	)

	if s.cookDelay > 0 {
		timer := time.NewTimer(s.cookDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			s.logger.Info("Cooking cancelled", zap.String("recipe", recipe.Name))
			return nil, errors.NewAppError(errors.CodeBadRequest, "Cooking cancelled", recipe.Name).WithCause(ctx.Err())
		}
	}

	var after pantry.Inventory
	err := s.mutate(ctx, "cook recipe", func(p *pantry.Pantry) error {
		after = p.Cook(recipe.Name, recipe.Requirements())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recipe cooked", zap.String("recipe", recipe.Name), zap.Int("items_remaining", len(after)))
	return s.toDTOs(after), nil
}

// mutate applies fn to a copy of the pantry, persists the result and only
// then swaps it in. Events are published after the lock is released.
func (s *Service) mutate(ctx context.Context, operation string, fn func(*pantry.Pantry) error) error {
	s.mu.Lock()
	next := s.pantry.Clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return err
	}

	data, err := json.Marshal(next.Items())
	if err != nil {
		s.mu.Unlock()
		return errors.NewStorageError(operation, err)
	}
	if err := s.store.Save(ctx, outbound.DocumentInventory, data); err != nil {
		s.mu.Unlock()
		s.logger.Error("Failed to persist inventory", zap.String("operation", operation), zap.Error(err))
		return errors.NewStorageError(operation, err)
	}

	s.pantry = next
	evts := next.Events()
	s.mu.Unlock()

	events.Publish(ctx, s.bus, pantry.InventoryTopic, evts, s.logger)
	return nil
}

func (s *Service) toDTOs(items pantry.Inventory) []inbound.InventoryItemDTO {
	out := make([]inbound.InventoryItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, s.toDTO(item))
	}
	return out
}

func (s *Service) toDTO(item pantry.InventoryItem) inbound.InventoryItemDTO {
	now := s.now()
	days, _ := item.DaysUntilExpiry(now)
	return inbound.InventoryItemDTO{
		InventoryItem:   item,
		ExpiryStatus:    item.ExpiryStatus(now),
		DaysUntilExpiry: days,
	}
}
