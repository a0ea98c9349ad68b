// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the use cases the HTTP API and the CLI drive
package inbound

import (
	"context"
	"iter"

	"github.com/fridgeraider/fridgeraider/internal/domain/chat"
	"github.com/fridgeraider/fridgeraider/internal/domain/kitchen"
	"github.com/fridgeraider/fridgeraider/internal/domain/pantry"
	"github.com/fridgeraider/fridgeraider/internal/domain/preference"
	"github.com/fridgeraider/fridgeraider/internal/domain/view"
)

// PantryService manages the authoritative inventory
type PantryService interface {
	Load(ctx context.Context) error
	List(ctx context.Context) []InventoryItemDTO
	Snapshot() pantry.Inventory
	AddItem(ctx context.Context, cmd AddItemCommand) (*InventoryItemDTO, error)
	DeleteItem(ctx context.Context, itemID string) error
	Cook(ctx context.Context, recipe kitchen.Recipe) ([]InventoryItemDTO, error)
}

// PreferenceService manages dietary preferences
type PreferenceService interface {
	Load(ctx context.Context) error
	Get() preference.UserPreferences
	Onboard(ctx context.Context, cmd OnboardCommand) (*preference.UserPreferences, error)
}

// AssistantService wraps every AI-backed operation. None of them return
// transport errors; failures degrade to safe defaults.
type AssistantService interface {
	ValidateFood(ctx context.Context, name string) FoodVerdict
	ExtractPreferences(ctx context.Context, text string) []string
	GenerateRecipes(ctx context.Context, inv pantry.Inventory, prefs preference.UserPreferences) []kitchen.Recipe
	GenerateMealPlan(ctx context.Context, inv pantry.Inventory, prefs preference.UserPreferences, days int) []kitchen.MealPlanDay
	// PlanMeals is GenerateMealPlan with the failure reported.
	PlanMeals(ctx context.Context, inv pantry.Inventory, prefs preference.UserPreferences, days int) ([]kitchen.MealPlanDay, error)
	Chat(ctx context.Context, message string, inv pantry.Inventory, prefs *preference.UserPreferences) chat.Reply
	ChatStream(ctx context.Context, message string, inv pantry.Inventory, prefs *preference.UserPreferences) iter.Seq[chat.StreamEvent]
}

// WorkspaceService is the view controller of the single user workspace
type WorkspaceService interface {
	Snapshot(ctx context.Context) WorkspaceSnapshot
	Navigate(ctx context.Context, cmd NavigateCommand) view.Tab
	Onboard(ctx context.Context, cmd OnboardCommand) (*preference.UserPreferences, error)

	Recipes() []kitchen.Recipe
	RegenerateRecipes(ctx context.Context) []kitchen.Recipe
	CookRecipe(ctx context.Context, recipeID string) ([]InventoryItemDTO, error)

	Planner() PlannerSnapshot
	GeneratePlan(ctx context.Context, cmd GeneratePlanCommand) (PlannerSnapshot, error)

	Transcript() []chat.Message
	Chat(ctx context.Context, cmd ChatCommand) chat.Reply
	ChatStream(ctx context.Context, cmd ChatCommand) iter.Seq[chat.StreamEvent]
}

// Commands

// AddItemCommand contains data for adding an inventory item
type AddItemCommand struct {
	Name       string  `json:"name" validate:"required,max=120"`
	Quantity   float64 `json:"quantity" validate:"gt=0"`
	Unit       string  `json:"unit" validate:"required,oneof=g kg ml l pcs"`
	ExpiryDate string  `json:"expiryDate" validate:"required,datetime=2006-01-02"`
}

// OnboardCommand carries the free-text diet description
type OnboardCommand struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// NavigateCommand selects a tab
type NavigateCommand struct {
	Tab string `json:"tab" validate:"required"`
}

// GeneratePlanCommand requests a plan of the given length
type GeneratePlanCommand struct {
	Days int `json:"days" validate:"gt=0,lte=31"`
}

// ChatCommand is a user chat message
type ChatCommand struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// DTOs

// FoodVerdict is the validator's answer for a candidate item name
type FoodVerdict struct {
	IsValid  bool   `json:"isValid"`
	Category string `json:"category"`
}

// InventoryItemDTO is an item with its expiry classification
type InventoryItemDTO struct {
	pantry.InventoryItem
	ExpiryStatus    pantry.ExpiryStatus `json:"expiryStatus"`
	DaysUntilExpiry int                 `json:"daysUntilExpiry"`
}

// PlannerSnapshot is the planner screen state
type PlannerSnapshot struct {
	Status     view.PlannerStatus    `json:"status"`
	Days       int                   `json:"days"`
	DayOptions []int                 `json:"dayOptions"`
	Plan       []kitchen.MealPlanDay `json:"plan"`
	Error      string                `json:"error,omitempty"`
}

// WorkspaceSnapshot is the whole view state
type WorkspaceSnapshot struct {
	Tab         view.Tab                   `json:"tab"`
	Syncing     bool                       `json:"syncing"`
	Preferences preference.UserPreferences `json:"preferences"`
	Inventory   []InventoryItemDTO         `json:"inventory"`
	Recipes     []kitchen.Recipe           `json:"recipes"`
	Planner     PlannerSnapshot            `json:"planner"`
	Messages    int                        `json:"messages"`
}
