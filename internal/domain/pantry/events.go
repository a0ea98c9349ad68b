package pantry

import "time"

// InventoryTopic is the bus topic that carries every inventory mutation.
const InventoryTopic = "pantry.inventory"

// ItemAddedEvent is raised when a validated item joins the inventory
type ItemAddedEvent struct {
	ItemID   string
	Name     string
	Category string
	AddedAt  time.Time
}

func (e ItemAddedEvent) EventName() string {
	return "pantry.item.added"
}

func (e ItemAddedEvent) OccurredAt() time.Time {
	return e.AddedAt
}

// ItemRemovedEvent is raised when the user deletes an item
type ItemRemovedEvent struct {
	ItemID    string
	Name      string
	RemovedAt time.Time
}

func (e ItemRemovedEvent) EventName() string {
	return "pantry.item.removed"
}

func (e ItemRemovedEvent) OccurredAt() time.Time {
	return e.RemovedAt
}

// RecipeCookedEvent is raised when a recipe's ingredients are consumed
type RecipeCookedEvent struct {
	RecipeName     string
	Consumed       int
	Depleted       []string
	ItemsRemaining int
	CookedAt       time.Time
}

func (e RecipeCookedEvent) EventName() string {
	return "pantry.recipe.cooked"
}

func (e RecipeCookedEvent) OccurredAt() time.Time {
	return e.CookedAt
}

// InventoryLoadedEvent is raised when a persisted inventory is restored
type InventoryLoadedEvent struct {
	Items    int
	LoadedAt time.Time
}

func (e InventoryLoadedEvent) EventName() string {
	return "pantry.inventory.loaded"
}

func (e InventoryLoadedEvent) OccurredAt() time.Time {
	return e.LoadedAt
}
