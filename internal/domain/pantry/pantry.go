package pantry

import (
	"time"

	"github.com/fridgeraider/fridgeraider/internal/domain/shared"
)

// Pantry is the aggregate that owns the inventory. Every mutation records a
// domain event; callers drain them with Events after persisting.
type Pantry struct {
	shared.AggregateRoot
	items Inventory
	now   func() time.Time
}

// New creates a pantry holding a copy of items.
func New(items Inventory) *Pantry {
	return &Pantry{items: items.Clone(), now: time.Now}
}

// Restore creates a pantry from persisted items and records the load.
func Restore(items Inventory) *Pantry {
	p := New(items)
	p.AddEvent(InventoryLoadedEvent{Items: len(items), LoadedAt: p.now()})
	return p
}

// Items returns a copy of the current inventory.
func (p *Pantry) Items() Inventory {
	return p.items.Clone()
}

// Len returns the number of items.
func (p *Pantry) Len() int {
	return len(p.items)
}

// Clone copies the pantry without its pending events.
func (p *Pantry) Clone() *Pantry {
	return &Pantry{items: p.items.Clone(), now: p.now}
}

// Add appends an item.
func (p *Pantry) Add(item InventoryItem) {
	p.items = append(p.items.Clone(), item)
	p.AddEvent(ItemAddedEvent{
		ItemID:   item.ID,
		Name:     item.Name,
		Category: item.Category,
		AddedAt:  p.now(),
	})
}

// Remove deletes the item with the given id.
func (p *Pantry) Remove(id string) error {
	next := make(Inventory, 0, len(p.items))
	var removed *InventoryItem
	for _, item := range p.items {
		if item.ID == id && removed == nil {
			item := item
			removed = &item
			continue
		}
		next = append(next, item)
	}
	if removed == nil {
		return ErrItemNotFound
	}

	p.items = next
	p.AddEvent(ItemRemovedEvent{ItemID: removed.ID, Name: removed.Name, RemovedAt: p.now()})
	return nil
}

// Cook consumes the requirements in one step and returns the new inventory.
func (p *Pantry) Cook(recipeName string, reqs []Requirement) Inventory {
	before := p.items
	after := before.Consume(reqs)

	consumed := 0
	for _, req := range reqs {
		if before.IndexByName(req.Name) >= 0 {
			consumed++
		}
	}
	var depleted []string
	for _, item := range before {
		if _, ok := after.Find(item.ID); !ok {
			depleted = append(depleted, item.Name)
		}
	}

	p.items = after
	p.AddEvent(RecipeCookedEvent{
		RecipeName:     recipeName,
		Consumed:       consumed,
		Depleted:       depleted,
		ItemsRemaining: len(after),
		CookedAt:       p.now(),
	})
	return after.Clone()
}
