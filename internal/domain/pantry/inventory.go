package pantry

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Inventory is an ordered list of items. Order is insertion order.
type Inventory []InventoryItem

// Requirement is an amount of a named ingredient that a recipe consumes.
type Requirement struct {
	Name   string
	Amount float64
	Unit   Unit
}

// Clone returns a copy that shares no backing array with inv.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	copy(out, inv)
	return out
}

// Find returns the item with the given id.
func (inv Inventory) Find(id string) (InventoryItem, bool) {
	for _, item := range inv {
		if item.ID == id {
			return item, true
		}
	}
	return InventoryItem{}, false
}

// IndexByName returns the position of the first item whose name matches,
// ignoring case, or -1.
func (inv Inventory) IndexByName(name string) int {
	for i, item := range inv {
		if item.Matches(name) {
			return i
		}
	}
	return -1
}

// Fingerprint serializes the inventory by value. Two inventories with equal
// items in equal order have equal fingerprints.
func (inv Inventory) Fingerprint() string {
	if len(inv) == 0 {
		return "[]"
	}
	data, err := json.Marshal(inv)
	if err != nil {
		// Items hold only strings and finite floats.
		return ""
	}
	return string(data)
}

// Describe lists the items for an AI prompt: "500g Tomato, 1kg Rice".
func (inv Inventory) Describe() string {
	labels := make([]string, 0, len(inv))
	for _, item := range inv {
		labels = append(labels, item.Label())
	}
	return strings.Join(labels, ", ")
}

// Consume subtracts the requirements from a copy of the inventory and returns
// it. Names match case-insensitively against the first matching item. Amounts
// are converted between g and kg before subtracting. Quantities are rounded
// to two decimals and items that reach zero are removed. Requirements with no
// matching item are skipped.
func (inv Inventory) Consume(reqs []Requirement) Inventory {
	next := inv.Clone()
	for _, req := range reqs {
		idx := next.IndexByName(req.Name)
		if idx < 0 {
			continue
		}

		item := next[idx]
		needed := ConvertAmount(req.Amount, req.Unit, item.Unit)
		remaining := roundQuantity(item.Quantity - needed)
		if remaining <= 0 {
			next = append(next[:idx], next[idx+1:]...)
			continue
		}
		next[idx].Quantity = remaining
	}
	return next
}

func roundQuantity(q float64) float64 {
	return math.Round(q*100) / 100
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
