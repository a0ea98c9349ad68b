package pantry

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used for expiry dates.
const DateLayout = "2006-01-02"

// Default category assigned when the validator cannot classify an item.
const CategoryOther = "Other"

// InventoryItem is one food item the user owns.
type InventoryItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Quantity   float64 `json:"quantity"`
	Unit       Unit    `json:"unit"`
	ExpiryDate string  `json:"expiryDate"`
}

// NewInventoryItem validates the fields and assigns a fresh id.
func NewInventoryItem(name, category string, quantity float64, unit Unit, expiryDate string) (InventoryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return InventoryItem{}, ErrEmptyName
	}
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return InventoryItem{}, ErrInvalidQuantity
	}
	if _, err := time.Parse(DateLayout, expiryDate); err != nil {
		return InventoryItem{}, fmt.Errorf("%w: %q", ErrInvalidExpiry, expiryDate)
	}
	if strings.TrimSpace(category) == "" {
		category = CategoryOther
	}

	return InventoryItem{
		ID:         uuid.New().String(),
		Name:       name,
		Category:   category,
		Quantity:   quantity,
		Unit:       unit,
		ExpiryDate: expiryDate,
	}, nil
}

// Matches reports whether name refers to this item, ignoring case.
func (i InventoryItem) Matches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(i.Name), strings.TrimSpace(name))
}

// Label renders the item the way prompts list it, e.g. "500g Tomato".
func (i InventoryItem) Label() string {
	return formatQuantity(i.Quantity) + string(i.Unit) + " " + i.Name
}
