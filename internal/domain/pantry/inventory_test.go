package pantry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id, name string, qty float64, unit Unit) InventoryItem {
	return InventoryItem{ID: id, Name: name, Category: "Vegetable", Quantity: qty, Unit: unit, ExpiryDate: "2030-01-01"}
}

func TestConvertAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		from   Unit
		to     Unit
		want   float64
	}{
		{"grams to kilograms", 500, UnitGram, UnitKilogram, 0.5},
		{"kilograms to grams", 1.5, UnitKilogram, UnitGram, 1500},
		{"same unit", 200, UnitGram, UnitGram, 200},
		{"millilitres are not converted", 500, UnitMilliliter, UnitLiter, 500},
		{"pieces pass through", 2, UnitPieces, UnitGram, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConvertAmount(tt.amount, tt.from, tt.to), 1e-9)
		})
	}
}

func TestInventory_Consume(t *testing.T) {
	t.Run("GramsFromKilograms_ShouldConvertBeforeSubtracting", func(t *testing.T) {
		inv := Inventory{item("1", "Tomato", 1, UnitKilogram)}

		next := inv.Consume([]Requirement{{Name: "Tomato", Amount: 500, Unit: UnitGram}})

		require.Len(t, next, 1)
		assert.Equal(t, 0.5, next[0].Quantity)
		assert.Equal(t, UnitKilogram, next[0].Unit)
		assert.Equal(t, 1.0, inv[0].Quantity, "original inventory must be untouched")
	})

	t.Run("CaseInsensitiveMatch_ShouldConsume", func(t *testing.T) {
		inv := Inventory{item("1", "Rice", 1000, UnitGram)}

		next := inv.Consume([]Requirement{{Name: "rICE", Amount: 250, Unit: UnitGram}})

		require.Len(t, next, 1)
		assert.Equal(t, 750.0, next[0].Quantity)
	})

	t.Run("UnmatchedIngredient_ShouldBeNoOp", func(t *testing.T) {
		inv := Inventory{item("1", "Rice", 1000, UnitGram)}

		next := inv.Consume([]Requirement{{Name: "Saffron", Amount: 1, Unit: UnitGram}})

		assert.Equal(t, inv, next)
	})

	t.Run("ExactAmount_ShouldRemoveItem", func(t *testing.T) {
		inv := Inventory{item("1", "Egg", 2, UnitPieces), item("2", "Milk", 500, UnitMilliliter)}

		next := inv.Consume([]Requirement{{Name: "Egg", Amount: 2, Unit: UnitPieces}})

		require.Len(t, next, 1)
		assert.Equal(t, "Milk", next[0].Name)
	})

	t.Run("MoreThanOnHand_ShouldRemoveItem", func(t *testing.T) {
		inv := Inventory{item("1", "Butter", 100, UnitGram)}

		next := inv.Consume([]Requirement{{Name: "Butter", Amount: 0.25, Unit: UnitKilogram}})

		assert.Empty(t, next)
	})

	t.Run("Remainder_ShouldRoundToTwoDecimals", func(t *testing.T) {
		inv := Inventory{item("1", "Flour", 1, UnitKilogram)}

		next := inv.Consume([]Requirement{{Name: "Flour", Amount: 333, Unit: UnitGram}})

		require.Len(t, next, 1)
		assert.Equal(t, 0.67, next[0].Quantity)
	})

	t.Run("UnrelatedUnits_ShouldSubtractRawAmount", func(t *testing.T) {
		inv := Inventory{item("1", "Milk", 1, UnitLiter)}

		next := inv.Consume([]Requirement{{Name: "Milk", Amount: 200, Unit: UnitMilliliter}})

		assert.Empty(t, next, "ml against l is not converted so 200 exceeds 1")
	})

	t.Run("SeveralIngredients_ShouldAllApply", func(t *testing.T) {
		inv := Inventory{
			item("1", "Tomato", 1, UnitKilogram),
			item("2", "Onion", 3, UnitPieces),
			item("3", "Pasta", 500, UnitGram),
		}

		next := inv.Consume([]Requirement{
			{Name: "tomato", Amount: 400, Unit: UnitGram},
			{Name: "Onion", Amount: 1, Unit: UnitPieces},
			{Name: "Pasta", Amount: 500, Unit: UnitGram},
		})

		require.Len(t, next, 2)
		assert.Equal(t, 0.6, next[0].Quantity)
		assert.Equal(t, 2.0, next[1].Quantity)
	})
}

func TestInventory_Fingerprint(t *testing.T) {
	a := Inventory{item("1", "Tomato", 1, UnitKilogram)}
	b := Inventory{item("1", "Tomato", 1, UnitKilogram)}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Equal(t, "[]", Inventory(nil).Fingerprint())
	assert.Equal(t, Inventory{}.Fingerprint(), Inventory(nil).Fingerprint())

	b[0].Quantity = 2
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestInventory_Describe(t *testing.T) {
	inv := Inventory{item("1", "Tomato", 500, UnitGram), item("2", "Rice", 1.5, UnitKilogram)}

	assert.Equal(t, "500g Tomato, 1.5kg Rice", inv.Describe())
	assert.Equal(t, "", Inventory{}.Describe())
}
