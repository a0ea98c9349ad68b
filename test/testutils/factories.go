// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"encoding/json"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/fridgeraider/fridgeraider/internal/domain/kitchen"
	"github.com/fridgeraider/fridgeraider/internal/domain/pantry"
)

// InventoryFactory provides methods to create test inventory items
type InventoryFactory struct {
	faker *gofakeit.Faker
}

// NewInventoryFactory creates a new inventory factory with seeded faker
func NewInventoryFactory(seed int64) *InventoryFactory {
	return &InventoryFactory{faker: gofakeit.New(seed)}
}

var categories = []string{"Dairy", "Vegetable", "Meat", "Pantry", "Fruit", "Other"}

// Item creates a random valid item expiring within a month
func (f *InventoryFactory) Item() pantry.InventoryItem {
	unit := pantry.Units[f.faker.Number(0, len(pantry.Units)-1)]
	expiry := time.Now().AddDate(0, 0, f.faker.Number(1, 30)).Format(pantry.DateLayout)
	return pantry.InventoryItem{
		ID:         uuid.New().String(),
		Name:       f.faker.Vegetable(),
		Category:   categories[f.faker.Number(0, len(categories)-1)],
		Quantity:   float64(f.faker.Number(1, 1000)),
		Unit:       unit,
		ExpiryDate: expiry,
	}
}

// Inventory creates n random items with distinct names
func (f *InventoryFactory) Inventory(n int) pantry.Inventory {
	inv := make(pantry.Inventory, 0, n)
	seen := make(map[string]bool, n)
	for len(inv) < n {
		it := f.Item()
		if seen[it.Name] {
			it.Name = it.Name + " " + f.faker.LetterN(4)
		}
		seen[it.Name] = true
		inv = append(inv, it)
	}
	return inv
}

// NewItem builds a fixed item for deterministic tests
func NewItem(name string, quantity float64, unit pantry.Unit) pantry.InventoryItem {
	return pantry.InventoryItem{
		ID:         uuid.New().String(),
		Name:       name,
		Category:   "Other",
		Quantity:   quantity,
		Unit:       unit,
		ExpiryDate: time.Now().AddDate(0, 0, 14).Format(pantry.DateLayout),
	}
}

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{faker: gofakeit.New(seed)}
}

// Recipe creates a recipe that uses the given items
func (f *RecipeFactory) Recipe(uses ...pantry.InventoryItem) kitchen.Recipe {
	ingredients := make([]kitchen.Ingredient, 0, len(uses))
	for _, it := range uses {
		ingredients = append(ingredients, kitchen.Ingredient{
			Name:   it.Name,
			Amount: it.Quantity / 2,
			Unit:   string(it.Unit),
		})
	}
	steps := make([]string, 4)
	for i := range steps {
		steps[i] = f.faker.Sentence(6)
	}
	return kitchen.Recipe{
		ID:          uuid.New().String(),
		Name:        f.faker.Dessert(),
		Ingredients: ingredients,
		Steps:       steps,
		Rating:      float64(f.faker.Number(1, 5)),
	}
}

// Plan creates a meal plan of the given length
func (f *RecipeFactory) Plan(days int) []kitchen.MealPlanDay {
	plan := make([]kitchen.MealPlanDay, days)
	for i := range plan {
		breakfast, lunch, dinner := f.Recipe(), f.Recipe(), f.Recipe()
		plan[i] = kitchen.MealPlanDay{Day: i + 1, Breakfast: &breakfast, Lunch: &lunch, Dinner: &dinner}
	}
	return plan
}

// MustJSON marshals v for scripted model replies
func MustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
