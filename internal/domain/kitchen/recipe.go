// Package kitchen models the AI-generated recipes and meal plans. None of
// these values are persisted; they are derived from the inventory.
package kitchen

import (
	"math"
	"strings"

	"github.com/fridgeraider/fridgeraider/internal/domain/pantry"
)

const (
	// RecipesPerBatch is how many recipes one generation asks for.
	RecipesPerBatch = 3

	MinRating = 1.0
	MaxRating = 5.0
)

// Ingredient is an amount of a named food a recipe uses.
type Ingredient struct {
	Name   string  `json:"name" yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
	Unit   string  `json:"unit" yaml:"unit"`
}

// Recipe is a suggested dish. Meals inside a plan carry no id or rating.
type Recipe struct {
	ID          string       `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string       `json:"name" yaml:"name"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
	Steps       []string     `json:"steps" yaml:"steps"`
	Rating      float64      `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// Requirements converts the ingredients into pantry consumption requests.
func (r Recipe) Requirements() []pantry.Requirement {
	reqs := make([]pantry.Requirement, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		reqs = append(reqs, pantry.Requirement{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   pantry.ParseUnit(ing.Unit),
		})
	}
	return reqs
}

// NormalizeRecipes drops nameless entries, assigns missing or repeated ids
// and clamps ratings into 1..5. Ids are unique within the result.
func NormalizeRecipes(recipes []Recipe, newID func() string) []Recipe {
	out := make([]Recipe, 0, len(recipes))
	seen := make(map[string]struct{}, len(recipes))
	for _, r := range recipes {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			continue
		}
		r.ID = strings.TrimSpace(r.ID)
		if _, taken := seen[r.ID]; r.ID == "" || taken {
			r.ID = freshID(seen, newID)
		}
		seen[r.ID] = struct{}{}
		r.Rating = clampRating(r.Rating)
		if r.Ingredients == nil {
			r.Ingredients = []Ingredient{}
		}
		if r.Steps == nil {
			r.Steps = []string{}
		}
		out = append(out, r)
	}
	return out
}

func freshID(seen map[string]struct{}, newID func() string) string {
	for {
		id := newID()
		if _, taken := seen[id]; !taken {
			return id
		}
	}
}

// FindRecipe looks a recipe up by id.
func FindRecipe(recipes []Recipe, id string) (Recipe, error) {
	for _, r := range recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return Recipe{}, ErrRecipeNotFound
}

func clampRating(rating float64) float64 {
	if math.IsNaN(rating) {
		return MinRating
	}
	return math.Min(MaxRating, math.Max(MinRating, rating))
}
