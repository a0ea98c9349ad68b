package assistant

import (
	"fmt"
	"strings"

	"github.com/fridgeraider/fridgeraider/internal/domain/pantry"
	"github.com/fridgeraider/fridgeraider/internal/domain/preference"
)

func validationPrompt(name string) string {
	return fmt.Sprintf(`Is %q a valid food item or edible ingredient? Answer in JSON format with "isValid" (boolean) and "category" (string, e.g., Dairy, Vegetable, Meat, Pantry, Fruit, Other). If not food, isValid is false.`, name)
}

func preferencesPrompt(text string) string {
	return fmt.Sprintf(`Extract dietary preferences and restrictions from this text: %q. Return a JSON array of strings (tags). Example: ["Vegan", "No Nuts", "Gluten-Free"].`, text)
}

func recipesPrompt(inv pantry.Inventory, prefs preference.UserPreferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert chef. Based on these ingredients: [%s] and dietary restrictions: [%s], generate %d creative recipes.\n",
		inv.Describe(), prefs.Describe(), recipeCount)
	b.WriteString("Strictly use only what is available in the inventory.\n")
	b.WriteString("Units must be in universal metric (g, ml, pcs).\n")
	b.WriteString(`Provide JSON format: Array of objects with "id", "name", "ingredients" (Array of {name, amount, unit}), "steps" (Array of 4-5 strings), "rating" (number 1-5).`)
	return b.String()
}

func mealPlanPrompt(inv pantry.Inventory, prefs preference.UserPreferences, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day meal plan (Breakfast, Lunch, Dinner) using ONLY these ingredients: [%s]. Dietary tags: [%s].\n",
		days, inv.Describe(), prefs.Describe())
	b.WriteString("Equalize units (1kg = 1000g, etc.) and only use available quantities.\n")
	fmt.Fprintf(&b, `JSON output: Array of %d objects with "day" (1-%d), "breakfast", "lunch", "dinner". Each meal should have "name", "ingredients" (Array of {name, amount, unit}), and "steps" (Array of 4-5 strings).`,
		days, days)
	return b.String()
}

func chatPrompt(message string, inv pantry.Inventory, prefs *preference.UserPreferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User message: %q. Context: User's fridge contains [%s].", message, inv.Describe())
	if prefs != nil && prefs.HasTags() {
		fmt.Fprintf(&b, " Dietary tags: [%s].", prefs.Describe())
	}
	b.WriteString(" You are an AI assistant for FRIDGERAIDER. If searching for recipes or current news, use the google search tool.")
	return b.String()
}
