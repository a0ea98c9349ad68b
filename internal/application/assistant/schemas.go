package assistant

import "github.com/fridgeraider/fridgeraider/internal/ports/outbound"

func foodVerdictSchema() *outbound.Schema {
	return outbound.Object(
		[]string{"isValid", "category"},
		map[string]*outbound.Schema{
			"isValid":  outbound.Primitive(outbound.TypeBoolean, ""),
			"category": outbound.Primitive(outbound.TypeString, "Dairy, Vegetable, Meat, Pantry, Fruit or Other"),
		},
		"isValid", "category",
	)
}

func tagListSchema() *outbound.Schema {
	return outbound.ArrayOf(outbound.Primitive(outbound.TypeString, ""))
}

func ingredientSchema(required ...string) *outbound.Schema {
	return outbound.Object(
		[]string{"name", "amount", "unit"},
		map[string]*outbound.Schema{
			"name":   outbound.Primitive(outbound.TypeString, ""),
			"amount": outbound.Primitive(outbound.TypeNumber, ""),
			"unit":   outbound.Primitive(outbound.TypeString, "g, ml or pcs"),
		},
		required...,
	)
}

func stepsSchema() *outbound.Schema {
	return outbound.ArrayOf(outbound.Primitive(outbound.TypeString, ""))
}

func recipeListSchema() *outbound.Schema {
	fields := []string{"id", "name", "ingredients", "steps", "rating"}
	return outbound.ArrayOf(outbound.Object(
		fields,
		map[string]*outbound.Schema{
			"id":          outbound.Primitive(outbound.TypeString, ""),
			"name":        outbound.Primitive(outbound.TypeString, ""),
			"ingredients": outbound.ArrayOf(ingredientSchema("name", "amount", "unit")),
			"steps":       stepsSchema(),
			"rating":      outbound.Primitive(outbound.TypeNumber, "1 to 5"),
		},
		fields...,
	))
}

func mealSchema() *outbound.Schema {
	return outbound.Object(
		[]string{"name", "ingredients", "steps"},
		map[string]*outbound.Schema{
			"name":        outbound.Primitive(outbound.TypeString, ""),
			"ingredients": outbound.ArrayOf(ingredientSchema()),
			"steps":       stepsSchema(),
		},
	)
}

func mealPlanSchema() *outbound.Schema {
	fields := []string{"day", "breakfast", "lunch", "dinner"}
	return outbound.ArrayOf(outbound.Object(
		fields,
		map[string]*outbound.Schema{
			"day":       outbound.Primitive(outbound.TypeNumber, ""),
			"breakfast": mealSchema(),
			"lunch":     mealSchema(),
			"dinner":    mealSchema(),
		},
		fields...,
	))
}
