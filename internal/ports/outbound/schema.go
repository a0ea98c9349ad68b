package outbound

// SchemaType is a JSON schema primitive.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
)

// Schema describes the JSON shape a model reply must have. It is a small,
// provider neutral subset of JSON schema.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	// PropertyOrdering fixes the order properties are generated in.
	PropertyOrdering []string
	Required         []string
	Items            *Schema
}

// JSONSchema renders the schema as a JSON schema document.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema()
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	return out
}

// Object builds an object schema whose property order follows names.
func Object(names []string, props map[string]*Schema, required ...string) *Schema {
	return &Schema{
		Type:             TypeObject,
		Properties:       props,
		PropertyOrdering: names,
		Required:         required,
	}
}

// ArrayOf builds an array schema.
func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// Primitive builds a scalar schema.
func Primitive(t SchemaType, description string) *Schema {
	return &Schema{Type: t, Description: description}
}
