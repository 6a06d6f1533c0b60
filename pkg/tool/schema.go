package tool

// JSONSchema captures the subset of JSON Schema we require for tool validation.
type JSONSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
	Enum       []any          `json:"enum,omitempty"`
	Minimum    *float64       `json:"minimum,omitempty"`
	Maximum    *float64       `json:"maximum,omitempty"`
}

// Float is a convenience for schema Minimum/Maximum literals.
func Float(v float64) *float64 { return &v }

// StringProp builds a string property definition.
func StringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// NumberProp builds a number property definition.
func NumberProp(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

// BoolProp builds a boolean property definition.
func BoolProp(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

// EnumProp builds a string property restricted to the given values.
func EnumProp(description string, values ...string) map[string]any {
	enum := make([]any, 0, len(values))
	for _, v := range values {
		enum = append(enum, v)
	}
	return map[string]any{"type": "string", "description": description, "enum": enum}
}
