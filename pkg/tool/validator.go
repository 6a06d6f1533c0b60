package tool

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Validator validates tool parameters before execution.
type Validator interface {
	Validate(params map[string]any, schema *JSONSchema) error
}

// DefaultValidator implements the subset of JSON Schema validation the
// builtin tools need: required fields, primitive types, enum, and
// minimum/maximum bounds.
type DefaultValidator struct{}

// Validate ensures that params satisfy the provided schema.
func (v DefaultValidator) Validate(params map[string]any, schema *JSONSchema) error {
	if schema == nil {
		return nil
	}
	if params == nil {
		params = map[string]any{}
	}

	for _, field := range schema.Required {
		if _, exists := params[field]; !exists {
			return fmt.Errorf("missing required field: %s", field)
		}
	}

	for key, value := range params {
		def, ok := schema.Properties[key]
		if !ok {
			return fmt.Errorf("unexpected field: %s", key)
		}
		prop, ok := def.(map[string]any)
		if !ok {
			continue
		}
		if err := v.validateProperty(value, prop); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
	}
	return nil
}

func (v DefaultValidator) validateProperty(value any, prop map[string]any) error {
	if expected, ok := prop["type"].(string); ok {
		if err := validateType(value, expected); err != nil {
			return err
		}
	}

	if rawEnum, ok := prop["enum"].([]any); ok && len(rawEnum) > 0 {
		if !valueInEnum(value, rawEnum) {
			return fmt.Errorf("expected one of %v but got %v", rawEnum, value)
		}
	}

	min, hasMin := toFloat64(prop["minimum"])
	max, hasMax := toFloat64(prop["maximum"])
	if hasMin || hasMax {
		num, ok := toFloat64(value)
		if !ok {
			return fmt.Errorf("expected number but got %T", value)
		}
		if hasMin && num < min {
			return fmt.Errorf("value %v is less than minimum %v", num, min)
		}
		if hasMax && num > max {
			return fmt.Errorf("value %v exceeds maximum %v", num, max)
		}
	}
	return nil
}

func validateType(value any, expected string) error {
	switch expected {
	case "string":
		if _, ok := value.(string); ok {
			return nil
		}
	case "number", "integer":
		if _, ok := toFloat64(value); ok {
			return nil
		}
	case "boolean":
		if _, ok := value.(bool); ok {
			return nil
		}
	case "object":
		if _, ok := value.(map[string]any); ok {
			return nil
		}
	case "array":
		if _, ok := value.([]any); ok {
			return nil
		}
	default:
		return fmt.Errorf("unsupported schema type %q", expected)
	}
	return fmt.Errorf("expected %s but got %T", expected, value)
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func valueInEnum(value any, values []any) bool {
	for _, candidate := range values {
		if aNum, ok := toFloat64(value); ok {
			if bNum, ok := toFloat64(candidate); ok && aNum == bNum {
				return true
			}
			continue
		}
		if reflect.DeepEqual(value, candidate) {
			return true
		}
	}
	return false
}
