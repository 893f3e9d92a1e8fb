package framework

import (
	"fmt"
	"strings"
)

// Property describes a single tool argument.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Schema declares the arguments a tool accepts, JSON-Schema style: an object
// with named properties and a list of required names. Every name in Required
// must also appear in Properties.
type Schema struct {
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// MarshalSchema is what function-calling integrations see: the schema plus the
// fixed "object" type tag.
type schemaJSON struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Definition is the manifest entry for one tool.
type Definition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  schemaJSON `json:"parameters"`
}

// Validate checks params against the schema and returns every violation found.
// It never short-circuits: callers get the full list of problems at once. An
// empty schema accepts any params.
func (s Schema) Validate(params map[string]any) []string {
	var errs []string

	for _, name := range s.Required {
		if _, ok := params[name]; !ok {
			errs = append(errs, fmt.Sprintf("Missing required parameter: %s", name))
		}
	}

	for name, prop := range s.Properties {
		value, ok := params[name]
		if !ok {
			continue
		}
		switch prop.Type {
		case "string":
			if _, ok := value.(string); !ok {
				errs = append(errs, fmt.Sprintf("Parameter %s must be a string", name))
			}
		case "number":
			if !isNumber(value) {
				errs = append(errs, fmt.Sprintf("Parameter %s must be a number", name))
			}
		case "boolean":
			if _, ok := value.(bool); !ok {
				errs = append(errs, fmt.Sprintf("Parameter %s must be a boolean", name))
			}
		case "array":
			if !isArray(value) {
				errs = append(errs, fmt.Sprintf("Parameter %s must be an array", name))
			}
		}
		if len(prop.Enum) > 0 {
			if str, ok := value.(string); !ok || !contains(prop.Enum, str) {
				errs = append(errs, fmt.Sprintf("Parameter %s must be one of: %s", name, strings.Join(prop.Enum, ", ")))
			}
		}
	}

	return errs
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return true
	}
	return false
}

func isArray(v any) bool {
	switch v.(type) {
	case []any, []string, []float64:
		return true
	}
	return false
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
