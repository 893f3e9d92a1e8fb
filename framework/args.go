package framework

// Argument accessors shared by the domain modules. Tool params arrive as
// decoded JSON, so numbers can be float64 or native ints depending on caller.

// StringArg returns a string argument, or the fallback when absent.
func StringArg(args map[string]any, name, fallback string) string {
	if v, ok := args[name].(string); ok && v != "" {
		return v
	}
	return fallback
}

// NumberArg returns a numeric argument, or the fallback when absent.
func NumberArg(args map[string]any, name string, fallback float64) float64 {
	switch v := args[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

// IntArg returns a numeric argument truncated to int.
func IntArg(args map[string]any, name string, fallback int) int {
	if _, ok := args[name]; !ok {
		return fallback
	}
	return int(NumberArg(args, name, float64(fallback)))
}

// BoolArg returns a boolean argument, or the fallback when absent.
func BoolArg(args map[string]any, name string, fallback bool) bool {
	if v, ok := args[name].(bool); ok {
		return v
	}
	return fallback
}

// HasArg reports whether an argument was supplied at all.
func HasArg(args map[string]any, name string) bool {
	_, ok := args[name]
	return ok
}
