package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringArg(t *testing.T) {
	args := map[string]any{"name": "pomodoro", "empty": ""}
	assert.Equal(t, "pomodoro", StringArg(args, "name", "default"))
	assert.Equal(t, "default", StringArg(args, "empty", "default"))
	assert.Equal(t, "default", StringArg(args, "missing", "default"))
	assert.Equal(t, "default", StringArg(map[string]any{"name": 7}, "name", "default"))
}

func TestNumberArg(t *testing.T) {
	assert.Equal(t, 2.5, NumberArg(map[string]any{"hours": 2.5}, "hours", 1))
	assert.Equal(t, 3.0, NumberArg(map[string]any{"hours": 3}, "hours", 1))
	assert.Equal(t, 3.0, NumberArg(map[string]any{"hours": int64(3)}, "hours", 1))
	assert.Equal(t, 1.0, NumberArg(map[string]any{}, "hours", 1))
	assert.Equal(t, 1.0, NumberArg(map[string]any{"hours": "three"}, "hours", 1))
}

func TestIntArg(t *testing.T) {
	assert.Equal(t, 5, IntArg(map[string]any{"limit": float64(5)}, "limit", 10))
	assert.Equal(t, 5, IntArg(map[string]any{"limit": 5.9}, "limit", 10))
	assert.Equal(t, 10, IntArg(map[string]any{}, "limit", 10))
}

func TestBoolArg(t *testing.T) {
	assert.True(t, BoolArg(map[string]any{"includeTrends": true}, "includeTrends", false))
	assert.False(t, BoolArg(map[string]any{}, "includeTrends", false))
	assert.True(t, BoolArg(map[string]any{"includeTrends": "yes"}, "includeTrends", true))
}

func TestHasArg(t *testing.T) {
	assert.True(t, HasArg(map[string]any{"limit": nil}, "limit"))
	assert.False(t, HasArg(map[string]any{}, "limit"))
}
