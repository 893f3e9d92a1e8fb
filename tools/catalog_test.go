package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotedu/studypilot/framework"
)

func TestRegistryHoldsAllModules(t *testing.T) {
	clock := framework.FixedClock(time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC))
	stores := NewStores(clock, nil)
	registry, err := Registry(stores, clock)
	require.NoError(t, err)

	names := registry.List()
	assert.Len(t, names, 21)
	assert.Equal(t, "get_courses", names[0])

	for _, name := range []string{
		"get_courses", "get_course_details", "get_assignments", "get_announcements", "get_materials",
		"get_calendar_events", "create_event", "find_free_slots", "suggest_schedule",
		"get_grade_summary", "get_course_grades", "predict_final_grade", "get_improvement_tips",
		"create_study_plan", "log_study_session", "get_study_stats", "get_topic_recommendations",
		"log_wellness", "get_wellness_status", "take_break", "get_wellness_tips",
	} {
		_, ok := registry.Get(name)
		assert.Truef(t, ok, "missing tool %s", name)
	}

	assert.Len(t, registry.ByCategory("lms"), 5)
	assert.Len(t, registry.ByCategory("calendar"), 4)
	assert.Len(t, registry.ByCategory("grades"), 4)
	assert.Len(t, registry.ByCategory("study"), 4)
	assert.Len(t, registry.ByCategory("wellness"), 4)
}

func TestRegistryExecutesAcrossModules(t *testing.T) {
	clock := framework.FixedClock(time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC))
	stores := NewStores(clock, nil)
	registry, err := Registry(stores, clock)
	require.NoError(t, err)

	for _, name := range []string{"get_courses", "get_calendar_events", "get_grade_summary", "get_study_stats", "get_wellness_status"} {
		execution := registry.Execute(context.Background(), name, map[string]any{})
		assert.Truef(t, execution.Success, "%s failed: %s", name, execution.Error)
		assert.NotNil(t, execution.Result)
	}
}

// Every registered tool invoked with empty params either succeeds or reports a
// schema violation; nothing panics or errors opaquely.
func TestEveryToolHandlesEmptyParams(t *testing.T) {
	clock := framework.FixedClock(time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC))
	stores := NewStores(clock, nil)
	registry, err := Registry(stores, clock)
	require.NoError(t, err)

	for _, name := range registry.List() {
		execution := registry.Execute(context.Background(), name, map[string]any{})
		if execution.Success {
			assert.NotNilf(t, execution.Result, "%s succeeded without a result", name)
			continue
		}
		assert.Containsf(t, execution.Error, "Invalid parameters:", "%s failed outside validation: %s", name, execution.Error)
	}
}
