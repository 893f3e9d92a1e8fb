package calendar

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotedu/studypilot/framework"
)

var monday = time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	return NewStore(framework.FixedClock(monday))
}

func TestGetEventsSortedAndFormatted(t *testing.T) {
	tool := &GetEventsTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	result := out.(EventsResult)

	require.Equal(t, 5, result.Count)
	assert.Equal(t, "evt_001", result.Events[0].ID)
	assert.Equal(t, "evt_005", result.Events[4].ID)
	assert.Contains(t, result.Formatted, "📚 **CS301 Lecture**")
	assert.Contains(t, result.Formatted, "📍 No location")
}

func TestGetEventsThisWeekRange(t *testing.T) {
	tool := &GetEventsTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{"startDate": "this_week"})
	require.NoError(t, err)
	result := out.(EventsResult)

	// Monday minus one weekday lands on Sunday; the window spans seven days.
	assert.Equal(t, "2024-03-17T09:00:00Z", result.DateRange.Start)
	assert.Equal(t, "2024-03-24T09:00:00Z", result.DateRange.End)
	// The range annotates the query; events are not filtered by it.
	assert.Equal(t, 5, result.Count)
}

func TestGetEventsTodayRange(t *testing.T) {
	tool := &GetEventsTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{"startDate": "today"})
	require.NoError(t, err)
	result := out.(EventsResult)
	assert.Equal(t, "2024-03-18T00:00:00Z", result.DateRange.Start)
	assert.Equal(t, "2024-03-19T00:00:00Z", result.DateRange.End)
}

func TestGetEventsFilters(t *testing.T) {
	tool := &GetEventsTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{"type": "deadline"})
	require.NoError(t, err)
	result := out.(EventsResult)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "evt_005", result.Events[0].ID)

	out, err = tool.Execute(context.Background(), map[string]any{"courseCode": "CS301"})
	require.NoError(t, err)
	result = out.(EventsResult)
	assert.Equal(t, 4, result.Count)
}

func TestCreateEventDefaults(t *testing.T) {
	store := newTestStore()
	tool := &CreateEventTool{store: store}

	out, err := tool.Execute(context.Background(), map[string]any{
		"title":     "Review eigenvalues",
		"type":      "study",
		"startTime": "2024-03-21T16:00:00",
	})
	require.NoError(t, err)
	result := out.(CreateEventResult)

	require.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Event.ID, "evt_"))
	assert.Equal(t, "#06B6D4", result.Event.Color)
	assert.Equal(t, monday, result.Event.CreatedAt)
	assert.Equal(t, 60*time.Minute, result.Event.EndTime.Sub(result.Event.StartTime))
	assert.Contains(t, result.Formatted, "✅ **Event Created!**")
	assert.Contains(t, result.Formatted, "Duration: 60 minutes")

	assert.Len(t, store.Events(), 6)
}

func TestCreateEventColorsAndNotes(t *testing.T) {
	tool := &CreateEventTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{
		"title":     "Essay due",
		"type":      "deadline",
		"startTime": "2024-03-25",
		"duration":  float64(30),
		"notes":     "submit via portal",
	})
	require.NoError(t, err)
	result := out.(CreateEventResult)
	assert.Equal(t, "#EF4444", result.Event.Color)
	assert.Contains(t, result.Formatted, "📝 Notes: submit via portal")

	out, err = tool.Execute(context.Background(), map[string]any{
		"title":     "Advising",
		"type":      "meeting",
		"startTime": "2024-03-25T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "#8B5CF6", out.(CreateEventResult).Event.Color)
}

func TestCreateEventRejectsBadStartTime(t *testing.T) {
	tool := &CreateEventTool{store: newTestStore()}

	_, err := tool.Execute(context.Background(), map[string]any{
		"title":     "Broken",
		"type":      "study",
		"startTime": "next tuesday",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid startTime")
}

func TestFindFreeSlotsAvoidsLectures(t *testing.T) {
	tool := &FindFreeSlotsTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{"date": "2024-03-18"})
	require.NoError(t, err)
	result := out.(FreeSlotsResult)

	// Lectures run 10:00-11:30 and 14:00-15:30, blocking four hour marks.
	require.Len(t, result.AvailableSlots, 10)
	for _, slot := range result.AvailableSlots {
		start, err := time.Parse(time.RFC3339, slot.Start)
		require.NoError(t, err)
		end, err := time.Parse(time.RFC3339, slot.End)
		require.NoError(t, err)
		for _, e := range tool.store.Events() {
			if !sameDay(e.StartTime, start) {
				continue
			}
			overlaps := start.Before(e.EndTime) && end.After(e.StartTime)
			assert.Falsef(t, overlaps, "slot %s overlaps %s", slot.DisplayTime, e.Title)
		}
	}
	assert.Contains(t, result.Formatted, "Available Slots for Mar 18, 2024")
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func TestFindFreeSlotsMorningWindow(t *testing.T) {
	tool := &FindFreeSlotsTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{
		"date":          "2024-03-18",
		"preferredTime": "morning",
	})
	require.NoError(t, err)
	result := out.(FreeSlotsResult)

	require.Len(t, result.AvailableSlots, 2)
	assert.Equal(t, "8:00 AM - 9:00 AM", result.AvailableSlots[0].DisplayTime)
	assert.Equal(t, "9:00 AM - 10:00 AM", result.AvailableSlots[1].DisplayTime)
}

func TestFindFreeSlotsLongDurationStaysInWindow(t *testing.T) {
	tool := &FindFreeSlotsTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{
		"date":          "2024-03-23",
		"preferredTime": "morning",
		"duration":      float64(240),
	})
	require.NoError(t, err)
	result := out.(FreeSlotsResult)

	// A four-hour block starting 9 AM would run past noon.
	require.Len(t, result.AvailableSlots, 1)
	assert.Equal(t, "8:00 AM - 12:00 PM", result.AvailableSlots[0].DisplayTime)
}

func TestFindFreeSlotsEmptyDay(t *testing.T) {
	tool := &FindFreeSlotsTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{"date": "2024-03-23"})
	require.NoError(t, err)
	result := out.(FreeSlotsResult)
	assert.Len(t, result.AvailableSlots, 14)
}

func TestSuggestSchedule(t *testing.T) {
	tool := &SuggestScheduleTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	result := out.(SuggestionsResult)

	require.Len(t, result.Suggestions, 1)
	s := result.Suggestions[0]
	assert.Equal(t, "study_session", s.Type)
	assert.Equal(t, "Study for: Project Deadline: CS301 Proposal", s.Title)
	assert.Equal(t, "Due in 3 days", s.Reason)
	assert.Equal(t, 60, s.SuggestedDuration)
	assert.Equal(t, "medium", s.Priority)

	assert.Equal(t, []string{"morning", "afternoon"}, result.Preferences.PreferredStudyTimes)
	assert.Equal(t, 6, result.Preferences.MaxDailyStudyHours)
	assert.Contains(t, result.Formatted, "morning/afternoon study times, 15 min between sessions")
}

func TestSuggestScheduleHighPriorityNearDeadline(t *testing.T) {
	store := NewStore(framework.FixedClock(time.Date(2024, 3, 19, 9, 0, 0, 0, time.UTC)))
	tool := &SuggestScheduleTool{store: store}

	out, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	result := out.(SuggestionsResult)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "high", result.Suggestions[0].Priority)
	assert.Equal(t, 120, result.Suggestions[0].SuggestedDuration)
	assert.Contains(t, result.Formatted, "🔴")
}

func TestParseWhen(t *testing.T) {
	for _, raw := range []string{"2024-03-18T09:00:00Z", "2024-03-18T09:00:00", "2024-03-18"} {
		parsed, ok := parseWhen(raw)
		require.Truef(t, ok, "expected %q to parse", raw)
		assert.Equal(t, 2024, parsed.Year())
	}
	_, ok := parseWhen("tomorrow-ish")
	assert.False(t, ok)
}
