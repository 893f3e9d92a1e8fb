package calendar

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pilotedu/studypilot/framework"
)

// Tools returns the calendar manager tool set backed by the given store.
func Tools(store *Store) []framework.Tool {
	return []framework.Tool{
		&GetEventsTool{store: store},
		&CreateEventTool{store: store},
		&FindFreeSlotsTool{store: store},
		&SuggestScheduleTool{store: store},
	}
}

// parseWhen accepts the ISO-ish timestamps callers send: RFC 3339, a bare
// local datetime, or a bare date.
func parseWhen(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// GetEventsTool lists events, sorted by start time.
type GetEventsTool struct {
	store *Store
}

// DateRange is the resolved query window, echoed back for context.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// EventsResult is the get_calendar_events payload. The date range describes
// the requested window; events are filtered by type and course only.
type EventsResult struct {
	Count     int       `json:"count"`
	DateRange DateRange `json:"dateRange"`
	Events    []Event   `json:"events"`
	Formatted string    `json:"formatted"`
}

func (t *GetEventsTool) Name() string { return "get_calendar_events" }
func (t *GetEventsTool) Description() string {
	return "Retrieves calendar events for a date range"
}
func (t *GetEventsTool) Category() string { return "calendar" }
func (t *GetEventsTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"startDate": {Type: "string", Description: `Start date (ISO format or "today", "tomorrow", "this_week")`},
			"endDate":   {Type: "string", Description: "End date (ISO format)"},
			"type": {
				Type: "string",
				Enum: []string{"all", "class", "study", "office_hours", "deadline", "personal"},
				Description: "Filter by event type",
			},
			"courseCode": {Type: "string", Description: "Filter by course code"},
		},
	}
}

func (t *GetEventsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	events := t.store.Events()

	now := t.store.clock()
	start := now
	end := now.Add(7 * 24 * time.Hour)

	switch framework.StringArg(args, "startDate", "") {
	case "today":
		start = startOfDay(now)
		end = start.Add(24 * time.Hour)
	case "tomorrow":
		start = startOfDay(now.Add(24 * time.Hour))
		end = start.Add(24 * time.Hour)
	case "this_week":
		start = now.Add(-time.Duration(now.Weekday()) * 24 * time.Hour)
		end = start.Add(7 * 24 * time.Hour)
	case "":
	default:
		if parsed, ok := parseWhen(framework.StringArg(args, "startDate", "")); ok {
			start = parsed
		}
	}
	if raw := framework.StringArg(args, "endDate", ""); raw != "" {
		if parsed, ok := parseWhen(raw); ok {
			end = parsed
		}
	}

	if kind := framework.StringArg(args, "type", ""); kind != "" && kind != "all" {
		filtered := events[:0]
		for _, e := range events {
			if e.Type == kind {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	if code := framework.StringArg(args, "courseCode", ""); code != "" {
		courseID := strings.ToLower(code)
		filtered := events[:0]
		for _, e := range events {
			if e.CourseID == courseID {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})

	var lines []string
	for _, e := range events {
		location := e.Location
		if location == "" {
			location = "No location"
		}
		lines = append(lines, fmt.Sprintf("%s **%s**\n   %s %s\n   📍 %s",
			eventEmoji(e.Type), e.Title,
			e.StartTime.Format("Jan 2, 2006"), e.StartTime.Format("3:04 PM"),
			location))
	}

	return EventsResult{
		Count: len(events),
		DateRange: DateRange{
			Start: start.UTC().Format(time.RFC3339),
			End:   end.UTC().Format(time.RFC3339),
		},
		Events:    events,
		Formatted: strings.Join(lines, "\n\n"),
	}, nil
}

func eventEmoji(kind string) string {
	switch kind {
	case "class":
		return "📚"
	case "study":
		return "📖"
	case "office_hours":
		return "👨‍🏫"
	case "deadline":
		return "⏰"
	case "personal":
		return "📌"
	default:
		return "📅"
	}
}

// CreateEventTool adds an event to the calendar.
type CreateEventTool struct {
	store *Store
}

// CreateEventResult is the create_event payload.
type CreateEventResult struct {
	Success   bool   `json:"success"`
	Event     Event  `json:"event"`
	Formatted string `json:"formatted"`
}

func (t *CreateEventTool) Name() string { return "create_event" }
func (t *CreateEventTool) Description() string {
	return "Creates a new calendar event or study session"
}
func (t *CreateEventTool) Category() string { return "calendar" }
func (t *CreateEventTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"title": {Type: "string", Description: "Event title"},
			"type": {
				Type: "string",
				Enum: []string{"study", "deadline", "personal", "meeting"},
				Description: "Type of event",
			},
			"startTime":  {Type: "string", Description: "Start time (ISO format)"},
			"duration":   {Type: "number", Description: "Duration in minutes"},
			"location":   {Type: "string", Description: "Event location"},
			"notes":      {Type: "string", Description: "Additional notes"},
			"courseCode": {Type: "string", Description: "Associated course code"},
		},
		Required: []string{"title", "type", "startTime"},
	}
}

func (t *CreateEventTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	start, ok := parseWhen(framework.StringArg(args, "startTime", ""))
	if !ok {
		return nil, fmt.Errorf("invalid startTime: %q", framework.StringArg(args, "startTime", ""))
	}

	duration := framework.IntArg(args, "duration", 60)
	kind := framework.StringArg(args, "type", "")

	event := Event{
		ID:        "evt_" + uuid.NewString(),
		Title:     framework.StringArg(args, "title", ""),
		Type:      kind,
		StartTime: start,
		EndTime:   start.Add(time.Duration(duration) * time.Minute),
		Location:  framework.StringArg(args, "location", ""),
		Notes:     framework.StringArg(args, "notes", ""),
		CourseID:  strings.ToLower(framework.StringArg(args, "courseCode", "")),
		Color:     eventColor(kind),
		CreatedAt: t.store.clock().UTC(),
	}
	t.store.Add(event)

	location := event.Location
	if location == "" {
		location = "No location set"
	}
	formatted := fmt.Sprintf(`✅ **Event Created!**

📅 **%s**
⏰ %s at %s
⏱️ Duration: %d minutes
📍 %s`,
		event.Title, start.Format("Jan 2, 2006"), start.Format("3:04 PM"), duration, location)
	if event.Notes != "" {
		formatted += fmt.Sprintf("\n📝 Notes: %s", event.Notes)
	}

	return CreateEventResult{Success: true, Event: event, Formatted: formatted}, nil
}

func eventColor(kind string) string {
	switch kind {
	case "study":
		return "#06B6D4"
	case "deadline":
		return "#EF4444"
	default:
		return "#8B5CF6"
	}
}

// FindFreeSlotsTool scans a day for conflict-free study slots.
type FindFreeSlotsTool struct {
	store *Store
}

// Slot is a candidate study window.
type Slot struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	DisplayTime string `json:"displayTime"`
}

// FreeSlotsResult is the find_free_slots payload.
type FreeSlotsResult struct {
	Date              string `json:"date"`
	RequestedDuration int    `json:"requestedDuration"`
	AvailableSlots    []Slot `json:"availableSlots"`
	Formatted         string `json:"formatted"`
}

func (t *FindFreeSlotsTool) Name() string { return "find_free_slots" }
func (t *FindFreeSlotsTool) Description() string {
	return "Finds available time slots for scheduling study sessions"
}
func (t *FindFreeSlotsTool) Category() string { return "calendar" }
func (t *FindFreeSlotsTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"date":     {Type: "string", Description: "Date to find slots for"},
			"duration": {Type: "number", Description: "Required duration in minutes"},
			"preferredTime": {
				Type: "string",
				Enum: []string{"morning", "afternoon", "evening", "any"},
				Description: "Preferred time of day",
			},
		},
	}
}

func (t *FindFreeSlotsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	date := t.store.clock()
	if raw := framework.StringArg(args, "date", ""); raw != "" {
		if parsed, ok := parseWhen(raw); ok {
			date = parsed
		}
	}
	duration := framework.IntArg(args, "duration", 60)

	startHour, endHour := 8, 22
	switch framework.StringArg(args, "preferredTime", "") {
	case "morning":
		startHour, endHour = 8, 12
	case "afternoon":
		startHour, endHour = 12, 17
	case "evening":
		startHour, endHour = 17, 22
	}

	dayStart := startOfDay(date)
	dayEnd := dayStart.Add(24 * time.Hour)

	var dayEvents []Event
	for _, e := range t.store.Events() {
		if !e.StartTime.Before(dayStart) && e.StartTime.Before(dayEnd) {
			dayEvents = append(dayEvents, e)
		}
	}

	var slots []Slot
	for hour := startHour; hour < endHour; hour++ {
		slotStart := dayStart.Add(time.Duration(hour) * time.Hour)
		slotEnd := slotStart.Add(time.Duration(duration) * time.Minute)

		conflict := false
		for _, e := range dayEvents {
			if slotStart.Before(e.EndTime) && slotEnd.After(e.StartTime) {
				conflict = true
				break
			}
		}

		if !conflict && slotEnd.Hour() <= endHour {
			slots = append(slots, Slot{
				Start:       slotStart.UTC().Format(time.RFC3339),
				End:         slotEnd.UTC().Format(time.RFC3339),
				DisplayTime: fmt.Sprintf("%s - %s", slotStart.Format("3:04 PM"), slotEnd.Format("3:04 PM")),
			})
		}
	}

	var formatted string
	if len(slots) > 0 {
		lines := make([]string, 0, len(slots))
		for i, s := range slots {
			lines = append(lines, fmt.Sprintf("%d. ⏰ %s", i+1, s.DisplayTime))
		}
		formatted = fmt.Sprintf("📅 **Available Slots for %s** (%d min each)\n\n%s",
			date.Format("Jan 2, 2006"), duration, strings.Join(lines, "\n"))
	} else {
		formatted = fmt.Sprintf("❌ No available %d-minute slots found for %s",
			duration, date.Format("Jan 2, 2006"))
	}

	return FreeSlotsResult{
		Date:              date.Format("Mon Jan 2 2006"),
		RequestedDuration: duration,
		AvailableSlots:    slots,
		Formatted:         formatted,
	}, nil
}

// SuggestScheduleTool proposes study sessions around upcoming deadlines.
type SuggestScheduleTool struct {
	store *Store
}

// Suggestion is one proposed study session.
type Suggestion struct {
	Type              string `json:"type"`
	Title             string `json:"title"`
	Reason            string `json:"reason"`
	SuggestedDuration int    `json:"suggestedDuration"`
	Priority          string `json:"priority"`
}

// SuggestionsResult is the suggest_schedule payload. Preferences echoes the
// constraints the suggestions were shaped around.
type SuggestionsResult struct {
	Suggestions []Suggestion `json:"suggestions"`
	Preferences Preferences  `json:"preferences"`
	Formatted   string       `json:"formatted"`
}

func (t *SuggestScheduleTool) Name() string { return "suggest_schedule" }
func (t *SuggestScheduleTool) Description() string {
	return "Suggests optimal study schedule based on deadlines and preferences"
}
func (t *SuggestScheduleTool) Category() string { return "calendar" }
func (t *SuggestScheduleTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"daysAhead":   {Type: "number", Description: "Number of days to plan ahead"},
			"focusCourse": {Type: "string", Description: "Course to prioritize"},
		},
	}
}

func (t *SuggestScheduleTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	var deadlines []Event
	for _, e := range t.store.Events() {
		if e.Type == "deadline" {
			deadlines = append(deadlines, e)
		}
	}
	sort.SliceStable(deadlines, func(i, j int) bool {
		return deadlines[i].StartTime.Before(deadlines[j].StartTime)
	})
	if len(deadlines) > 3 {
		deadlines = deadlines[:3]
	}

	now := t.store.clock()
	prefs := t.store.Preferences()
	maxSession := prefs.MaxDailyStudyHours * 60
	suggestions := make([]Suggestion, 0, len(deadlines))
	for _, d := range deadlines {
		daysUntil := int(math.Ceil(d.StartTime.Sub(now).Hours() / 24))
		duration, priority := 60, "medium"
		if daysUntil <= 2 {
			duration, priority = 120, "high"
		}
		if maxSession > 0 && duration > maxSession {
			duration = maxSession
		}
		suggestions = append(suggestions, Suggestion{
			Type:              "study_session",
			Title:             "Study for: " + d.Title,
			Reason:            fmt.Sprintf("Due in %d days", daysUntil),
			SuggestedDuration: duration,
			Priority:          priority,
		})
	}

	lines := make([]string, 0, len(suggestions))
	for i, s := range suggestions {
		marker := "🟡"
		if s.Priority == "high" {
			marker = "🔴"
		}
		lines = append(lines, fmt.Sprintf("%d. %s **%s**\n   ⏱️ Suggested: %d minutes\n   📝 Reason: %s",
			i+1, marker, s.Title, s.SuggestedDuration, s.Reason))
	}

	footer := fmt.Sprintf("\n\n💡 Planned around your preferences: %s study times, %d min between sessions.",
		strings.Join(prefs.PreferredStudyTimes, "/"), prefs.BreakBetweenSessions)

	return SuggestionsResult{
		Suggestions: suggestions,
		Preferences: prefs,
		Formatted:   "📋 **Smart Schedule Suggestions**\n\n" + strings.Join(lines, "\n\n") + footer,
	}, nil
}
