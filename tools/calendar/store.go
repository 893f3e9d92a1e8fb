package calendar

import (
	"sync"
	"time"

	"github.com/pilotedu/studypilot/framework"
)

// Event is a calendar entry. Deadlines are zero-length events whose start and
// end coincide.
type Event struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Type              string    `json:"type"`
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	Location          string    `json:"location,omitempty"`
	Recurring         bool      `json:"recurring"`
	RecurrencePattern string    `json:"recurrencePattern,omitempty"`
	RecurrenceDays    []string  `json:"recurrenceDays,omitempty"`
	AllDay            bool      `json:"allDay,omitempty"`
	CourseID          string    `json:"courseId,omitempty"`
	Color             string    `json:"color"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt,omitempty"`
}

// Preferences captures the student's scheduling constraints.
type Preferences struct {
	PreferredStudyTimes  []string `json:"preferredStudyTimes"`
	AvoidTimes           []string `json:"avoidTimes"`
	MaxDailyStudyHours   int      `json:"maxDailyStudyHours"`
	BreakBetweenSessions int      `json:"breakBetweenSessions"`
}

// Store owns the in-memory calendar. Unlike the read-only LMS dataset it grows
// at runtime as events are created.
type Store struct {
	mu          sync.RWMutex
	clock       framework.Clock
	events      []Event
	preferences Preferences
}

// NewStore seeds the calendar fixture data. A nil clock falls back to time.Now.
func NewStore(clock framework.Clock) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		clock:  clock,
		events: seedEvents(),
		preferences: Preferences{
			PreferredStudyTimes:  []string{"morning", "afternoon"},
			AvoidTimes:           []string{"22:00-06:00"},
			MaxDailyStudyHours:   6,
			BreakBetweenSessions: 15,
		},
	}
}

// Preferences returns the student's scheduling constraints.
func (s *Store) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs := s.preferences
	prefs.PreferredStudyTimes = append([]string(nil), s.preferences.PreferredStudyTimes...)
	prefs.AvoidTimes = append([]string(nil), s.preferences.AvoidTimes...)
	return prefs
}

// Events returns a copy of the event table.
func (s *Store) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Add appends an event to the calendar.
func (s *Store) Add(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func mustTime(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func seedEvents() []Event {
	return []Event{
		{
			ID: "evt_001", Title: "CS301 Lecture", Type: "class",
			StartTime: mustTime("2024-03-18T10:00:00"), EndTime: mustTime("2024-03-18T11:30:00"),
			Location: "Science Building Room 205",
			Recurring: true, RecurrencePattern: "weekly", RecurrenceDays: []string{"monday", "wednesday"},
			CourseID: "cs301", Color: "#6366F1",
		},
		{
			ID: "evt_002", Title: "MATH202 Lecture", Type: "class",
			StartTime: mustTime("2024-03-18T14:00:00"), EndTime: mustTime("2024-03-18T15:30:00"),
			Location: "Math Building Room 101",
			Recurring: true, RecurrencePattern: "weekly", RecurrenceDays: []string{"tuesday", "thursday"},
			CourseID: "math202", Color: "#8B5CF6",
		},
		{
			ID: "evt_003", Title: "Study Session: Algorithms", Type: "study",
			StartTime: mustTime("2024-03-19T16:00:00"), EndTime: mustTime("2024-03-19T18:00:00"),
			Location: "Library Study Room 3",
			CourseID: "cs301", Color: "#06B6D4", Notes: "Focus on graph algorithms",
		},
		{
			ID: "evt_004", Title: "Office Hours: Dr. Smith", Type: "office_hours",
			StartTime: mustTime("2024-03-20T14:00:00"), EndTime: mustTime("2024-03-20T16:00:00"),
			Location: "Science Building 401",
			Recurring: true, RecurrencePattern: "weekly", RecurrenceDays: []string{"monday", "wednesday"},
			CourseID: "cs301", Color: "#10B981",
		},
		{
			ID: "evt_005", Title: "Project Deadline: CS301 Proposal", Type: "deadline",
			StartTime: mustTime("2024-03-20T23:59:00"), EndTime: mustTime("2024-03-20T23:59:00"),
			CourseID: "cs301", Color: "#EF4444",
		},
	}
}
