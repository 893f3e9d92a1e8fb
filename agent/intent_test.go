package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIntent(t *testing.T) {
	cases := []struct {
		message string
		want    Intent
	}{
		{"What's due this week?", IntentDeadlines},
		{"Any upcoming assignments?", IntentDeadlines},
		{"When do I submit the essay?", IntentDeadlines},
		{"How are my grades?", IntentGrades},
		{"What's my GPA?", IntentGrades},
		{"Show my schedule", IntentSchedule},
		{"What's on my calendar?", IntentSchedule},
		{"I need to prepare for the midterm", IntentStudy},
		{"Let's review eigenvalues", IntentStudy},
		{"I'm so stressed right now", IntentWellness},
		{"I feel overwhelmed", IntentWellness},
		{"Tell me about my courses", IntentCourses},
		{"Who is the professor?", IntentCourses},
		{"Thanks!", IntentGeneral},
		{"", IntentGeneral},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, DetectIntent(tc.message), "message=%q", tc.message)
	}
}

func TestDetectIntentPriorityOrder(t *testing.T) {
	// "class" is both a schedule and a courses keyword; schedule is checked
	// first.
	assert.Equal(t, IntentSchedule, DetectIntent("when is my next class"))
	// "due" outranks "study" because deadlines are checked before study.
	assert.Equal(t, IntentDeadlines, DetectIntent("study for what's due"))
	// "study" outranks "help" because study is checked before wellness.
	assert.Equal(t, IntentStudy, DetectIntent("help me study"))
}

func TestDetectIntentCaseInsensitive(t *testing.T) {
	assert.Equal(t, IntentDeadlines, DetectIntent("WHAT IS DUE TOMORROW"))
	assert.Equal(t, IntentGrades, DetectIntent("My GPA please"))
}

func TestActionsFor(t *testing.T) {
	deadlines := actionsFor(IntentDeadlines)
	assert.Equal(t, []Action{
		{Label: "Create Study Plan", Action: "create_study_plan"},
		{Label: "View Calendar", Action: "view_calendar"},
	}, deadlines)

	assert.Equal(t, []Action{{Label: "Take a Break", Action: "take_break"}}, actionsFor(IntentWellness))
	assert.Equal(t, []Action{{Label: "Add Study Session", Action: "add_session"}}, actionsFor(IntentSchedule))
	assert.Equal(t, []Action{
		{Label: "Show Deadlines", Action: "show_deadlines"},
		{Label: "View Schedule", Action: "view_schedule"},
	}, actionsFor(IntentGeneral))
}
