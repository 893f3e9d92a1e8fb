package agent

import "strings"

// Intent is the coarse category a user message falls into.
type Intent string

const (
	IntentDeadlines Intent = "deadlines"
	IntentGrades    Intent = "grades"
	IntentSchedule  Intent = "schedule"
	IntentStudy     Intent = "study"
	IntentWellness  Intent = "wellness"
	IntentCourses   Intent = "courses"
	IntentGeneral   Intent = "general"
)

// intentPatterns is checked in order; the first category with a keyword hit
// wins. The order matters: "class" appears under both schedule and courses,
// and fallback behavior depends on schedule being checked first.
var intentPatterns = []struct {
	Intent   Intent
	Keywords []string
}{
	{IntentDeadlines, []string{"due", "deadline", "assignment", "homework", "submit", "upcoming"}},
	{IntentGrades, []string{"grade", "score", "performance", "gpa", "marks", "progress"}},
	{IntentSchedule, []string{"schedule", "calendar", "class", "lecture", "when", "time"}},
	{IntentStudy, []string{"study", "learn", "review", "prepare", "exam", "test", "quiz"}},
	{IntentWellness, []string{"tired", "stressed", "break", "rest", "overwhelmed", "help"}},
	{IntentCourses, []string{"course", "class", "subject", "professor", "syllabus"}},
}

// DetectIntent classifies a message by keyword substring match. It always
// returns one of the seven intents; unmatched messages are general.
func DetectIntent(message string) Intent {
	lower := strings.ToLower(message)
	for _, entry := range intentPatterns {
		for _, keyword := range entry.Keywords {
			if strings.Contains(lower, keyword) {
				return entry.Intent
			}
		}
	}
	return IntentGeneral
}
