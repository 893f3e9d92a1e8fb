package agent

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/pilotedu/studypilot/framework"
	"github.com/pilotedu/studypilot/tools/calendar"
	"github.com/pilotedu/studypilot/tools/grades"
	"github.com/pilotedu/studypilot/tools/lms"
	"github.com/pilotedu/studypilot/tools/wellness"
)

// Orchestrator turns one chat turn into a classified intent, a fixed set of
// tool calls, and a synthesized reply. It is stateless per call: the
// transcript, if any, is the caller's concern.
type Orchestrator struct {
	registry *framework.Registry
	provider Provider
	student  StudentContext
	logger   *log.Logger
}

// Config wires an Orchestrator. Provider is optional; Logger defaults to the
// standard logger; a zero Student falls back to the demo profile.
type Config struct {
	Registry *framework.Registry
	Provider Provider
	Student  StudentContext
	Logger   *log.Logger
}

// New builds an Orchestrator from the config.
func New(cfg Config) *Orchestrator {
	student := cfg.Student
	if student.ID == "" {
		student = DefaultStudent()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		registry: cfg.Registry,
		provider: cfg.Provider,
		student:  student,
		logger:   logger,
	}
}

// Student returns the profile the orchestrator answers for.
func (o *Orchestrator) Student() StudentContext { return o.student }

// toolCall pairs a registry tool name with the parameters this intent sends.
type toolCall struct {
	name   string
	params map[string]any
}

// toolCallsFor is the fixed intent to tool-call table. The general intent
// still pulls a few deadlines so the greeting can cite them.
func toolCallsFor(intent Intent) []toolCall {
	switch intent {
	case IntentDeadlines:
		return []toolCall{{"get_assignments", map[string]any{"limit": 5}}}
	case IntentGrades:
		return []toolCall{{"get_grade_summary", map[string]any{"includeTrends": true}}}
	case IntentSchedule:
		return []toolCall{{"get_calendar_events", map[string]any{"startDate": "this_week"}}}
	case IntentStudy:
		return []toolCall{
			{"get_assignments", map[string]any{"limit": 3}},
			{"get_calendar_events", map[string]any{"startDate": "this_week"}},
		}
	case IntentWellness:
		return []toolCall{{"get_wellness_status", map[string]any{"includeRecommendations": true}}}
	case IntentCourses:
		return []toolCall{{"get_courses", map[string]any{}}}
	default:
		return []toolCall{{"get_assignments", map[string]any{"limit": 3}}}
	}
}

// ProcessMessage handles one chat turn. It never returns an error: tool
// failures degrade to partial replies and panics collapse into an apology.
func (o *Orchestrator) ProcessMessage(ctx context.Context, message string, history []Message) (reply Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Printf("agent: panic processing message: %v", rec)
			reply = Reply{
				Response: "Sorry, something went wrong while processing your message. Please try again.",
				Intent:   string(IntentGeneral),
				Fallback: true,
			}
		}
	}()

	intent := DetectIntent(message)
	calls := toolCallsFor(intent)

	executions := make(map[string]framework.Execution, len(calls))
	toolsUsed := make([]string, 0, len(calls))
	for _, call := range calls {
		exec := o.registry.Execute(ctx, call.name, call.params)
		if !exec.Success {
			o.logger.Printf("agent: tool %s failed: %s", call.name, exec.Error)
		}
		executions[call.name] = exec
		toolsUsed = append(toolsUsed, call.name)
	}

	if o.provider != nil {
		text, err := o.provider.Generate(ctx, message, history)
		if err == nil {
			return Reply{
				Response:  text,
				Actions:   actionsFor(intent),
				Intent:    string(intent),
				ToolsUsed: toolsUsed,
				Model:     o.provider.Model(),
			}
		}
		o.logger.Printf("agent: provider failed, using deterministic reply: %v", err)
	}

	return Reply{
		Response:  o.synthesize(intent, message, executions),
		Actions:   actionsFor(intent),
		Intent:    string(intent),
		ToolsUsed: toolsUsed,
		Fallback:  true,
	}
}

// synthesize builds the deterministic reply text for an intent from the tool
// executions. Missing or failed results fall through to the empty-data
// branches so a broken tool never breaks the turn.
func (o *Orchestrator) synthesize(intent Intent, message string, executions map[string]framework.Execution) string {
	switch intent {
	case IntentDeadlines:
		return o.deadlinesReply(assignmentsFrom(executions))
	case IntentGrades:
		return o.gradesReply(gradeSummaryFrom(executions))
	case IntentSchedule:
		return o.scheduleReply(eventsFrom(executions))
	case IntentStudy:
		return o.studyReply(assignmentsFrom(executions))
	case IntentWellness:
		return o.wellnessReply(wellnessFrom(executions))
	case IntentCourses:
		return o.coursesReply(coursesFrom(executions))
	default:
		return o.generalReply(message, assignmentsFrom(executions))
	}
}

func assignmentsFrom(executions map[string]framework.Execution) []lms.AssignmentView {
	exec, ok := executions["get_assignments"]
	if !ok || !exec.Success {
		return nil
	}
	result, ok := exec.Result.(lms.AssignmentsResult)
	if !ok {
		return nil
	}
	return result.Assignments
}

func gradeSummaryFrom(executions map[string]framework.Execution) *grades.SummaryResult {
	exec, ok := executions["get_grade_summary"]
	if !ok || !exec.Success {
		return nil
	}
	result, ok := exec.Result.(grades.SummaryResult)
	if !ok {
		return nil
	}
	return &result
}

func eventsFrom(executions map[string]framework.Execution) int {
	exec, ok := executions["get_calendar_events"]
	if !ok || !exec.Success {
		return 0
	}
	result, ok := exec.Result.(calendar.EventsResult)
	if !ok {
		return 0
	}
	return result.Count
}

func wellnessFrom(executions map[string]framework.Execution) *wellness.StatusResult {
	exec, ok := executions["get_wellness_status"]
	if !ok || !exec.Success {
		return nil
	}
	result, ok := exec.Result.(wellness.StatusResult)
	if !ok {
		return nil
	}
	return &result
}

func coursesFrom(executions map[string]framework.Execution) []lms.CourseSummary {
	exec, ok := executions["get_courses"]
	if !ok || !exec.Success {
		return nil
	}
	result, ok := exec.Result.(lms.CoursesResult)
	if !ok {
		return nil
	}
	summaries, ok := result.Courses.([]lms.CourseSummary)
	if !ok {
		return nil
	}
	return summaries
}

func (o *Orchestrator) deadlinesReply(assignments []lms.AssignmentView) string {
	if len(assignments) == 0 {
		return "Great news! 🎉 You don't have any upcoming deadlines. Would you like to plan ahead for future assignments?"
	}

	lines := make([]string, 0, len(assignments))
	var high []lms.AssignmentView
	for _, a := range assignments {
		marker := "🟢"
		switch a.Urgency {
		case "high":
			marker = "🔴"
			high = append(high, a)
		case "medium":
			marker = "🟡"
		}
		lines = append(lines, fmt.Sprintf("%s **%s** (%s) - Due: %s - Weight: %.0f%%",
			marker, a.Title, a.CourseCode, a.DueDate.Format("Jan 2, 2006"), a.Weight*100))
	}

	response := "📋 **Upcoming Deadlines**\n\n" + strings.Join(lines, "\n")
	if len(high) > 0 {
		return response + fmt.Sprintf("\n\n⚠️ **Priority Alert**: You have %d high-priority deadline(s). I recommend starting with the **%s** since it's due soon and worth %.0f%% of your grade.",
			len(high), high[0].Title, high[0].Weight*100)
	}
	return response + "\n\n💡 All deadlines are manageable! Would you like me to create a study plan?"
}

func (o *Orchestrator) gradesReply(summary *grades.SummaryResult) string {
	if summary == nil || len(summary.Courses) == 0 {
		return "I couldn't find your grade information. Would you like to connect your LMS account?"
	}

	lines := make([]string, 0, len(summary.Courses))
	weakest := summary.Courses[0]
	weakestAvg, _ := strconv.ParseFloat(weakest.CurrentAverage, 64)
	for _, c := range summary.Courses {
		lines = append(lines, fmt.Sprintf("📚 **%s**: %s%% - Current Grade: %s %s",
			c.CourseCode, c.CurrentAverage, c.LetterGrade, trendNote(c.Trend)))
		if avg, err := strconv.ParseFloat(c.CurrentAverage, 64); err == nil && avg < weakestAvg {
			weakest = c
			weakestAvg = avg
		}
	}

	return fmt.Sprintf("📊 **Grade Summary**\n\n%s\n\n📈 **Overall GPA**: %s\n\n💡 You're doing well! %s could use some extra attention - would you like improvement tips?",
		strings.Join(lines, "\n"), summary.OverallGPA, weakest.CourseCode)
}

func trendNote(trend string) string {
	switch trend {
	case "improving":
		return "(📈 improving)"
	case "declining":
		return "(📉 declining)"
	default:
		return "(➡️ stable)"
	}
}

func (o *Orchestrator) scheduleReply(eventCount int) string {
	if eventCount == 0 {
		return "Your schedule looks clear! Would you like to add some study sessions?"
	}
	return fmt.Sprintf("📅 **This Week's Schedule**\n\nYou have %d events this week - lectures, office hours, and study sessions.\n\n💡 Would you like me to find the best times for study sessions around your classes?", eventCount)
}

func (o *Orchestrator) studyReply(assignments []lms.AssignmentView) string {
	var b strings.Builder
	b.WriteString("📖 **Let's Plan Your Study Session!**\n\n")
	if len(assignments) > 0 {
		next := assignments[0]
		fmt.Fprintf(&b, "Based on your upcoming deadlines, I recommend focusing on **%s** (due %s).\n\n",
			next.Title, next.DueDate.Format("Jan 2, 2006"))
	}
	b.WriteString("**Suggested Study Plan:**\n")
	b.WriteString("1. 📝 Review core concepts (30 min)\n")
	b.WriteString("2. 💻 Practice problems (45 min)\n")
	b.WriteString("3. ☕ Short break (10 min)\n")
	b.WriteString("4. 📚 Deep work on challenging topics (45 min)\n\n")
	b.WriteString("Ready to start? I can schedule this session for you!")
	return b.String()
}

func (o *Orchestrator) wellnessReply(status *wellness.StatusResult) string {
	if status == nil {
		return "I couldn't read your wellness data right now. Try logging a check-in first!"
	}

	var b strings.Builder
	b.WriteString("🧘 **Wellness Check**\n\n")
	fmt.Fprintf(&b, "**Balance Score**: %s/10 (%s)\n", status.Score, status.Status)
	fmt.Fprintf(&b, "• ⚡ Energy: %s/5\n", status.Averages.Energy)
	fmt.Fprintf(&b, "• 😰 Stress: %s/5\n", status.Averages.Stress)
	fmt.Fprintf(&b, "• 😴 Sleep: %s hours\n", status.Averages.Sleep)
	fmt.Fprintf(&b, "• 🏃 Exercise: %s\n", status.Averages.ExerciseFrequency)
	fmt.Fprintf(&b, "• 🔥 Study Streak: %d days!\n\n", o.student.StudyStreak)

	if len(status.Recommendations) > 0 {
		b.WriteString("**💡 Recommendations:**\n")
		for i, rec := range status.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec.Tip)
		}
	}

	if status.Status == "fair" || status.Status == "needs attention" {
		b.WriteString("\n⚠️ I notice your balance is slipping. Remember to take breaks and prioritize self-care!")
	} else {
		b.WriteString("\n✨ You're maintaining a good balance! Keep up the great work!")
	}
	return b.String()
}

func (o *Orchestrator) coursesReply(courses []lms.CourseSummary) string {
	if len(courses) == 0 {
		return "I couldn't find any enrolled courses. Would you like to connect your LMS account?"
	}

	lines := make([]string, 0, len(courses))
	for _, c := range courses {
		lines = append(lines, fmt.Sprintf("📚 **%s** - %s\n   👨‍🏫 %s | Progress: %d%% | Grade: %s",
			c.Code, c.Name, c.Professor, c.Progress, c.Grade))
	}

	return "📖 **Your Courses**\n\n" + strings.Join(lines, "\n\n") +
		"\n\n💡 Would you like to see details for a specific course or check your assignments?"
}

var greetings = []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}

func (o *Orchestrator) generalReply(message string, assignments []lms.AssignmentView) string {
	lower := strings.ToLower(message)
	for _, g := range greetings {
		if strings.Contains(lower, g) {
			return fmt.Sprintf("Hey there! 👋 I'm here to help with your academics. Here's a quick overview:\n\n📌 You have %d upcoming deadlines\n📚 %d active courses\n🔥 %d-day study streak!\n\nWhat would you like to work on today?",
				len(assignments), o.student.CourseCount, o.student.StudyStreak)
		}
	}

	return "I'm here to help! 📝 Here's what I can assist you with:\n\n" +
		"• 📋 **Deadlines** - Track and manage assignments\n" +
		"• 📊 **Grades** - View your academic progress\n" +
		"• 📅 **Schedule** - Plan your study sessions\n" +
		"• 📖 **Study Help** - Get personalized study plans\n" +
		"• 🧘 **Wellness** - Check your work-life balance\n\n" +
		"Just ask me anything about your academics!"
}
