package study

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

// Tools returns the study planner tool set backed by the given store.
func Tools(store *Store) []framework.Tool {
	return []framework.Tool{
		&CreatePlanTool{store: store},
		&LogSessionTool{store: store},
		&GetStatsTool{store: store},
		&TopicRecommendationsTool{store: store},
	}
}

// CreatePlanTool builds a day-by-day study schedule up to a deadline.
type CreatePlanTool struct {
	store *Store
}

// PlanSession is one study block within a day.
type PlanSession struct {
	Topic     string `json:"topic"`
	Duration  int    `json:"duration"`
	Technique string `json:"technique"`
}

// DayPlan is the schedule for one day.
type DayPlan struct {
	Day          int           `json:"day"`
	Date         string        `json:"date"`
	Sessions     []PlanSession `json:"sessions"`
	TotalMinutes int           `json:"totalMinutes"`
}

// PlanSummary compares required study hours to the hours available before the
// deadline.
type PlanSummary struct {
	TotalHoursNeeded float64 `json:"totalHoursNeeded"`
	AvailableHours   float64 `json:"availableHours"`
	Feasibility      string  `json:"feasibility"`
}

// PlanResult is the create_study_plan payload.
type PlanResult struct {
	Topic      string      `json:"topic"`
	CourseCode string      `json:"courseCode,omitempty"`
	Deadline   string      `json:"deadline"`
	DaysUntil  int         `json:"daysUntil"`
	Technique  Technique   `json:"technique"`
	Schedule   []DayPlan   `json:"schedule"`
	Summary    PlanSummary `json:"summary"`
	Formatted  string      `json:"formatted"`
}

func (t *CreatePlanTool) Name() string { return "create_study_plan" }
func (t *CreatePlanTool) Description() string {
	return "Creates a personalized study plan for an exam, assignment, or topic"
}
func (t *CreatePlanTool) Category() string { return "study" }
func (t *CreatePlanTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"topic":                {Type: "string", Description: "Topic or assignment to study for"},
			"courseCode":           {Type: "string", Description: "Related course code"},
			"deadline":             {Type: "string", Description: "When the exam/assignment is due"},
			"availableHoursPerDay": {Type: "number", Description: "Hours available for studying per day"},
			"preferredTechnique": {
				Type: "string",
				Enum: []string{"pomodoro", "activeRecall", "spacedRepetition", "feynman", "auto"},
				Description: "Preferred study technique",
			},
		},
		Required: []string{"topic"},
	}
}

func (t *CreatePlanTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	now := t.store.clock()

	deadline := now.Add(7 * 24 * time.Hour)
	if raw := framework.StringArg(args, "deadline", ""); raw != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, raw); err == nil {
				deadline = parsed.UTC()
				break
			}
		}
	}

	hoursPerDay := framework.NumberArg(args, "availableHoursPerDay", 2)
	daysUntil := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	if daysUntil < 1 {
		daysUntil = 1
	}

	courseCode := framework.StringArg(args, "courseCode", "")
	var topics []*Topic
	if courseCode != "" {
		topics = t.store.PendingTopics(courseCode)
	}

	techniqueKey := framework.StringArg(args, "preferredTechnique", "auto")
	if techniqueKey == "auto" {
		switch {
		case daysUntil <= 2:
			techniqueKey = "activeRecall"
		case daysUntil <= 5:
			techniqueKey = "pomodoro"
		default:
			techniqueKey = "spacedRepetition"
		}
	}
	technique := t.store.Technique(techniqueKey)

	var totalHours float64
	for _, topic := range topics {
		totalHours += topic.EstimatedHours
	}
	availableHours := float64(daysUntil) * hoursPerDay

	// Greedy packing: fill each day with up to 60-minute blocks on the front
	// topic, spending its estimate down and charging a 10-minute break after
	// each block.
	var schedule []DayPlan
	remaining := topics
	planDays := daysUntil
	if planDays > 7 {
		planDays = 7
	}
	t.store.mu.Lock()
	for day := 1; day <= planDays; day++ {
		plan := DayPlan{
			Day:  day,
			Date: now.Add(time.Duration(day) * 24 * time.Hour).Format("Jan 2, 2006"),
		}

		dayMinutes := int(hoursPerDay * 60)
		for dayMinutes > 0 && len(remaining) > 0 {
			topic := remaining[0]
			sessionMinutes := dayMinutes
			if sessionMinutes > 60 {
				sessionMinutes = 60
			}

			plan.Sessions = append(plan.Sessions, PlanSession{
				Topic:     topic.Name,
				Duration:  sessionMinutes,
				Technique: technique.Name,
			})
			plan.TotalMinutes += sessionMinutes
			dayMinutes -= sessionMinutes + 10

			topic.EstimatedHours -= float64(sessionMinutes) / 60
			if topic.EstimatedHours <= 0 {
				topic.EstimatedHours = 0
				topic.Completed = true
				remaining = remaining[1:]
			}
		}

		if len(plan.Sessions) > 0 {
			schedule = append(schedule, plan)
		}
	}
	t.store.mu.Unlock()

	feasibility := "tight"
	timeTip := "⚠️ Time is tight - prioritize high-impact topics."
	if availableHours >= totalHours {
		feasibility = "achievable"
		timeTip = "✅ You have enough time! Stay consistent."
	}

	course := strings.ToUpper(courseCode)
	courseLabel := course
	if courseLabel == "" {
		courseLabel = "General"
	}

	var dayLines []string
	for _, d := range schedule {
		sessionLines := make([]string, 0, len(d.Sessions))
		for _, s := range d.Sessions {
			sessionLines = append(sessionLines, fmt.Sprintf("  • %s (%d min)", s.Topic, s.Duration))
		}
		dayLines = append(dayLines, fmt.Sprintf("\n**Day %d** (%s) - %d min total\n%s",
			d.Day, d.Date, d.TotalMinutes, strings.Join(sessionLines, "\n")))
	}

	topicName := framework.StringArg(args, "topic", "")
	formatted := fmt.Sprintf(`📖 **Study Plan: %s**

⏰ Deadline: %s (%d days away)
📚 Course: %s
🧠 Technique: %s

**Daily Schedule:**
%s

💡 **Tips:**
• %s
• Best for: %s
• %s`,
		topicName, deadline.Format("Jan 2, 2006"), daysUntil, courseLabel, technique.Name,
		strings.Join(dayLines, "\n"),
		technique.Description, strings.Join(technique.BestFor, ", "), timeTip)

	return PlanResult{
		Topic:      topicName,
		CourseCode: course,
		Deadline:   deadline.Format("Jan 2, 2006"),
		DaysUntil:  daysUntil,
		Technique:  technique,
		Schedule:   schedule,
		Summary: PlanSummary{
			TotalHoursNeeded: totalHours,
			AvailableHours:   availableHours,
			Feasibility:      feasibility,
		},
		Formatted: formatted,
	}, nil
}

// LogSessionTool records a completed study session.
type LogSessionTool struct {
	store *Store
}

// TodayStats summarizes the current day's logged sessions.
type TodayStats struct {
	Sessions     int `json:"sessions"`
	TotalMinutes int `json:"totalMinutes"`
}

// LogSessionResult is the log_study_session payload.
type LogSessionResult struct {
	Session   Session    `json:"session"`
	Today     TodayStats `json:"todayStats"`
	Formatted string     `json:"formatted"`
}

func (t *LogSessionTool) Name() string { return "log_study_session" }
func (t *LogSessionTool) Description() string {
	return "Records a completed study session"
}
func (t *LogSessionTool) Category() string { return "study" }
func (t *LogSessionTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"courseCode":    {Type: "string", Description: "Course studied"},
			"topic":         {Type: "string", Description: "Topic studied"},
			"duration":      {Type: "number", Description: "Duration in minutes"},
			"effectiveness": {Type: "number", Description: "Self-rated effectiveness (1-5)"},
			"notes":         {Type: "string", Description: "Session notes"},
		},
		Required: []string{"topic", "duration"},
	}
}

func (t *LogSessionTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	session := Session{
		ID:            "ss_" + uuid.NewString(),
		CourseID:      strings.ToLower(framework.StringArg(args, "courseCode", "")),
		Topic:         framework.StringArg(args, "topic", ""),
		Duration:      framework.IntArg(args, "duration", 0),
		Date:          t.store.clock().UTC().Format("2006-01-02"),
		Effectiveness: framework.IntArg(args, "effectiveness", 3),
		Notes:         framework.StringArg(args, "notes", ""),
	}
	t.store.AddSession(session)

	today := TodayStats{}
	for _, s := range t.store.Sessions() {
		if s.Date == session.Date {
			today.Sessions++
			today.TotalMinutes += s.Duration
		}
	}

	stars := session.Effectiveness
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}

	formatted := fmt.Sprintf(`✅ **Study Session Logged!**

📚 Topic: %s
⏱️ Duration: %d minutes
⭐ Effectiveness: %s%s

**Today's Progress:**
📊 Sessions: %d
⏰ Total: %d minutes (%.1f hours)

Keep up the great work! 🎉`,
		session.Topic, session.Duration,
		strings.Repeat("★", stars), strings.Repeat("☆", 5-stars),
		today.Sessions, today.TotalMinutes, float64(today.TotalMinutes)/60)

	return LogSessionResult{Session: session, Today: today, Formatted: formatted}, nil
}

// GetStatsTool aggregates logged sessions over a period.
type GetStatsTool struct {
	store *Store
}

// CourseStats is per-course totals within the stats window.
type CourseStats struct {
	Minutes  int `json:"minutes"`
	Sessions int `json:"sessions"`
}

// Stats is the aggregate over the selected sessions.
type Stats struct {
	TotalSessions    int                    `json:"totalSessions"`
	TotalMinutes     int                    `json:"totalMinutes"`
	TotalHours       string                 `json:"totalHours"`
	AvgEffectiveness string                 `json:"avgEffectiveness"`
	ByCourse         map[string]CourseStats `json:"byCourse"`
}

// StatsResult is the get_study_stats payload.
type StatsResult struct {
	Period    string `json:"period"`
	Stats     Stats  `json:"stats"`
	Formatted string `json:"formatted"`
}

func (t *GetStatsTool) Name() string { return "get_study_stats" }
func (t *GetStatsTool) Description() string {
	return "Retrieves study statistics and progress"
}
func (t *GetStatsTool) Category() string { return "study" }
func (t *GetStatsTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"period": {
				Type: "string",
				Enum: []string{"today", "this_week", "this_month", "all_time"},
				Description: "Time period for statistics",
			},
			"courseCode": {Type: "string", Description: "Filter by course"},
		},
	}
}

func (t *GetStatsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	sessions := t.store.Sessions()
	now := t.store.clock()

	period := framework.StringArg(args, "period", "")
	switch period {
	case "today":
		today := now.UTC().Format("2006-01-02")
		filtered := sessions[:0]
		for _, s := range sessions {
			if s.Date == today {
				filtered = append(filtered, s)
			}
		}
		sessions = filtered
	case "this_week", "this_month":
		window := 7 * 24 * time.Hour
		if period == "this_month" {
			window = 30 * 24 * time.Hour
		}
		cutoff := now.Add(-window)
		filtered := sessions[:0]
		for _, s := range sessions {
			if date, err := time.Parse("2006-01-02", s.Date); err == nil && !date.Before(cutoff) {
				filtered = append(filtered, s)
			}
		}
		sessions = filtered
	}

	if code := framework.StringArg(args, "courseCode", ""); code != "" {
		courseID := strings.ToLower(code)
		filtered := sessions[:0]
		for _, s := range sessions {
			if s.CourseID == courseID {
				filtered = append(filtered, s)
			}
		}
		sessions = filtered
	}

	totalMinutes := 0
	effectivenessSum := 0
	byCourse := make(map[string]CourseStats)
	var courseOrder []string
	for _, s := range sessions {
		totalMinutes += s.Duration
		effectivenessSum += s.Effectiveness
		courseID := s.CourseID
		if courseID == "" {
			courseID = "other"
		}
		if _, seen := byCourse[courseID]; !seen {
			courseOrder = append(courseOrder, courseID)
		}
		entry := byCourse[courseID]
		entry.Minutes += s.Duration
		entry.Sessions++
		byCourse[courseID] = entry
	}

	avgEffectiveness := 0.0
	if len(sessions) > 0 {
		avgEffectiveness = float64(effectivenessSum) / float64(len(sessions))
	}

	if period == "" {
		period = "all_time"
	}

	courseLines := make([]string, 0, len(courseOrder))
	for _, courseID := range courseOrder {
		entry := byCourse[courseID]
		courseLines = append(courseLines, fmt.Sprintf("• %s: %.1fh (%d sessions)",
			strings.ToUpper(courseID), float64(entry.Minutes)/60, entry.Sessions))
	}

	encouragement := "💪 Build your study streak - consistency is key!"
	if len(sessions) >= 5 {
		encouragement = "🔥 Great consistency! Keep up the momentum!"
	}

	formatted := fmt.Sprintf(`📊 **Study Statistics** (%s)

⏱️ Total Study Time: %.1f hours
📚 Sessions: %d
⭐ Avg Effectiveness: %.1f/5

**By Course:**
%s

%s`,
		period, float64(totalMinutes)/60, len(sessions), avgEffectiveness,
		strings.Join(courseLines, "\n"), encouragement)

	return StatsResult{
		Period: period,
		Stats: Stats{
			TotalSessions:    len(sessions),
			TotalMinutes:     totalMinutes,
			TotalHours:       fmt.Sprintf("%.1f", float64(totalMinutes)/60),
			AvgEffectiveness: fmt.Sprintf("%.1f", avgEffectiveness),
			ByCourse:         byCourse,
		},
		Formatted: formatted,
	}, nil
}

// TopicRecommendationsTool ranks incomplete topics by difficulty.
type TopicRecommendationsTool struct {
	store *Store
}

// TopicRecommendation is one ranked topic.
type TopicRecommendation struct {
	CourseCode     string  `json:"courseCode"`
	Topic          string  `json:"topic"`
	Difficulty     string  `json:"difficulty"`
	EstimatedHours float64 `json:"estimatedHours"`
	Priority       string  `json:"priority"`
}

// TopicRecommendationsResult is the get_topic_recommendations payload.
type TopicRecommendationsResult struct {
	Recommendations []TopicRecommendation `json:"recommendations"`
	Formatted       string                `json:"formatted"`
}

func (t *TopicRecommendationsTool) Name() string { return "get_topic_recommendations" }
func (t *TopicRecommendationsTool) Description() string {
	return "Suggests which topics to focus on based on upcoming deadlines and progress"
}
func (t *TopicRecommendationsTool) Category() string { return "study" }
func (t *TopicRecommendationsTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"courseCode": {Type: "string", Description: "Course to get recommendations for"},
			"limit":      {Type: "number", Description: "Number of recommendations"},
		},
	}
}

func (t *TopicRecommendationsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	limit := framework.IntArg(args, "limit", 5)

	courseIDs := t.store.TopicCourseIDs()
	if code := framework.StringArg(args, "courseCode", ""); code != "" {
		courseIDs = []string{strings.ToLower(code)}
	}

	var recs []TopicRecommendation
	for _, courseID := range courseIDs {
		for _, topic := range t.store.Topics(courseID) {
			if topic.Completed {
				continue
			}
			priority := "low"
			switch topic.Difficulty {
			case "hard":
				priority = "high"
			case "medium":
				priority = "medium"
			}
			recs = append(recs, TopicRecommendation{
				CourseCode:     strings.ToUpper(courseID),
				Topic:          topic.Name,
				Difficulty:     topic.Difficulty,
				EstimatedHours: topic.EstimatedHours,
				Priority:       priority,
			})
		}
	}

	priorityRank := map[string]int{"high": 0, "medium": 1, "low": 2}
	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}

	lines := make([]string, 0, len(recs))
	for i, r := range recs {
		marker := "🟢"
		switch r.Priority {
		case "high":
			marker = "🔴"
		case "medium":
			marker = "🟡"
		}
		lines = append(lines, fmt.Sprintf("%d. %s **%s** (%s)\n   Difficulty: %s | Est. Time: %gh",
			i+1, marker, r.Topic, r.CourseCode, r.Difficulty, r.EstimatedHours))
	}

	return TopicRecommendationsResult{
		Recommendations: recs,
		Formatted:       "📋 **Topic Recommendations**\n\n" + strings.Join(lines, "\n\n"),
	}, nil
}
