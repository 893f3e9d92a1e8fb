package wellness

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pilotedu/studypilot/framework"
)

// Tools returns the wellness tracker tool set backed by the given store.
func Tools(store *Store) []framework.Tool {
	return []framework.Tool{
		&LogWellnessTool{store: store},
		&GetStatusTool{store: store},
		&TakeBreakTool{store: store},
		&GetTipsTool{store: store},
	}
}

// LogWellnessTool records a daily check-in.
type LogWellnessTool struct {
	store *Store
}

// LogResult is the log_wellness payload.
type LogResult struct {
	Log       Log      `json:"log"`
	Feedback  []string `json:"feedback"`
	Formatted string   `json:"formatted"`
}

func (t *LogWellnessTool) Name() string { return "log_wellness" }
func (t *LogWellnessTool) Description() string {
	return "Records a daily wellness check-in"
}
func (t *LogWellnessTool) Category() string { return "wellness" }
func (t *LogWellnessTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"energy": {Type: "number", Description: "Energy level (1-5)"},
			"stress": {Type: "number", Description: "Stress level (1-5)"},
			"sleep":  {Type: "number", Description: "Hours of sleep last night"},
			"mood": {
				Type: "string",
				Enum: []string{"great", "good", "okay", "stressed", "tired", "anxious"},
				Description: "Current mood",
			},
			"exercise": {Type: "boolean", Description: "Did exercise today?"},
			"notes":    {Type: "string", Description: "Optional notes"},
		},
	}
}

func (t *LogWellnessTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	log := Log{
		ID:       "wl_" + uuid.NewString(),
		Date:     t.store.clock().UTC().Format("2006-01-02"),
		Energy:   framework.IntArg(args, "energy", 3),
		Stress:   framework.IntArg(args, "stress", 3),
		Sleep:    framework.NumberArg(args, "sleep", 7),
		Mood:     framework.StringArg(args, "mood", "okay"),
		Exercise: framework.BoolArg(args, "exercise", false),
		Notes:    framework.StringArg(args, "notes", ""),
	}
	t.store.AddLog(log)

	var feedback []string
	if log.Sleep < 6 {
		feedback = append(feedback, "😴 Low sleep detected - aim for 7+ hours tonight")
	}
	if log.Stress >= 4 {
		feedback = append(feedback, "😰 High stress - consider taking a break")
	}
	if log.Energy <= 2 {
		feedback = append(feedback, "⚡ Low energy - try a short walk or healthy snack")
	}
	if !log.Exercise {
		feedback = append(feedback, "🏃 No exercise today - even 10 minutes helps!")
	}

	suggestions := "✨ You're doing great! Keep it up!"
	if len(feedback) > 0 {
		lines := make([]string, 0, len(feedback))
		for _, f := range feedback {
			lines = append(lines, "• "+f)
		}
		suggestions = "**Suggestions:**\n" + strings.Join(lines, "\n")
	}

	exerciseLabel := "Not yet"
	if log.Exercise {
		exerciseLabel = "Yes ✓"
	}

	formatted := fmt.Sprintf(`✅ **Wellness Check-In Logged!**

📊 Today's Status:
⚡ Energy: %s%s (%d/5)
😰 Stress: %s%s (%d/5)
😴 Sleep: %g hours
😊 Mood: %s
🏃 Exercise: %s

%s`,
		dots(log.Energy), hollowDots(5-log.Energy), log.Energy,
		dots(log.Stress), hollowDots(5-log.Stress), log.Stress,
		log.Sleep, log.Mood, exerciseLabel, suggestions)

	return LogResult{Log: log, Feedback: feedback, Formatted: formatted}, nil
}

func dots(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("●", n)
}

func hollowDots(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat("○", n)
}

// GetStatusTool scores overall wellness from recent check-ins.
type GetStatusTool struct {
	store *Store
}

// Averages are the rolling means behind the wellness score.
type Averages struct {
	Energy            string `json:"energy"`
	Stress            string `json:"stress"`
	Sleep             string `json:"sleep"`
	ExerciseFrequency string `json:"exerciseFrequency"`
}

// Recommendation pairs a weak area with a concrete tip.
type Recommendation struct {
	Area string `json:"area"`
	Tip  string `json:"tip"`
}

// StatusResult is the get_wellness_status payload.
type StatusResult struct {
	Score           string           `json:"score"`
	Status          string           `json:"status"`
	Averages        Averages         `json:"averages"`
	Recommendations []Recommendation `json:"recommendations"`
	Formatted       string           `json:"formatted"`
}

func (t *GetStatusTool) Name() string { return "get_wellness_status" }
func (t *GetStatusTool) Description() string {
	return "Retrieves current wellness status and trends"
}
func (t *GetStatusTool) Category() string { return "wellness" }
func (t *GetStatusTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"includeRecommendations": {Type: "boolean", Description: "Include wellness recommendations"},
			"period": {
				Type: "string",
				Enum: []string{"today", "this_week", "this_month"},
				Description: "Time period for trends",
			},
		},
	}
}

func (t *GetStatusTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	logs := t.store.Logs()
	if len(logs) > 7 {
		logs = logs[len(logs)-7:]
	}
	if len(logs) == 0 {
		return StatusResult{
			Score:     "0.0",
			Status:    "needs attention",
			Formatted: "🧘 **Wellness Status**\n\nNo check-ins logged yet. Try a daily wellness check-in to start tracking.",
		}, nil
	}

	var energySum, stressSum, sleepSum float64
	exerciseDays := 0
	for _, l := range logs {
		energySum += float64(l.Energy)
		stressSum += float64(l.Stress)
		sleepSum += l.Sleep
		if l.Exercise {
			exerciseDays++
		}
	}
	n := float64(len(logs))
	avgEnergy := energySum / n
	avgStress := stressSum / n
	avgSleep := sleepSum / n

	cappedSleep := avgSleep
	if cappedSleep > 8 {
		cappedSleep = 8
	}
	score := (avgEnergy/5*25 +
		(5-avgStress)/5*25 +
		cappedSleep/8*25 +
		float64(exerciseDays)/7*25) / 10

	status := "needs attention"
	switch {
	case score >= 8:
		status = "excellent"
	case score >= 6:
		status = "good"
	case score >= 4:
		status = "fair"
	}

	var recommendations []Recommendation
	if framework.BoolArg(args, "includeRecommendations", false) {
		if avgStress >= 3.5 {
			recommendations = append(recommendations, Recommendation{Area: "stress", Tip: t.store.RandomTip("stress")})
		}
		if avgEnergy <= 3 {
			recommendations = append(recommendations, Recommendation{Area: "energy", Tip: t.store.RandomTip("energy")})
		}
		if avgSleep < 7 {
			recommendations = append(recommendations, Recommendation{Area: "sleep", Tip: t.store.RandomTip("sleep")})
		}
	}

	recBlock := "✨ Great job maintaining your wellness!"
	if len(recommendations) > 0 {
		lines := make([]string, 0, len(recommendations))
		for _, r := range recommendations {
			lines = append(lines, fmt.Sprintf("• **%s:** %s", r.Area, r.Tip))
		}
		recBlock = "💡 **Recommendations:**\n" + strings.Join(lines, "\n")
	}

	formatted := fmt.Sprintf(`🧘 **Wellness Status**

**Overall Score: %.1f/10** (%s)

📊 Weekly Averages:
⚡ Energy: %.1f/5
😰 Stress: %.1f/5
😴 Sleep: %.1f hours
🏃 Exercise: %d/7 days

%s`,
		score, status, avgEnergy, avgStress, avgSleep, exerciseDays, recBlock)

	return StatusResult{
		Score:  fmt.Sprintf("%.1f", score),
		Status: status,
		Averages: Averages{
			Energy:            fmt.Sprintf("%.1f", avgEnergy),
			Stress:            fmt.Sprintf("%.1f", avgStress),
			Sleep:             fmt.Sprintf("%.1f", avgSleep),
			ExerciseFrequency: fmt.Sprintf("%d/7 days", exerciseDays),
		},
		Recommendations: recommendations,
		Formatted:       formatted,
	}, nil
}

// TakeBreakTool walks the student through a guided break.
type TakeBreakTool struct {
	store *Store
}

// Activity is a guided break routine.
type Activity struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

// BreakResult is the take_break payload.
type BreakResult struct {
	Activity    Activity `json:"activity"`
	Duration    int      `json:"duration"`
	BreakNumber int      `json:"breakNumber"`
	Formatted   string   `json:"formatted"`
}

var breakActivities = map[string]Activity{
	"stretch": {
		Name: "Stretching Break",
		Steps: []string{
			"🙆 Reach arms overhead and stretch tall (30s)",
			"🔄 Roll shoulders forward and backward (30s)",
			"↔️ Gentle neck rolls side to side (30s)",
			"🙏 Clasp hands behind back and open chest (30s)",
			"🦵 Stand and stretch legs (30s)",
		},
	},
	"breathe": {
		Name: "Breathing Exercise",
		Steps: []string{
			"🌬️ Find a comfortable position",
			"👃 Breathe in slowly through nose (4 counts)",
			"⏸️ Hold your breath (7 counts)",
			"😮 Exhale slowly through mouth (8 counts)",
			"🔄 Repeat 4 times",
		},
	},
	"walk": {
		Name: "Walking Break",
		Steps: []string{
			"🚶 Stand up and walk away from your desk",
			"🌞 If possible, step outside for fresh air",
			"👀 Look at distant objects to rest eyes",
			"🧠 Let your mind wander freely",
			"🔙 Return refreshed after 5-10 minutes",
		},
	},
	"eyes": {
		Name: "Eye Rest Break",
		Steps: []string{
			"👀 Look away from screen",
			"🌳 Focus on something 20+ feet away for 20 seconds",
			"😌 Close eyes and rest for 20 seconds",
			"🔄 Blink rapidly 10 times to refresh",
			"↩️ Return to work with refreshed eyes",
		},
	},
	"hydrate": {
		Name: "Hydration Break",
		Steps: []string{
			"🥤 Get up and fill a glass of water",
			"💧 Drink slowly and mindfully",
			"🚶 Take a quick walk while drinking",
			"🍎 Consider a healthy snack too",
			"↩️ Return feeling refreshed",
		},
	},
	"quick": {
		Name: "Quick Reset",
		Steps: []string{
			"😤 Take 3 deep breaths",
			"🙆 Quick stretch at your desk",
			"💧 Sip some water",
			"👀 Look at something far away",
			"✅ Ready to refocus!",
		},
	},
}

func (t *TakeBreakTool) Name() string { return "take_break" }
func (t *TakeBreakTool) Description() string {
	return "Initiates a wellness break with guided activity"
}
func (t *TakeBreakTool) Category() string { return "wellness" }
func (t *TakeBreakTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"duration": {Type: "number", Description: "Break duration in minutes"},
			"type": {
				Type: "string",
				Enum: []string{"stretch", "breathe", "walk", "eyes", "hydrate", "quick"},
				Description: "Type of break activity",
			},
		},
	}
}

func (t *TakeBreakTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	duration := framework.IntArg(args, "duration", 5)
	kind := framework.StringArg(args, "type", "quick")

	activity, ok := breakActivities[kind]
	if !ok {
		activity = breakActivities["quick"]
	}

	tracker := t.store.RecordBreak(duration)

	steps := make([]string, 0, len(activity.Steps))
	for i, step := range activity.Steps {
		steps = append(steps, fmt.Sprintf("%d. %s", i+1, step))
	}

	formatted := fmt.Sprintf(`☕ **Time for a %s!** (%d min)

%s

---
🎵 Put on some relaxing music if you'd like
⏰ I'll remind you when it's time to get back to work
📊 Breaks taken today: %d

Take care of yourself! You've got this! 💪`,
		activity.Name, duration, strings.Join(steps, "\n"), tracker.BreaksTaken)

	return BreakResult{
		Activity:    activity,
		Duration:    duration,
		BreakNumber: tracker.BreaksTaken,
		Formatted:   formatted,
	}, nil
}

// GetTipsTool returns a random selection of tips for one area.
type GetTipsTool struct {
	store *Store
}

// TipsResult is the get_wellness_tips payload.
type TipsResult struct {
	Area      string   `json:"area"`
	Tips      []string `json:"tips"`
	Formatted string   `json:"formatted"`
}

func (t *GetTipsTool) Name() string { return "get_wellness_tips" }
func (t *GetTipsTool) Description() string {
	return "Provides wellness tips for a specific area"
}
func (t *GetTipsTool) Category() string { return "wellness" }
func (t *GetTipsTool) Schema() framework.Schema {
	return framework.Schema{
		Properties: map[string]framework.Property{
			"area": {
				Type: "string",
				Enum: []string{"stress", "energy", "focus", "sleep", "general"},
				Description: "Area to get tips for",
			},
			"count": {Type: "number", Description: "Number of tips to return"},
		},
	}
}

func (t *GetTipsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	area := framework.StringArg(args, "area", "general")
	count := framework.IntArg(args, "count", 3)

	var tips []string
	if area == "general" {
		tips = t.store.AllTips()
	} else {
		tips = t.store.Tips(area)
	}

	t.store.Shuffle(tips)
	if len(tips) > count {
		tips = tips[:count]
	}

	heading := "💡 **Wellness Tips**"
	if area != "general" {
		heading = fmt.Sprintf("💡 **Wellness Tips for %s**", strings.ToUpper(area[:1])+area[1:])
	}

	lines := make([]string, 0, len(tips))
	for i, tip := range tips {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, tip))
	}

	formatted := fmt.Sprintf(`%s

%s

---
Remember: Small consistent habits lead to big improvements! 🌟`,
		heading, strings.Join(lines, "\n\n"))

	return TipsResult{Area: area, Tips: tips, Formatted: formatted}, nil
}
