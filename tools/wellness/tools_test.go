package wellness

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotedu/studypilot/framework"
)

var monday = time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	return NewStore(framework.FixedClock(monday), rand.New(rand.NewSource(1)))
}

func TestLogWellnessDefaults(t *testing.T) {
	store := newTestStore()
	tool := &LogWellnessTool{store: store}

	out, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	result := out.(LogResult)

	assert.Equal(t, "2024-03-18", result.Log.Date)
	assert.Equal(t, 3, result.Log.Energy)
	assert.Equal(t, 3, result.Log.Stress)
	assert.Equal(t, 7.0, result.Log.Sleep)
	assert.Equal(t, "okay", result.Log.Mood)
	assert.False(t, result.Log.Exercise)

	// Defaults only trip the no-exercise nudge.
	require.Len(t, result.Feedback, 1)
	assert.Contains(t, result.Feedback[0], "No exercise today")
	assert.Len(t, store.Logs(), 5)
}

func TestLogWellnessFeedbackRules(t *testing.T) {
	tool := &LogWellnessTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{
		"energy": float64(2),
		"stress": float64(4),
		"sleep":  float64(5),
		"mood":   "tired",
	})
	require.NoError(t, err)
	result := out.(LogResult)

	require.Len(t, result.Feedback, 4)
	assert.Contains(t, result.Formatted, "●●○○○ (2/5)")
	assert.Contains(t, result.Formatted, "●●●●○ (4/5)")
	assert.Contains(t, result.Formatted, "**Suggestions:**")
}

func TestLogWellnessAllClear(t *testing.T) {
	tool := &LogWellnessTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{
		"energy":   float64(4),
		"stress":   float64(2),
		"sleep":    float64(8),
		"exercise": true,
	})
	require.NoError(t, err)
	result := out.(LogResult)
	assert.Empty(t, result.Feedback)
	assert.Contains(t, result.Formatted, "✨ You're doing great! Keep it up!")
	assert.Contains(t, result.Formatted, "Exercise: Yes ✓")
}

func TestGetStatusScore(t *testing.T) {
	tool := &GetStatusTool{store: newTestStore()}

	out, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	result := out.(StatusResult)

	// Four check-ins: energy 3.5, stress 3.0, sleep 6.5, exercise 2 days.
	assert.Equal(t, "5.5", result.Score)
	assert.Equal(t, "fair", result.Status)
	assert.Equal(t, "3.5", result.Averages.Energy)
	assert.Equal(t, "3.0", result.Averages.Stress)
	assert.Equal(t, "6.5", result.Averages.Sleep)
	assert.Equal(t, "2/7 days", result.Averages.ExerciseFrequency)
	assert.Empty(t, result.Recommendations)
	assert.Contains(t, result.Formatted, "**Overall Score: 5.5/10** (fair)")
}

func TestGetStatusRecommendations(t *testing.T) {
	store := newTestStore()
	tool := &GetStatusTool{store: store}

	out, err := tool.Execute(context.Background(), map[string]any{"includeRecommendations": true})
	require.NoError(t, err)
	result := out.(StatusResult)

	// Only the sleep average (6.5h) falls below its threshold.
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "sleep", result.Recommendations[0].Area)
	assert.Contains(t, store.Tips("sleep"), result.Recommendations[0].Tip)
}

func TestGetStatusScoreBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		store := NewStore(framework.FixedClock(monday), rand.New(rand.NewSource(1)))
		store.mu.Lock()
		store.logs = nil
		store.mu.Unlock()
		for day := 0; day < 1+rng.Intn(7); day++ {
			store.AddLog(Log{
				ID:       fmt.Sprintf("wl_%d", day),
				Date:     monday.AddDate(0, 0, -day).Format("2006-01-02"),
				Energy:   1 + rng.Intn(5),
				Stress:   1 + rng.Intn(5),
				Sleep:    float64(rng.Intn(12)),
				Exercise: rng.Intn(2) == 0,
			})
		}

		tool := &GetStatusTool{store: store}
		out, err := tool.Execute(context.Background(), map[string]any{})
		require.NoError(t, err)
		result := out.(StatusResult)

		score, err := strconv.ParseFloat(result.Score, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 10.0)
		assert.Contains(t, []string{"excellent", "good", "fair", "needs attention"}, result.Status)
	}
}

func TestGetStatusNoCheckIns(t *testing.T) {
	store := newTestStore()
	store.mu.Lock()
	store.logs = nil
	store.mu.Unlock()
	tool := &GetStatusTool{store: store}

	out, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	result := out.(StatusResult)
	assert.Equal(t, "0.0", result.Score)
	assert.Equal(t, "needs attention", result.Status)
	assert.Contains(t, result.Formatted, "No check-ins logged yet")
}

func TestTakeBreakCounters(t *testing.T) {
	store := newTestStore()
	tool := &TakeBreakTool{store: store}

	out, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	result := out.(BreakResult)

	assert.Equal(t, "Quick Reset", result.Activity.Name)
	assert.Equal(t, 5, result.Duration)
	assert.Equal(t, 1, result.BreakNumber)
	assert.Contains(t, result.Formatted, "Breaks taken today: 1")

	out, err = tool.Execute(context.Background(), map[string]any{
		"type":     "breathe",
		"duration": float64(10),
	})
	require.NoError(t, err)
	result = out.(BreakResult)
	assert.Equal(t, "Breathing Exercise", result.Activity.Name)
	assert.Equal(t, 2, result.BreakNumber)

	store.mu.RLock()
	tracker := store.breaks
	store.mu.RUnlock()
	assert.Equal(t, 2, tracker.BreaksTaken)
	assert.Equal(t, 15, tracker.TotalBreakMinutes)
	assert.Equal(t, "2024-03-18T09:00:00Z", tracker.LastBreak)
}

func TestGetTipsArea(t *testing.T) {
	store := newTestStore()
	tool := &GetTipsTool{store: store}

	out, err := tool.Execute(context.Background(), map[string]any{"area": "focus"})
	require.NoError(t, err)
	result := out.(TipsResult)

	assert.Equal(t, "focus", result.Area)
	require.Len(t, result.Tips, 3)
	for _, tip := range result.Tips {
		assert.Contains(t, store.Tips("focus"), tip)
	}
	assert.Contains(t, result.Formatted, "💡 **Wellness Tips for Focus**")
}

func TestGetTipsGeneralPoolsAllAreas(t *testing.T) {
	store := newTestStore()
	tool := &GetTipsTool{store: store}

	out, err := tool.Execute(context.Background(), map[string]any{"count": float64(20)})
	require.NoError(t, err)
	result := out.(TipsResult)

	assert.Equal(t, "general", result.Area)
	assert.Len(t, result.Tips, 20)
	assert.ElementsMatch(t, store.AllTips(), result.Tips)
	assert.Contains(t, result.Formatted, "💡 **Wellness Tips**")
}
