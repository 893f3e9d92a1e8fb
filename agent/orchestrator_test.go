package agent

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotedu/studypilot/framework"
	"github.com/pilotedu/studypilot/tools"
)

var monday = time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)

func newTestOrchestrator(t *testing.T, provider Provider) *Orchestrator {
	t.Helper()
	clock := framework.FixedClock(monday)
	stores := tools.NewStores(clock, rand.New(rand.NewSource(1)))
	registry, err := tools.Registry(stores, clock)
	require.NoError(t, err)

	return New(Config{
		Registry: registry,
		Provider: provider,
		Logger:   log.New(io.Discard, "", 0),
	})
}

type stubProvider struct {
	text string
	err  error
}

func (s stubProvider) Generate(context.Context, string, []Message) (string, error) {
	return s.text, s.err
}
func (s stubProvider) Model() string { return "stub-model" }

func TestProcessMessageDeadlines(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	reply := o.ProcessMessage(context.Background(), "What's due this week?", nil)

	assert.Equal(t, "deadlines", reply.Intent)
	assert.Equal(t, []string{"get_assignments"}, reply.ToolsUsed)
	assert.True(t, reply.Fallback)
	assert.Contains(t, reply.Response, "📋 **Upcoming Deadlines**")
	assert.Contains(t, reply.Response, "Project Proposal")
	assert.Contains(t, reply.Response, "Mar 20, 2024")
	// Nothing is inside the two-day window on Monday morning.
	assert.Contains(t, reply.Response, "💡 All deadlines are manageable!")
	assert.Equal(t, actionsFor(IntentDeadlines), reply.Actions)
}

func TestProcessMessageDeadlinesPriorityAlert(t *testing.T) {
	clock := framework.FixedClock(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	stores := tools.NewStores(clock, rand.New(rand.NewSource(1)))
	registry, err := tools.Registry(stores, clock)
	require.NoError(t, err)
	o := New(Config{Registry: registry, Logger: log.New(io.Discard, "", 0)})

	reply := o.ProcessMessage(context.Background(), "What's due soon?", nil)
	assert.Contains(t, reply.Response, "⚠️ **Priority Alert**")
	assert.Contains(t, reply.Response, "**Project Proposal**")
	assert.Contains(t, reply.Response, "worth 30%")
}

func TestProcessMessageGrades(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	reply := o.ProcessMessage(context.Background(), "How are my grades looking?", nil)

	assert.Equal(t, "grades", reply.Intent)
	assert.Equal(t, []string{"get_grade_summary"}, reply.ToolsUsed)
	assert.Contains(t, reply.Response, "📈 **Overall GPA**: 3.37")
	assert.Contains(t, reply.Response, "**CS301**: 90.0%")
	// The weakest course gets the improvement-tips nudge.
	assert.Contains(t, reply.Response, "MATH202 could use some extra attention")
	assert.Contains(t, reply.Response, "(📉 declining)")
}

func TestProcessMessageSchedule(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	reply := o.ProcessMessage(context.Background(), "Show me my schedule", nil)

	assert.Equal(t, "schedule", reply.Intent)
	assert.Equal(t, []string{"get_calendar_events"}, reply.ToolsUsed)
	assert.Contains(t, reply.Response, "You have 5 events this week")
}

func TestProcessMessageStudy(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	reply := o.ProcessMessage(context.Background(), "I need to prepare for the midterm", nil)

	assert.Equal(t, "study", reply.Intent)
	assert.Equal(t, []string{"get_assignments", "get_calendar_events"}, reply.ToolsUsed)
	assert.Contains(t, reply.Response, "📖 **Let's Plan Your Study Session!**")
	assert.Contains(t, reply.Response, "I recommend focusing on **Project Proposal**")
	assert.Contains(t, reply.Response, "**Suggested Study Plan:**")
}

func TestProcessMessageWellness(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	reply := o.ProcessMessage(context.Background(), "I'm feeling really stressed", nil)

	assert.Equal(t, "wellness", reply.Intent)
	assert.Equal(t, []string{"get_wellness_status"}, reply.ToolsUsed)
	assert.Contains(t, reply.Response, "**Balance Score**: 5.5/10 (fair)")
	assert.Contains(t, reply.Response, "🔥 Study Streak: 5 days!")
	assert.Contains(t, reply.Response, "**💡 Recommendations:**")
	assert.Contains(t, reply.Response, "⚠️ I notice your balance is slipping")
	assert.Equal(t, actionsFor(IntentWellness), reply.Actions)
}

func TestProcessMessageCourses(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	reply := o.ProcessMessage(context.Background(), "Tell me about my courses", nil)

	assert.Equal(t, "courses", reply.Intent)
	assert.Equal(t, []string{"get_courses"}, reply.ToolsUsed)
	assert.Contains(t, reply.Response, "📖 **Your Courses**")
	assert.Contains(t, reply.Response, "**CS301** - Algorithms")
	assert.Contains(t, reply.Response, "Dr. Sarah Smith")
}

func TestProcessMessageGreeting(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	reply := o.ProcessMessage(context.Background(), "Hello!", nil)

	assert.Equal(t, "general", reply.Intent)
	assert.Contains(t, reply.Response, "Hey there! 👋")
	assert.Contains(t, reply.Response, "You have 3 upcoming deadlines")
	assert.Contains(t, reply.Response, "3 active courses")
	assert.Contains(t, reply.Response, "5-day study streak!")
}

func TestProcessMessageGeneralHelp(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	reply := o.ProcessMessage(context.Background(), "What can you do?", nil)

	assert.Equal(t, "general", reply.Intent)
	assert.Contains(t, reply.Response, "Here's what I can assist you with")
	assert.Contains(t, reply.Response, "• 📋 **Deadlines**")
}

func TestProcessMessageNoProviderAlwaysFallback(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	// Every deterministic reply carries the fallback marker, whatever the intent.
	for _, message := range []string{"Hello", "What's due?", "How are my grades?", "random question"} {
		reply := o.ProcessMessage(context.Background(), message, nil)
		assert.Truef(t, reply.Fallback, "message %q", message)
		assert.NotEmptyf(t, reply.Response, "message %q", message)
	}
}

func TestProcessMessageProviderReply(t *testing.T) {
	o := newTestOrchestrator(t, stubProvider{text: "Here is a thoughtful answer."})

	reply := o.ProcessMessage(context.Background(), "What's due?", nil)

	assert.Equal(t, "Here is a thoughtful answer.", reply.Response)
	assert.Equal(t, "stub-model", reply.Model)
	assert.False(t, reply.Fallback)
	assert.Equal(t, "deadlines", reply.Intent)
	assert.Equal(t, []string{"get_assignments"}, reply.ToolsUsed)
}

func TestProcessMessageProviderFailureFallsBack(t *testing.T) {
	o := newTestOrchestrator(t, stubProvider{err: errors.New("rate limited")})

	reply := o.ProcessMessage(context.Background(), "What's due this week?", nil)

	assert.True(t, reply.Fallback)
	assert.Empty(t, reply.Model)
	assert.Contains(t, reply.Response, "📋 **Upcoming Deadlines**")
}

func TestProcessMessageRecoversFromPanic(t *testing.T) {
	// A nil registry makes every tool call panic; the turn must still produce
	// a reply.
	o := New(Config{Logger: log.New(io.Discard, "", 0)})

	reply := o.ProcessMessage(context.Background(), "What's due?", nil)

	assert.True(t, reply.Fallback)
	assert.Equal(t, "general", reply.Intent)
	assert.Contains(t, reply.Response, "Sorry, something went wrong")
}

func TestNewDefaultsStudent(t *testing.T) {
	o := New(Config{})
	assert.Equal(t, DefaultStudent(), o.Student())
}
