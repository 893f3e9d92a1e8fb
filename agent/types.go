package agent

import "context"

// Message is one turn of a chat transcript.
type Message struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// Action is a suggested follow-up the UI can dispatch.
type Action struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Reply is the structured result of processing one chat turn. Fallback marks
// replies synthesized deterministically, whether no provider is configured or
// a configured provider failed.
type Reply struct {
	Response       string   `json:"response"`
	VisualElements any      `json:"visualElements"`
	Actions        []Action `json:"actions"`
	Intent         string   `json:"intent"`
	ToolsUsed      []string `json:"toolsUsed"`
	Fallback       bool     `json:"fallback"`
	Model          string   `json:"model,omitempty"`
}

// Provider generates free-text replies with an external model. The
// orchestrator treats it as best-effort: any error routes the turn to the
// deterministic synthesis path.
type Provider interface {
	Generate(ctx context.Context, message string, history []Message) (string, error)
	Model() string
}

// StudentContext is the ambient profile the greeting and provider context
// blocks draw from.
type StudentContext struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Semester    string `json:"semester"`
	CourseCount int    `json:"courseCount"`
	StudyStreak int    `json:"studyStreak"`
}

// DefaultStudent is the seeded demo profile.
func DefaultStudent() StudentContext {
	return StudentContext{
		ID:          "stu_001",
		Name:        "Alex",
		Semester:    "Spring 2024",
		CourseCount: 3,
		StudyStreak: 5,
	}
}
