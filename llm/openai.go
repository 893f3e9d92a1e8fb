// Package llm adapts an external chat-completion model as the agent's
// optional reply generator. The adapter is strictly best-effort: any error is
// returned to the orchestrator, which falls back to deterministic synthesis.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pilotedu/studypilot/agent"
	"github.com/pilotedu/studypilot/framework"
	"github.com/pilotedu/studypilot/tools"
)

const systemPrompt = `You are StudyPilot, an academic companion for students. You help with deadlines, grades, schedules, study planning, and wellness.

Guidelines:
- Be encouraging, precise, and structured. Use Markdown.
- Never invent deadlines, grades, or events: answer from the provided context.
- If the student seems stressed, prioritize wellness suggestions over academic pressure.
- Use **bold** for dates, course codes, and critical alerts.`

const defaultModel = "gpt-4o-mini"

// contextAck is the canned assistant turn that primes the conversation after
// the context block.
const contextAck = "I have received the student context. I can see the enrolled courses and upcoming deadlines, and I'm ready to help with any academic questions or planning needs!"

// Client calls a chat-completion API with the student's live context attached
// to every conversation.
type Client struct {
	api     *openai.Client
	model   string
	stores  *tools.Stores
	student agent.StudentContext
	clock   framework.Clock
	timeout time.Duration
}

// Options tunes a Client. Zero values select the defaults.
type Options struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	Clock   framework.Clock
}

// New builds a Client. An empty apiKey returns an error so callers can decide
// up front whether a provider is configured at all.
func New(apiKey string, stores *tools.Stores, student agent.StudentContext, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("llm: no API key configured")
	}

	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   model,
		stores:  stores,
		student: student,
		clock:   clock,
		timeout: timeout,
	}, nil
}

// Model reports the configured model name.
func (c *Client) Model() string { return c.model }

// Generate sends one chat turn: system prompt, context block, acknowledgment,
// prior history, then the new message. A single attempt with a timeout; the
// caller owns retry and fallback policy.
func (c *Client) Generate(ctx context.Context, message string, history []agent.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: "Here is the current student context:\n" + c.contextBlock() + "\n\nPlease acknowledge this context and be ready to help.",
		},
		{Role: openai.ChatMessageRoleAssistant, Content: contextAck},
	}
	for _, m := range history {
		role := openai.ChatMessageRoleAssistant
		if m.Sender == "user" {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: 0.7,
		TopP:        0.9,
	})
	if err != nil {
		return "", fmt.Errorf("llm: completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// contextBlock renders the student's live data for the model: profile,
// courses, nearest deadlines, wellness snapshot, current date.
func (c *Client) contextBlock() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current Student Context:\n- Name: %s\n- Semester: %s\n", c.student.Name, c.student.Semester)

	b.WriteString("\nEnrolled Courses:\n")
	for _, course := range c.stores.LMS.Courses() {
		fmt.Fprintf(&b, "- %s: %s, Progress: %d%%, Grade: %s\n",
			course.Code, course.Name, course.Progress, course.Grade)
	}

	b.WriteString("\nUpcoming Deadlines:\n")
	assignments := c.stores.LMS.Assignments()
	if len(assignments) > 3 {
		assignments = assignments[:3]
	}
	for _, a := range assignments {
		fmt.Fprintf(&b, "- %s: Due %s, Weight: %.0f%%\n",
			a.Title, a.DueDate.Format("Jan 2, 2006"), a.Weight*100)
	}

	fmt.Fprintf(&b, "\nStudy Streak: %d days\n", c.student.StudyStreak)
	fmt.Fprintf(&b, "\nToday's Date: %s\n", c.clock().Format("Monday, January 2, 2006"))

	return b.String()
}
