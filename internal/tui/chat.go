// Package tui is a terminal chat client over an in-process orchestrator.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pilotedu/studypilot/agent"
	"github.com/pilotedu/studypilot/persistence"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	agentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	metaStyle   = lipgloss.NewStyle().Faint(true)
	actionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Model is the bubbletea state for the chat screen.
type Model struct {
	orchestrator *agent.Orchestrator
	transcripts  persistence.TranscriptStore
	sessionID    string

	input    textinput.Model
	viewport viewport.Model
	ready    bool
	waiting  bool

	history []agent.Message
	lines   []string
}

type replyMsg struct {
	reply agent.Reply
	err   error
}

// New builds the chat model. The transcript store may be nil.
func New(orchestrator *agent.Orchestrator, transcripts persistence.TranscriptStore, sessionID string) Model {
	input := textinput.New()
	input.Placeholder = "Ask about deadlines, grades, your schedule..."
	input.Focus()
	input.CharLimit = 500

	return Model{
		orchestrator: orchestrator,
		transcripts:  transcripts,
		sessionID:    sessionID,
		input:        input,
		lines: []string{
			titleStyle.Render("StudyPilot") + metaStyle.Render(" - your academic companion"),
			metaStyle.Render("Type a message and press Enter. Ctrl+C to quit."),
			"",
		},
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key and reply events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.appendLine(userStyle.Render("You: ") + text)
			history := append([]agent.Message(nil), m.history...)
			m.history = append(m.history, agent.Message{Sender: "user", Content: text})
			return m, m.send(text, history)
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-3)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 3
		}
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		m.viewport.GotoBottom()

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.appendLine(metaStyle.Render("error: " + msg.err.Error()))
			break
		}
		reply := msg.reply
		m.history = append(m.history, agent.Message{Sender: "ai", Content: reply.Response})
		m.appendLine(agentStyle.Render("StudyPilot: ") + reply.Response)
		if len(reply.Actions) > 0 {
			labels := make([]string, 0, len(reply.Actions))
			for _, a := range reply.Actions {
				labels = append(labels, a.Label)
			}
			m.appendLine(actionStyle.Render("Suggested: " + strings.Join(labels, " | ")))
		}
		m.appendLine(metaStyle.Render(fmt.Sprintf("intent=%s tools=%s", reply.Intent, strings.Join(reply.ToolsUsed, ","))))
		m.appendLine("")
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the transcript above the input line.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	status := ""
	if m.waiting {
		status = metaStyle.Render(" thinking...")
	}
	return m.viewport.View() + "\n" + m.input.View() + status
}

func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if m.ready {
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		m.viewport.GotoBottom()
	}
}

func (m Model) send(text string, history []agent.Message) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		reply := m.orchestrator.ProcessMessage(ctx, text, history)

		if m.transcripts != nil {
			_ = m.transcripts.Append(ctx, m.sessionID,
				agent.Message{Sender: "user", Content: text},
				agent.Message{Sender: "ai", Content: reply.Response})
		}
		return replyMsg{reply: reply}
	}
}

// Run starts the chat program and blocks until exit.
func Run(orchestrator *agent.Orchestrator, transcripts persistence.TranscriptStore, sessionID string) error {
	program := tea.NewProgram(New(orchestrator, transcripts, sessionID), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
