// Package tui is the interactive chat surface. Turn history lives only
// in the running session and is discarded on exit.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"localbrain/internal/domain"
	"localbrain/internal/service"
)

// Answerer is the chat-facing subset of the application core.
type Answerer interface {
	Ask(ctx context.Context, question string) (service.Answer, error)
}

const answerTimeout = 3 * time.Minute

// Model is the Bubble Tea model for the chat session.
type Model struct {
	svc      Answerer
	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	turns    []domain.Turn
	thinking bool
	status   string
	ready    bool
}

// New creates a chat model over the given answerer.
func New(svc Answerer) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about your documents..."
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		svc:      svc,
		input:    ti,
		viewport: viewport.New(0, 0),
		spin:     sp,
		status:   "Ready. Type a question and press Enter.",
	}
}

type answerMsg struct {
	answer service.Answer
	err    error
}

func (m Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), answerTimeout)
		defer cancel()
		answer, err := m.svc.Ask(ctx, question)
		return answerMsg{answer: answer, err: err}
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := historyBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		vh := msg.Height - fh - qh - 3 // header, status, spacer
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTurns())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.thinking {
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.turns = append(m.turns, domain.Turn{Role: domain.RoleUser, Content: q})
				m.input.Reset()
				m.thinking = true
				m.status = "Searching local memory..."
				m.viewport.SetContent(m.renderTurns())
				m.viewport.GotoBottom()
				return m, tea.Batch(m.spin.Tick, m.askCmd(q))
			}
		}
	case answerMsg:
		m.thinking = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.turns = append(m.turns, domain.Turn{Role: domain.RoleAssistant, Content: msg.answer.Text})
			if n := len(msg.answer.UsedChunkIDs); n > 0 {
				m.status = "Answered from " + strings.Join(msg.answer.UsedChunkIDs, ", ")
			} else {
				m.status = "Answered without local context."
			}
		}
		m.viewport.SetContent(m.renderTurns())
		m.viewport.GotoBottom()
		return m, nil
	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("LOCAL BRAIN")
	history := historyBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	if m.thinking {
		status = m.spin.View() + " " + status
	}
	return header + "\n" + history + "\n" + input + "\n" + status
}

func (m Model) renderTurns() string {
	if len(m.turns) == 0 {
		return "No conversation yet."
	}
	parts := make([]string, 0, len(m.turns))
	for _, turn := range m.turns {
		label := userStyle.Render("You")
		if turn.Role == domain.RoleAssistant {
			label = assistantStyle.Render("Brain")
		}
		parts = append(parts, label+": "+turn.Content)
	}
	return strings.Join(parts, "\n\n")
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
