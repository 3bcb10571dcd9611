// Package tui is the terminal chat frontend. It keeps the id of the last
// issued test question as ordinary client state, so answering with /answer
// needs no server-side session.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qatbot/internal/models"
)

// Backend is the TUI-facing subset of the HTTP client.
type Backend interface {
	UploadFiles(paths []string) (string, error)
	Query(question string) (*models.QueryResponse, error)
	Evaluate(answer, testQuestionID string) (*models.EvaluationResult, error)
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	backend        Backend
	input          textinput.Model
	viewport       viewport.Model
	transcript     []string
	status         string
	testQuestionID string
	ready          bool
}

// New creates a new TUI model instance.
func New(backend Backend) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, /upload <files>, or /answer <text>"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		backend:  backend,
		input:    ti,
		viewport: vp,
		status:   "Hello, what would you like to learn today?",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(strings.Join(m.transcript, "\n"))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			line := strings.TrimSpace(m.input.Value())
			if line != "" {
				m = m.handleSubmit(line)
				m.input.SetValue("")
				m.viewport.SetContent(strings.Join(m.transcript, "\n"))
				m.viewport.GotoBottom()
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSubmit(line string) Model {
	switch {
	case strings.HasPrefix(line, "/upload "):
		paths := strings.Fields(strings.TrimPrefix(line, "/upload "))
		message, err := m.backend.UploadFiles(paths)
		if err != nil {
			m.status = "Error: " + err.Error()
			return m
		}
		m.status = message
	case strings.HasPrefix(line, "/answer "):
		if m.testQuestionID == "" {
			m.status = "No test question to answer yet. Ask a question first."
			return m
		}
		answer := strings.TrimPrefix(line, "/answer ")
		result, err := m.backend.Evaluate(answer, m.testQuestionID)
		if err != nil {
			m.status = "Error: " + err.Error()
			return m
		}
		m.transcript = append(m.transcript,
			userStyle.Render("You: ")+answer,
			botStyle.Render("Understood: ")+fmt.Sprintf("%t", result.KnowledgeUnderstood),
			botStyle.Render("Confidence: ")+fmt.Sprintf("%d", result.KnowledgeConfidence),
			"")
		m.status = "Evaluation received."
	default:
		response, err := m.backend.Query(line)
		if err != nil {
			m.status = "Error: " + err.Error()
			return m
		}
		lines := []string{
			userStyle.Render("You: ") + line,
			botStyle.Render("Answer: ") + response.Answer,
		}
		for _, point := range response.BulletPoints {
			lines = append(lines, "  • "+point)
		}
		lines = append(lines,
			botStyle.Render("Test question: ")+response.TestQuestion,
			"")
		m.transcript = append(m.transcript, lines...)
		m.testQuestionID = response.TestQuestionID
		m.status = "Reply with /answer <your answer> to take the test."
	}
	return m
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Q-A-T Chatbot")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
