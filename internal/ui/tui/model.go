package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/socksup/socksup/internal/util/keygen"
)

// PhaseStatus tracks one pipeline phase for display.
type PhaseStatus struct {
	Name    string
	Active  bool
	Done    bool
	Err     error
	Current int
	Total   int
}

// Model is the Bubble Tea model for the apply dashboard.
type Model struct {
	// Target info
	Port int

	// Pipeline state
	Phases      []PhaseStatus
	Warnings    []string
	Credentials []keygen.Credential
	LastLog     string

	// Animation
	SpinnerFrame int
	StartTime    time.Time

	// UI state
	Width int
	Err   error
	Done  bool
}

// NewApplyModel creates a model for the apply command dashboard. phases is
// the pipeline's phase name list, in execution order.
func NewApplyModel(port int, phases []string) Model {
	statuses := make([]PhaseStatus, len(phases))
	for i, name := range phases {
		statuses[i] = PhaseStatus{Name: name}
	}
	return Model{
		Port:      port,
		Phases:    statuses,
		StartTime: time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case PhaseMsg:
		m.updatePhase(msg)
		if msg.Err != nil {
			m.Err = msg.Err
		}

	case ProgressMsg:
		for i := range m.Phases {
			if m.Phases[i].Name == msg.Phase {
				m.Phases[i].Current = msg.Current
				m.Phases[i].Total = msg.Total
			}
		}

	case WarningMsg:
		m.Warnings = append(m.Warnings, msg.Phase+": "+msg.Message)

	case CredentialsMsg:
		m.Credentials = msg.Credentials

	case LogMsg:
		m.LastLog = msg.Line

	case TickMsg:
		m.SpinnerFrame++
		if m.Done {
			return m, nil
		}
		return m, tickCmd()

	case DoneMsg:
		m.Done = true
		if msg.Err != nil {
			m.Err = msg.Err
		}
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}

// updatePhase marks a phase active, done, or failed.
func (m *Model) updatePhase(msg PhaseMsg) {
	for i := range m.Phases {
		if m.Phases[i].Name != msg.Phase {
			continue
		}
		if msg.Err != nil {
			m.Phases[i].Active = false
			m.Phases[i].Err = msg.Err
		} else if msg.Done {
			m.Phases[i].Active = false
			m.Phases[i].Done = true
		} else {
			m.Phases[i].Active = true
		}
		return
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}
