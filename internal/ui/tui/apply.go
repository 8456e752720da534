package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/socksup/socksup/internal/provisioning"
	"github.com/socksup/socksup/internal/util/keygen"
)

// RunApply wraps a provisioning run with the Bubble Tea dashboard. run is
// executed in a background goroutine with an Observer that forwards pipeline
// events to the program; its error is surfaced both in the final frame and
// as RunApply's return value, so typed pipeline errors keep their identity.
func RunApply(ctx context.Context, port int, phases []string, run func(observer provisioning.Observer) error) error {
	m := NewApplyModel(port, phases)
	p := tea.NewProgram(m, tea.WithContext(ctx))

	done := make(chan error, 1)
	go func() {
		err := run(&bridgeObserver{send: p.Send})
		done <- err
		p.Send(DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return <-done
}

// bridgeObserver translates provisioning events into Bubble Tea messages.
type bridgeObserver struct {
	send func(tea.Msg)
}

var _ provisioning.Observer = (*bridgeObserver)(nil)

// Printf forwards a log line to the dashboard's status area.
func (o *bridgeObserver) Printf(format string, v ...any) {
	o.send(LogMsg{Line: fmt.Sprintf(format, v...)})
}

// Event maps structured pipeline events onto display messages.
func (o *bridgeObserver) Event(event provisioning.Event) {
	phase := phaseName(event.Phase)
	switch event.Type {
	case provisioning.EventPhaseStarted:
		o.send(PhaseMsg{Phase: phase})
	case provisioning.EventPhaseCompleted:
		o.send(PhaseMsg{Phase: phase, Done: true})
	case provisioning.EventPhaseFailed:
		o.send(PhaseMsg{Phase: phase, Err: errors.New(event.Message)})
	case provisioning.EventWarning:
		o.send(WarningMsg{Phase: phase, Message: event.Message})
	case provisioning.EventCredentials:
		o.send(CredentialsMsg{Credentials: credentialsFromEvent(event)})
	default:
		o.send(LogMsg{Line: fmt.Sprintf("[%s] %s", phase, event.Message)})
	}
}

// Progress forwards step progress within a phase.
func (o *bridgeObserver) Progress(phase string, current, total int) {
	o.send(ProgressMsg{Phase: phaseName(phase), Current: current, Total: total})
}

// WithFields returns the observer itself; the dashboard has no field scoping.
func (o *bridgeObserver) WithFields(fields map[string]string) provisioning.Observer {
	return o
}

// phaseName strips the " (n/m)" counter the pipeline appends to event phase
// names, so messages match the model's phase list.
func phaseName(name string) string {
	if base, _, ok := strings.Cut(name, " ("); ok {
		return base
	}
	return name
}

func credentialsFromEvent(event provisioning.Event) []keygen.Credential {
	var creds []keygen.Credential
	for _, user := range strings.Split(event.Fields["users"], ",") {
		if user == "" {
			continue
		}
		creds = append(creds, keygen.Credential{Username: user, Password: event.Fields[user]})
	}
	return creds
}
