package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/socksup/socksup/internal/config"
	"github.com/socksup/socksup/internal/platform/host"
	"github.com/socksup/socksup/internal/util/keygen"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// RunID identifies this run in logs and events.
	RunID string

	// Host results (populated by the host preparation phase)
	Profile *host.Profile // Detected OS and package manager
	Evicted []int         // PIDs terminated to free the listen port

	// Configuration results (populated by the configure phase)
	Credentials []keygen.Credential

	// Service results (populated by the service phase)
	BinaryPath string // Resolved install location of the proxy binary
	Firewall   string // Frontend that accepted rules ("ufw", "firewalld", "iptables", "")

	// Verification results (populated by the verifier)
	PublicAddress string // Host address as seen by the check endpoint

	// Warnings collects every non-fatal finding across phases.
	Warnings []Warning
}

// NewState creates an empty provisioning state with a fresh run ID.
func NewState() *State {
	return &State{
		RunID: uuid.NewString(),
	}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Host     host.Manager
	Observer Observer
	Timeouts *config.Timeouts
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, cfg *config.Config, manager host.Manager) *Context {
	observer := NewConsoleObserver()
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Host:     manager,
		Observer: observer,
		Timeouts: config.LoadTimeouts(),
	}
}

// Sleep pauses for d or until ctx is canceled, whichever comes first.
// Every settle interval in the pipeline sleeps through this, so a canceled
// run never sits out a full timer.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Warn records a non-fatal finding on the state and emits it to the
// observer. The run continues; only the summary and event stream surface it.
func (c *Context) Warn(phase string, kind WarningKind, format string, args ...any) {
	w := Warning{Kind: kind, Message: fmt.Sprintf(format, args...)}
	c.State.Warnings = append(c.State.Warnings, w)
	c.Observer.Event(Event{
		Type:    EventWarning,
		Phase:   phase,
		Message: w.Message,
		Fields: map[string]string{
			"kind": string(kind),
		},
	})
}
