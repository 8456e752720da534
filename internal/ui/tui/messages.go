// Package tui provides a Bubble Tea-based terminal UI for the provisioning
// run. It renders inline (no alternate screen) so the final frame, including
// the one-time credential block, stays in the operator's scrollback.
package tui

import "github.com/socksup/socksup/internal/util/keygen"

// PhaseMsg reports a pipeline phase starting, completing, or failing.
type PhaseMsg struct {
	Phase string
	Done  bool
	Err   error
}

// ProgressMsg reports step progress within a phase.
type ProgressMsg struct {
	Phase   string
	Current int
	Total   int
}

// WarningMsg carries a non-fatal finding recorded during the run.
type WarningMsg struct {
	Phase   string
	Message string
}

// CredentialsMsg carries the generated proxy accounts. Sent exactly once
// per run; the final view is the only place the TUI shows passwords.
type CredentialsMsg struct {
	Credentials []keygen.Credential
}

// LogMsg carries a free-form log line from the pipeline.
type LogMsg struct {
	Line string
}

// TickMsg is sent periodically to advance the spinner.
type TickMsg struct{}

// DoneMsg signals that the pipeline finished, successfully or not.
type DoneMsg struct {
	Err error
}
