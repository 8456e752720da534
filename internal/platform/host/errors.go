package host

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandError reports a host command that exited non-zero or failed to run,
// carrying the combined output for diagnostics.
type CommandError struct {
	Name   string
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	cmdline := e.Name
	if len(e.Args) > 0 {
		cmdline += " " + strings.Join(e.Args, " ")
	}
	output := strings.TrimSpace(e.Output)
	if output == "" {
		return fmt.Sprintf("command %q failed: %v", cmdline, e.Err)
	}
	return fmt.Sprintf("command %q failed: %v\noutput: %s", cmdline, e.Err, output)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status carried by err, or -1 when err does not
// wrap a process exit.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
