// Package firewall detects the host's firewall frontend and opens the
// proxy's listening port through it. Exactly one frontend is used per run,
// the first found on the executable search path in the order ufw,
// firewall-cmd, iptables.
package firewall

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/socksup/socksup/internal/platform/host"
)

// ErrNotDetected reports that no supported firewall frontend is on the
// executable search path.
var ErrNotDetected = errors.New("no supported firewall frontend found")

// Capability is one configurable firewall frontend.
type Capability interface {
	// Name identifies the frontend ("ufw", "firewalld", "iptables").
	Name() string
	// OpenPort admits inbound TCP connections on the port.
	OpenPort(ctx context.Context, port int) error
}

// Detect probes the search path for ufw, firewall-cmd, and iptables, in
// that order, and returns the first frontend found. adminPort is the port
// ufw pre-allows before enabling, so flipping a default-deny policy on
// cannot cut off the management session.
func Detect(runner host.CommandRunner, adminPort int) (Capability, error) {
	if path, err := runner.LookPath("ufw"); err == nil {
		return &ufw{runner: runner, path: path, adminPort: adminPort}, nil
	}
	if path, err := runner.LookPath("firewall-cmd"); err == nil {
		return &firewalld{runner: runner, path: path}, nil
	}
	if path, err := runner.LookPath("iptables"); err == nil {
		return &iptables{runner: runner, path: path}, nil
	}
	return nil, ErrNotDetected
}

type ufw struct {
	runner    host.CommandRunner
	path      string
	adminPort int
}

func (u *ufw) Name() string { return "ufw" }

// OpenPort allows the admin port, allows the proxy port, then force-enables
// ufw. The admin allow must come first: enabling switches inbound traffic
// to deny by default.
func (u *ufw) OpenPort(ctx context.Context, port int) error {
	steps := [][]string{
		{"allow", fmt.Sprintf("%d/tcp", u.adminPort)},
		{"allow", fmt.Sprintf("%d/tcp", port)},
		{"--force", "enable"},
	}
	for _, args := range steps {
		if _, err := u.runner.Run(ctx, u.path, args...); err != nil {
			return fmt.Errorf("ufw %s: %w", strings.Join(args, " "), err)
		}
	}
	return nil
}

type firewalld struct {
	runner host.CommandRunner
	path   string
}

func (f *firewalld) Name() string { return "firewalld" }

func (f *firewalld) OpenPort(ctx context.Context, port int) error {
	if _, err := f.runner.Run(ctx, f.path, "--permanent", fmt.Sprintf("--add-port=%d/tcp", port)); err != nil {
		return fmt.Errorf("firewall-cmd add-port: %w", err)
	}
	if _, err := f.runner.Run(ctx, f.path, "--reload"); err != nil {
		return fmt.Errorf("firewall-cmd reload: %w", err)
	}
	return nil
}

type iptables struct {
	runner host.CommandRunner
	path   string
}

func (i *iptables) Name() string { return "iptables" }

func (i *iptables) OpenPort(ctx context.Context, port int) error {
	if _, err := i.runner.Run(ctx, i.path, "-I", "INPUT", "-p", "tcp", "--dport", strconv.Itoa(port), "-j", "ACCEPT"); err != nil {
		return fmt.Errorf("iptables insert: %w", err)
	}
	return nil
}
