// Package handlers contains the business logic behind each CLI command.
// Commands parse flags; handlers load configuration, assemble the
// provisioning pipeline, and run it.
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/socksup/socksup/internal/config"
	"github.com/socksup/socksup/internal/platform/host"
	"github.com/socksup/socksup/internal/platform/threeproxy"
	"github.com/socksup/socksup/internal/provisioning"
	"github.com/socksup/socksup/internal/provisioning/build"
	"github.com/socksup/socksup/internal/provisioning/configure"
	"github.com/socksup/socksup/internal/provisioning/hostprep"
	"github.com/socksup/socksup/internal/provisioning/service"
	"github.com/socksup/socksup/internal/provisioning/verify"
	"github.com/socksup/socksup/internal/ui/tui"
)

// Function variables for apply - can be replaced in tests.
var (
	// loadConfig loads the configuration, falling back to defaults.
	loadConfig = config.LoadOrDefault

	// newHostManager builds the host client the pipeline runs against.
	newHostManager = func(verbose bool) host.Manager {
		if verbose {
			return host.NewRealClient(host.WithCommandLog(log.Printf))
		}
		return host.NewRealClient()
	}

	// isInteractiveTTY reports whether stdout is a terminal.
	isInteractiveTTY = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	// runApplyTUI drives the full-screen progress view.
	runApplyTUI = tui.RunApply
)

// ApplyOptions holds the flags of the apply command.
type ApplyOptions struct {
	ConfigPath string
	NoTUI      bool
	Verbose    bool
}

// Apply handles the apply command.
//
// It loads the configuration, then runs the full provisioning pipeline:
//  1. Prepares the host (platform probe, build deps, port conflicts)
//  2. Downloads and compiles the proxy from source
//  3. Renders the proxy configuration with fresh credentials
//  4. Installs the systemd unit, firewall rules, and starts the service
//  5. Verifies the service end to end
//
// With a terminal attached the run is rendered as a live progress view;
// otherwise each phase logs line by line. Credentials are surfaced exactly
// once, during the run, and never repeated in the closing summary.
func Apply(ctx context.Context, opts ApplyOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	pctx := provisioning.NewContext(ctx, cfg, newHostManager(opts.Verbose))
	phases := applyPhases()

	if !opts.NoTUI && isInteractiveTTY() {
		err = runApplyTUI(ctx, cfg.Proxy.Port, phaseNames(phases), func(observer provisioning.Observer) error {
			pctx.Observer = observer
			return provisioning.RunPhases(pctx, phases)
		})
	} else {
		err = provisioning.RunPhases(pctx, phases)
	}
	if err != nil {
		return err
	}

	printApplySummary(pctx)
	return nil
}

// applyPhases returns the provisioning pipeline in execution order.
func applyPhases() []provisioning.Phase {
	return []provisioning.Phase{
		hostprep.NewProvisioner(),
		build.NewProvisioner(),
		configure.NewProvisioner(),
		service.NewProvisioner(),
		verify.NewProvisioner(),
	}
}

func phaseNames(phases []provisioning.Phase) []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.Name()
	}
	return names
}

// printApplySummary prints the closing report. It deliberately contains no
// passwords: those were shown once during the run and live on only in the
// rendered proxy config.
func printApplySummary(pctx *provisioning.Context) {
	cfg := pctx.Config
	state := pctx.State

	addr := state.PublicAddress
	if addr == "" {
		addr = "<this host>"
	}

	fmt.Println()
	fmt.Println("SOCKS5 proxy is up.")
	fmt.Println()
	fmt.Printf("  Run:       %s\n", state.RunID)
	fmt.Printf("  Endpoint:  socks5://%s:%d\n", addr, cfg.Proxy.Port)
	fmt.Printf("  Accounts:  %s, %s (strong auth)\n", cfg.Proxy.Users.Primary, cfg.Proxy.Users.Secondary)
	if state.Firewall != "" {
		fmt.Printf("  Firewall:  %s (ports %d, %d open)\n", state.Firewall, cfg.Proxy.Port, cfg.Network.AdminPort)
	}
	fmt.Println()
	fmt.Println("Manage the service with:")
	fmt.Printf("  systemctl status %s\n", threeproxy.UnitName)
	fmt.Printf("  systemctl restart %s\n", threeproxy.UnitName)
	fmt.Printf("  journalctl -u %s\n", threeproxy.UnitName)

	if len(state.Warnings) > 0 {
		fmt.Println()
		fmt.Printf("Completed with %d warning(s):\n", len(state.Warnings))
		for _, w := range state.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
