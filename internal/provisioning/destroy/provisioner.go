package destroy

import (
	"fmt"
	"os"

	"github.com/socksup/socksup/internal/platform/threeproxy"
	"github.com/socksup/socksup/internal/provisioning"
	"github.com/socksup/socksup/internal/util/netutil"
)

// Provisioner removes the proxy service and its host artifacts.
type Provisioner struct {
	// KeepLogs leaves the proxy log file in place.
	KeepLogs bool
}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "destroy"
}

// Provision tears the service down. Every removal tolerates the artifact
// already being gone, so a destroy after a partial apply (or a second
// destroy) completes cleanly.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	unit := threeproxy.UnitName

	if active, err := ctx.Host.IsActive(ctx, unit); err == nil && active {
		ctx.Observer.Printf("[Destroy] Stopping %s", unit)
		if err := ctx.Host.Stop(ctx, unit); err != nil {
			return fmt.Errorf("stopping %s: %w", unit, err)
		}
	}
	if err := ctx.Host.Disable(ctx, unit); err != nil {
		ctx.Observer.Printf("[Destroy] Disabling %s: %v", unit, err)
	}

	provisioning.LogResourceDeleting(ctx.Observer, p.Name(), "unit", unit)
	if err := ctx.Host.RemoveUnit(unit); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing unit %s: %w", unit, err)
	}
	if err := ctx.Host.DaemonReload(ctx); err != nil {
		return fmt.Errorf("reloading unit index: %w", err)
	}
	provisioning.LogResourceDeleted(ctx.Observer, p.Name(), "unit", unit)

	if err := p.removeArtifacts(ctx); err != nil {
		return err
	}

	return p.waitPortReleased(ctx)
}

// removeArtifacts deletes the config directory, the installed binaries, and
// (unless kept) the log file.
func (p *Provisioner) removeArtifacts(ctx *provisioning.Context) error {
	cfg := ctx.Config

	provisioning.LogResourceDeleting(ctx.Observer, p.Name(), "config", cfg.Paths.ConfigDir)
	if err := ctx.Host.RemoveAll(cfg.Paths.ConfigDir); err != nil {
		return fmt.Errorf("removing %s: %w", cfg.Paths.ConfigDir, err)
	}
	provisioning.LogResourceDeleted(ctx.Observer, p.Name(), "config", cfg.Paths.ConfigDir)

	for _, candidate := range threeproxy.BinaryCandidates {
		if err := ctx.Host.Remove(candidate); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("removing %s: %w", candidate, err)
		}
		provisioning.LogResourceDeleted(ctx.Observer, p.Name(), "binary", candidate)
	}

	if p.KeepLogs {
		ctx.Observer.Printf("[Destroy] Keeping log file %s", cfg.Paths.LogFile)
		return nil
	}
	if err := ctx.Host.Remove(cfg.Paths.LogFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", cfg.Paths.LogFile, err)
	}
	return nil
}

// waitPortReleased waits for the stopped daemon's socket to drain. A port
// still held after the settle budget is reported, not fatal: the service is
// already deregistered and the holder may be an unrelated process.
func (p *Provisioner) waitPortReleased(ctx *provisioning.Context) error {
	port := ctx.Config.Proxy.Port
	if err := netutil.WaitForPortClosed(ctx, "127.0.0.1", port, ctx.Timeouts.PortSettle); err != nil {
		ctx.Observer.Printf("[Destroy] Port %d still in use: %v", port, err)
		return nil
	}

	ctx.Observer.Printf("[Destroy] Port %d released, teardown complete", port)
	return nil
}
