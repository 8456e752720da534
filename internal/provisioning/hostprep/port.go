package hostprep

import (
	"fmt"
	"strings"

	"github.com/socksup/socksup/internal/platform/threeproxy"
	"github.com/socksup/socksup/internal/provisioning"
)

// freePort evicts whatever listens on the configured proxy port. Clearing
// is best-effort: every failure here degrades to a port-conflict warning
// because the service start will fail loudly if the port is truly stuck.
// Only context cancellation aborts.
func (p *Provisioner) freePort(ctx *provisioning.Context) error {
	port := ctx.Config.Proxy.Port

	busy, err := ctx.Host.PortInUse(port)
	if err != nil {
		ctx.Warn(p.Name(), provisioning.WarnPortConflict, "inspecting port %d: %v", port, err)
		return nil
	}
	if !busy {
		ctx.Observer.Printf("[Host] Port %d is free", port)
		return nil
	}

	// A previous run's service holding the port is stopped through systemd,
	// otherwise Restart=always brings the daemon straight back.
	if active, err := ctx.Host.IsActive(ctx, threeproxy.UnitName); err == nil && active {
		ctx.Observer.Printf("[Host] Stopping %s service from a previous run", threeproxy.UnitName)
		if err := ctx.Host.Stop(ctx, threeproxy.UnitName); err != nil {
			ctx.Warn(p.Name(), provisioning.WarnPortConflict, "stopping %s: %v", threeproxy.UnitName, err)
		}
	}

	pids, err := ctx.Host.ListeningPIDs(port)
	if err != nil {
		ctx.Warn(p.Name(), provisioning.WarnPortConflict, "resolving port %d owners: %v", port, err)
	} else if len(pids) > 0 {
		ctx.Warn(p.Name(), provisioning.WarnPortConflict, "port %d held by PID %s, terminating", port, joinPIDs(pids))
		if err := ctx.Host.Terminate(ctx, pids, ctx.Timeouts.StopGrace); err != nil {
			ctx.Warn(p.Name(), provisioning.WarnPortConflict, "terminating port %d owners: %v", port, err)
		} else {
			ctx.State.Evicted = append(ctx.State.Evicted, pids...)
		}
	}

	if err := provisioning.Sleep(ctx, ctx.Timeouts.PortSettle); err != nil {
		return err
	}

	busy, err = ctx.Host.PortInUse(port)
	if err == nil && busy {
		ctx.Warn(p.Name(), provisioning.WarnPortConflict, "port %d still in use after eviction, the service may fail to bind", port)
	}
	return nil
}

func joinPIDs(pids []int) string {
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = fmt.Sprintf("%d", pid)
	}
	return strings.Join(parts, ", ")
}
