package service

import (
	"github.com/socksup/socksup/internal/platform/threeproxy"
	"github.com/socksup/socksup/internal/provisioning"
)

// startService enables the unit at boot, starts it, waits out the settle
// interval, and polls the state once. Anything but active is fatal.
func (p *Provisioner) startService(ctx *provisioning.Context) error {
	unit := threeproxy.UnitName

	if err := ctx.Host.Enable(ctx, unit); err != nil {
		return &provisioning.ServiceStartError{Service: unit, Err: err}
	}
	if err := ctx.Host.Start(ctx, unit); err != nil {
		return &provisioning.ServiceStartError{Service: unit, Err: err}
	}

	if err := provisioning.Sleep(ctx, ctx.Timeouts.ServiceSettle); err != nil {
		return err
	}

	active, err := ctx.Host.IsActive(ctx, unit)
	if err != nil {
		return &provisioning.ServiceStartError{Service: unit, Err: err}
	}
	if !active {
		return &provisioning.ServiceStartError{Service: unit, Status: "inactive"}
	}

	ctx.Observer.Printf("[Service] %s is active on port %d", unit, ctx.Config.Proxy.Port)
	return nil
}
