package service

import (
	"github.com/socksup/socksup/internal/platform/firewall"
	"github.com/socksup/socksup/internal/platform/host"
	"github.com/socksup/socksup/internal/provisioning"
)

// Provisioner registers, firewalls, and starts the proxy service.
type Provisioner struct {
	detectFirewall func(runner host.CommandRunner, adminPort int) (firewall.Capability, error)
}

// NewProvisioner creates a new service provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{
		detectFirewall: firewall.Detect,
	}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "service"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	// 1. Unit
	if err := p.writeUnit(ctx); err != nil {
		return err
	}

	// 2. Firewall
	p.configureFirewall(ctx)

	// 3. Lifecycle
	return p.startService(ctx)
}
