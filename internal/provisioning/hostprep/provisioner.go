package hostprep

import (
	"github.com/socksup/socksup/internal/provisioning"
)

// Provisioner prepares the host for the build and install phases.
type Provisioner struct{}

// NewProvisioner creates a new host preparation provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "host"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	// 1. Platform
	if err := p.detectPlatform(ctx); err != nil {
		return err
	}

	// 2. Build toolchain
	if err := p.installDependencies(ctx); err != nil {
		return err
	}

	// 3. Listening port
	return p.freePort(ctx)
}
