package service

import (
	"fmt"

	"github.com/socksup/socksup/internal/platform/threeproxy"
	"github.com/socksup/socksup/internal/provisioning"
)

// writeUnit resolves the installed binary, registers the unit definition,
// and reloads the unit index. Resolution comes first so nothing is written
// when the binary is missing.
func (p *Provisioner) writeUnit(ctx *provisioning.Context) error {
	binary, err := threeproxy.ResolveBinary(ctx.Host, threeproxy.BinaryCandidates)
	if err != nil {
		return &provisioning.BinaryNotFoundError{Candidates: threeproxy.BinaryCandidates}
	}
	ctx.State.BinaryPath = binary

	provisioning.LogResourceCreating(ctx.Observer, p.Name(), "unit", threeproxy.UnitName)
	unit := threeproxy.Unit(binary, ctx.Config.ConfigFilePath())
	if err := ctx.Host.WriteUnit(threeproxy.UnitName, unit); err != nil {
		return fmt.Errorf("writing unit %s: %w", threeproxy.UnitName, err)
	}
	if err := ctx.Host.DaemonReload(ctx); err != nil {
		return fmt.Errorf("reloading unit index: %w", err)
	}
	provisioning.LogResourceCreated(ctx.Observer, p.Name(), "unit", ctx.Host.UnitPath(threeproxy.UnitName))
	return nil
}
