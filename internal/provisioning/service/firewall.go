package service

import (
	"github.com/socksup/socksup/internal/provisioning"
)

// configureFirewall opens the proxy port through the first frontend found
// on the search path. A missing frontend or a rejected rule degrades to a
// warning: inbound filtering may legitimately live outside the host, in a
// cloud security group.
func (p *Provisioner) configureFirewall(ctx *provisioning.Context) {
	fw, err := p.detectFirewall(ctx.Host, ctx.Config.Network.AdminPort)
	if err != nil {
		ctx.Warn(p.Name(), provisioning.WarnFirewallUnavailable, "no firewall configured: %v", err)
		return
	}

	port := ctx.Config.Proxy.Port
	if err := fw.OpenPort(ctx, port); err != nil {
		ctx.Warn(p.Name(), provisioning.WarnFirewallUnavailable, "opening port %d via %s: %v", port, fw.Name(), err)
		return
	}

	ctx.State.Firewall = fw.Name()
	ctx.Observer.Printf("[Service] Opened port %d via %s", port, fw.Name())
}
