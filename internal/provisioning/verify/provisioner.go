package verify

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/proxy"

	"github.com/socksup/socksup/internal/platform/threeproxy"
	"github.com/socksup/socksup/internal/provisioning"
	"github.com/socksup/socksup/internal/util/netutil"
	"github.com/socksup/socksup/internal/util/retry"
)

// Provisioner runs the post-install checks.
type Provisioner struct {
	socksGet func(ctx context.Context, proxyAddr string, auth *proxy.Auth, url string, timeout time.Duration) (string, error)
	httpGet  func(ctx context.Context, url string, timeout time.Duration) (string, error)
}

// NewProvisioner creates a new verification provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{
		socksGet: socksRoundTrip,
		httpGet:  directGet,
	}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "verify"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	unit := threeproxy.UnitName
	port := ctx.Config.Proxy.Port

	// 1. Service state
	active, err := ctx.Host.IsActive(ctx, unit)
	if err != nil {
		return &provisioning.ServiceStartError{Service: unit, Err: err}
	}
	if !active {
		return &provisioning.ServiceStartError{Service: unit, Status: "inactive"}
	}

	// 2. Listening socket
	if err := netutil.WaitForPort(ctx, "127.0.0.1", port, ctx.Timeouts.PortSettle); err != nil {
		return fmt.Errorf("port %d is not accepting connections (%v); check journalctl -u %s", port, err, unit)
	}
	ctx.Observer.Printf("[Verify] %s is active and listening on port %d", unit, port)

	// 3. Credential read-back
	primary := ctx.Config.Proxy.Users.Primary
	data, err := ctx.Host.ReadFile(ctx.Config.ConfigFilePath())
	if err != nil {
		return fmt.Errorf("reading %s: %w", ctx.Config.ConfigFilePath(), err)
	}
	password, err := threeproxy.ReadPassword(string(data), primary)
	if err != nil {
		return fmt.Errorf("recovering %s password from config: %w", primary, err)
	}

	// 4. Authenticated round-trip. The daemon can refuse connections for a
	// moment right after startup, so the probe gets a few attempts.
	proxyAddr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	auth := &proxy.Auth{User: primary, Password: password}
	var body string
	err = retry.WithExponentialBackoff(ctx, func() error {
		got, rerr := p.socksGet(ctx, proxyAddr, auth, ctx.Config.Network.CheckURL, ctx.Timeouts.Verify)
		if rerr != nil {
			if ctx.Err() != nil {
				return retry.Fatal(rerr)
			}
			return rerr
		}
		body = got
		return nil
	},
		retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay),
	)
	if err != nil {
		ctx.Warn(p.Name(), provisioning.WarnConnectivityTest, "round-trip via %s failed: %v", proxyAddr, err)
	} else {
		ctx.State.PublicAddress = body
		ctx.Observer.Printf("[Verify] Round-trip through the proxy succeeded")
	}

	// 5. Public address for the summary
	if ctx.State.PublicAddress == "" {
		body, err := p.httpGet(ctx, ctx.Config.Network.CheckURL, ctx.Timeouts.Verify)
		if err != nil {
			ctx.Observer.Printf("[Verify] Could not determine public address: %v", err)
		} else {
			ctx.State.PublicAddress = body
		}
	}

	return nil
}
