package configure

import (
	"fmt"
	"os"
	"strings"

	"github.com/socksup/socksup/internal/platform/threeproxy"
	"github.com/socksup/socksup/internal/provisioning"
	"github.com/socksup/socksup/internal/util/keygen"
)

// Provisioner renders the proxy configuration and log sink.
type Provisioner struct{}

// NewProvisioner creates a new configuration provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "configure"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config

	if _, err := ctx.Host.Stat(cfg.Paths.ConfigDir); err == nil {
		provisioning.LogResourceExists(ctx.Observer, p.Name(), "config dir", cfg.Paths.ConfigDir)
	} else if err := ctx.Host.MkdirAll(cfg.Paths.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", cfg.Paths.ConfigDir, err)
	}

	creds, err := keygen.GenerateCredentials(cfg.Usernames()...)
	if err != nil {
		return fmt.Errorf("generating credentials: %w", err)
	}

	text, err := threeproxy.NewGenerator(cfg.ProxySettings()).Render(creds)
	if err != nil {
		return fmt.Errorf("rendering proxy config: %w", err)
	}

	path := cfg.ConfigFilePath()
	provisioning.LogResourceCreating(ctx.Observer, p.Name(), "config", path)
	if err := ctx.Host.WriteFile(path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	provisioning.LogResourceCreated(ctx.Observer, p.Name(), "config", path)

	if err := p.ensureLogSink(ctx); err != nil {
		return err
	}

	ctx.State.Credentials = creds
	p.emitCredentials(ctx, creds)
	return nil
}

// ensureLogSink makes sure the log file exists and is appendable by any
// user the daemon ends up running as. An existing log is never truncated.
func (p *Provisioner) ensureLogSink(ctx *provisioning.Context) error {
	path := ctx.Config.Paths.LogFile

	if _, err := ctx.Host.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("inspecting %s: %w", path, err)
		}
		provisioning.LogResourceCreating(ctx.Observer, p.Name(), "logfile", path)
		if err := ctx.Host.WriteFile(path, nil, 0o666); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		provisioning.LogResourceCreated(ctx.Observer, p.Name(), "logfile", path)
	} else {
		provisioning.LogResourceExists(ctx.Observer, p.Name(), "logfile", path)
	}
	if err := ctx.Host.Chmod(path, 0o666); err != nil {
		return fmt.Errorf("opening up %s: %w", path, err)
	}
	return nil
}

// emitCredentials surfaces the generated accounts through one credentials
// event. This is the only place passwords ever leave the run in cleartext.
func (p *Provisioner) emitCredentials(ctx *provisioning.Context, creds []keygen.Credential) {
	fields := make(map[string]string, len(creds)+1)
	users := make([]string, len(creds))
	for i, cred := range creds {
		users[i] = cred.Username
		fields[cred.Username] = cred.Password
	}
	fields["users"] = strings.Join(users, ",")

	ctx.Observer.Event(provisioning.Event{
		Type:    provisioning.EventCredentials,
		Phase:   p.Name(),
		Message: "generated proxy accounts",
		Fields:  fields,
	})
}
