package testing

import (
	"github.com/socksup/socksup/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder seeded with the defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: *config.Default()}
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	newBuilder := &ConfigBuilder{cfg: b.cfg}
	newBuilder.cfg.Proxy.NServers = append([]string(nil), b.cfg.Proxy.NServers...)
	return newBuilder
}

// WithPort sets the proxy listen port.
func (b *ConfigBuilder) WithPort(port int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Proxy.Port = port
	return newBuilder
}

// WithUsers sets the two account usernames.
func (b *ConfigBuilder) WithUsers(primary, secondary string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Proxy.Users.Primary = primary
	newBuilder.cfg.Proxy.Users.Secondary = secondary
	return newBuilder
}

// WithVersion sets the pinned proxy version.
func (b *ConfigBuilder) WithVersion(version string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Proxy.Version = version
	return newBuilder
}

// WithCheckURL sets the external endpoint used by the verifier.
func (b *ConfigBuilder) WithCheckURL(url string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Network.CheckURL = url
	return newBuilder
}

// WithWorkDir sets the scratch directory for the source build.
func (b *ConfigBuilder) WithWorkDir(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Paths.WorkDir = dir
	return newBuilder
}

// WithConfigDir sets the directory holding the rendered proxy config.
func (b *ConfigBuilder) WithConfigDir(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Paths.ConfigDir = dir
	return newBuilder
}

// Build returns the assembled config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}
