package config

import (
	"fmt"
	"path/filepath"

	"github.com/socksup/socksup/internal/platform/threeproxy"
)

// Config is the socksup host provisioning configuration.
// Every field has a shipped default; an empty file is a valid config.
type Config struct {
	Proxy   ProxySpec   `yaml:"proxy,omitempty"`
	Network NetworkSpec `yaml:"network,omitempty"`
	Paths   PathsSpec   `yaml:"paths,omitempty"`
}

// ProxySpec configures the 3proxy build and the SOCKS5 listener.
type ProxySpec struct {
	// Version is the 3proxy release tag to download and build.
	Version string `yaml:"version,omitempty"`

	// DownloadURL is a printf template with one %s verb for the version.
	DownloadURL string `yaml:"download_url,omitempty"`

	// Port is the SOCKS5 listen port.
	Port int `yaml:"port,omitempty"`

	// Users names the two provisioned proxy accounts. Passwords are
	// generated fresh on every apply and surfaced exactly once.
	Users UserSpec `yaml:"users,omitempty"`

	// NServers are the two DNS resolvers written into the proxy config.
	NServers []string `yaml:"nservers,omitempty,flow"`
}

// UserSpec names the proxy accounts.
type UserSpec struct {
	Primary   string `yaml:"primary,omitempty"`
	Secondary string `yaml:"secondary,omitempty"`
}

// NetworkSpec configures ports and endpoints outside the proxy itself.
type NetworkSpec struct {
	// AdminPort is the SSH port kept open when the firewall is configured.
	AdminPort int `yaml:"admin_port,omitempty"`

	// CheckURL is the external endpoint used for the authenticated
	// round-trip check and the public address lookup.
	CheckURL string `yaml:"check_url,omitempty"`
}

// PathsSpec configures filesystem locations.
type PathsSpec struct {
	ConfigDir string `yaml:"config_dir,omitempty"`
	LogFile   string `yaml:"log_file,omitempty"`
	WorkDir   string `yaml:"work_dir,omitempty"`
}

// Default returns a Config populated with every shipped default.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills every empty field with its shipped default.
func (c *Config) ApplyDefaults() {
	if c.Proxy.Version == "" {
		c.Proxy.Version = threeproxy.Version
	}
	if c.Proxy.DownloadURL == "" {
		c.Proxy.DownloadURL = threeproxy.DownloadURLTemplate
	}
	if c.Proxy.Port == 0 {
		c.Proxy.Port = threeproxy.DefaultPort
	}
	if c.Proxy.Users.Primary == "" {
		c.Proxy.Users.Primary = threeproxy.DefaultPrimaryUser
	}
	if c.Proxy.Users.Secondary == "" {
		c.Proxy.Users.Secondary = threeproxy.DefaultSecondaryUser
	}
	if len(c.Proxy.NServers) == 0 {
		c.Proxy.NServers = append([]string(nil), threeproxy.DefaultNServers...)
	}
	if c.Network.AdminPort == 0 {
		c.Network.AdminPort = threeproxy.DefaultAdminPort
	}
	if c.Network.CheckURL == "" {
		c.Network.CheckURL = threeproxy.DefaultCheckURL
	}
	if c.Paths.ConfigDir == "" {
		c.Paths.ConfigDir = threeproxy.DefaultConfigDir
	}
	if c.Paths.LogFile == "" {
		c.Paths.LogFile = threeproxy.DefaultLogPath
	}
	if c.Paths.WorkDir == "" {
		c.Paths.WorkDir = threeproxy.DefaultWorkDir
	}
}

// ConfigFilePath returns the full path of the rendered proxy config.
func (c *Config) ConfigFilePath() string {
	return filepath.Join(c.Paths.ConfigDir, threeproxy.DefaultConfigFile)
}

// SourceURL returns the download URL with the version substituted.
func (c *Config) SourceURL() string {
	return fmt.Sprintf(c.Proxy.DownloadURL, c.Proxy.Version)
}

// SourceDir returns the directory the tarball extracts to under the
// work directory.
func (c *Config) SourceDir() string {
	return threeproxy.SourceDir(c.Paths.WorkDir, c.Proxy.Version)
}

// Usernames returns the account names in primary, secondary order.
func (c *Config) Usernames() []string {
	return []string{c.Proxy.Users.Primary, c.Proxy.Users.Secondary}
}

// ProxySettings maps the configuration onto renderer settings.
func (c *Config) ProxySettings() threeproxy.Settings {
	s := threeproxy.DefaultSettings()
	s.Port = c.Proxy.Port
	s.NServers = c.Proxy.NServers
	s.LogPath = c.Paths.LogFile
	return s
}
