package config

import (
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if warnings := cfg.Warnings(); len(warnings) != 0 {
		t.Errorf("Default() produced warnings: %v", warnings)
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Proxy.Version != "0.9.4" {
		t.Errorf("Proxy.Version = %q, want %q", cfg.Proxy.Version, "0.9.4")
	}
	if cfg.Proxy.DownloadURL != "https://github.com/3proxy/3proxy/archive/refs/tags/%s.tar.gz" {
		t.Errorf("Proxy.DownloadURL = %q", cfg.Proxy.DownloadURL)
	}
	if cfg.Proxy.Port != 1080 {
		t.Errorf("Proxy.Port = %d, want %d", cfg.Proxy.Port, 1080)
	}
	if cfg.Proxy.Users.Primary != "admin" || cfg.Proxy.Users.Secondary != "backup" {
		t.Errorf("Users = %+v, want admin/backup", cfg.Proxy.Users)
	}
	if len(cfg.Proxy.NServers) != 2 || cfg.Proxy.NServers[0] != "1.1.1.1" || cfg.Proxy.NServers[1] != "8.8.8.8" {
		t.Errorf("NServers = %v", cfg.Proxy.NServers)
	}
	if cfg.Network.AdminPort != 22 {
		t.Errorf("Network.AdminPort = %d, want %d", cfg.Network.AdminPort, 22)
	}
	if cfg.Network.CheckURL != "http://api.ipify.org" {
		t.Errorf("Network.CheckURL = %q", cfg.Network.CheckURL)
	}
	if cfg.Paths.ConfigDir != "/etc/3proxy" {
		t.Errorf("Paths.ConfigDir = %q", cfg.Paths.ConfigDir)
	}
	if cfg.Paths.LogFile != "/var/log/3proxy.log" {
		t.Errorf("Paths.LogFile = %q", cfg.Paths.LogFile)
	}
	if cfg.Paths.WorkDir != "/tmp/3proxy-build" {
		t.Errorf("Paths.WorkDir = %q", cfg.Paths.WorkDir)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	t.Parallel()
	cfg := &Config{}
	cfg.Proxy.Port = 9999
	cfg.Paths.WorkDir = "/var/tmp/3proxy-src"
	cfg.ApplyDefaults()

	if cfg.Proxy.Port != 9999 {
		t.Errorf("Proxy.Port = %d, want %d", cfg.Proxy.Port, 9999)
	}
	if cfg.Paths.WorkDir != "/var/tmp/3proxy-src" {
		t.Errorf("Paths.WorkDir = %q", cfg.Paths.WorkDir)
	}
}

func TestConfigFilePath(t *testing.T) {
	t.Parallel()
	cfg := Default()
	if got := cfg.ConfigFilePath(); got != "/etc/3proxy/3proxy.cfg" {
		t.Errorf("ConfigFilePath() = %q", got)
	}

	cfg.Paths.ConfigDir = "/opt/proxy"
	if got := cfg.ConfigFilePath(); got != "/opt/proxy/3proxy.cfg" {
		t.Errorf("ConfigFilePath() = %q", got)
	}
}

func TestSourceURL(t *testing.T) {
	t.Parallel()
	cfg := Default()
	want := "https://github.com/3proxy/3proxy/archive/refs/tags/0.9.4.tar.gz"
	if got := cfg.SourceURL(); got != want {
		t.Errorf("SourceURL() = %q, want %q", got, want)
	}
}

func TestSourceDir(t *testing.T) {
	t.Parallel()
	cfg := Default()
	if got := cfg.SourceDir(); got != "/tmp/3proxy-build/3proxy-0.9.4" {
		t.Errorf("SourceDir() = %q", got)
	}
}

func TestUsernames(t *testing.T) {
	t.Parallel()
	cfg := Default()
	names := cfg.Usernames()
	if len(names) != 2 || names[0] != "admin" || names[1] != "backup" {
		t.Errorf("Usernames() = %v", names)
	}
}

func TestProxySettings(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Proxy.Port = 3128
	cfg.Paths.LogFile = "/var/log/proxy.log"

	s := cfg.ProxySettings()
	if s.Port != 3128 {
		t.Errorf("Settings.Port = %d, want %d", s.Port, 3128)
	}
	if s.LogPath != "/var/log/proxy.log" {
		t.Errorf("Settings.LogPath = %q", s.LogPath)
	}
	if s.NSCache != 65536 {
		t.Errorf("Settings.NSCache = %d, want %d", s.NSCache, 65536)
	}
	if s.Timeouts != "1 5 30 60 180 1800 15" {
		t.Errorf("Settings.Timeouts = %q", s.Timeouts)
	}
}
