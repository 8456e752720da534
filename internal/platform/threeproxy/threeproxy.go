package threeproxy

import (
	"fmt"
	"path/filepath"
)

// Version is the pinned 3proxy release built and installed by socksup.
const Version = "0.9.4"

// UnitName is the systemd service name, without the .service suffix.
const UnitName = "3proxy"

// MakefileName is the build descriptor shipped in the 3proxy source tree
// for Linux targets.
const MakefileName = "Makefile.Linux"

// DownloadURLTemplate is the source tarball location, with one %s verb
// for the release tag.
const DownloadURLTemplate = "https://github.com/3proxy/3proxy/archive/refs/tags/%s.tar.gz"

// Shipped defaults for paths and listeners. The configuration layer exposes
// all of them as overridable settings.
const (
	DefaultConfigDir  = "/etc/3proxy"
	DefaultConfigFile = "3proxy.cfg"
	DefaultLogPath    = "/var/log/3proxy.log"
	DefaultWorkDir    = "/tmp/3proxy-build"
	DefaultPort       = 1080
	DefaultAdminPort  = 22
	DefaultCheckURL   = "http://api.ipify.org"
)

// Default usernames for the two provisioned accounts.
const (
	DefaultPrimaryUser   = "admin"
	DefaultSecondaryUser = "backup"
)

// BinaryCandidates lists the locations a `make install` of 3proxy is known
// to place the binary, in probe order.
var BinaryCandidates = []string{
	"/usr/local/bin/3proxy",
	"/usr/local/3proxy/bin/3proxy",
}

// DefaultNServers are the resolvers written into the rendered configuration.
var DefaultNServers = []string{"1.1.1.1", "8.8.8.8"}

// DownloadURL returns the source tarball URL for a 3proxy release tag.
func DownloadURL(version string) string {
	return fmt.Sprintf(DownloadURLTemplate, version)
}

// SourceDir returns the directory the release tarball extracts to under
// workDir. GitHub archive tarballs unpack to <repo>-<tag>.
func SourceDir(workDir, version string) string {
	return filepath.Join(workDir, "3proxy-"+version)
}

// DefaultConfigPath returns the canonical config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir, DefaultConfigFile)
}
