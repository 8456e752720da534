// Package host wraps the local host facilities the provisioning pipeline
// drives, behind narrow interfaces so every facility can be mocked or faked
// in tests.
//
// The package is organized into facility-specific modules:
//
//   - client.go: facility interfaces and the combined Manager interface
//   - real_client.go: RealClient construction, command execution, filesystem
//   - profile.go: OS identification and package-manager dialect selection
//   - pkgmgr.go: apt/yum package installation
//   - systemd.go: unit file persistence and systemctl operations
//   - process.go: TCP listener discovery via procfs and process termination
//   - download.go: archive download and tar.gz extraction
//   - errors.go: command failure classification
//
// RealClient assumes a Linux host with systemd; everything it shells out to
// (systemctl, apt-get/yum, firewall frontends) is resolved from PATH at call
// time. Tests point it at scratch directories via WithUnitDir and
// WithProcRoot instead of stubbing the OS.
package host
