package provisioning

import (
	"fmt"
	"strings"
)

// The error types below are the fatal outcomes of a provisioning run. Any
// of them aborts the pipeline immediately; none are retried. Non-fatal
// findings are recorded as Warnings on the State instead.

// UnsupportedPlatformError reports a host whose operating system or
// package manager cannot be provisioned.
type UnsupportedPlatformError struct {
	OS     string
	Reason string
}

func (e *UnsupportedPlatformError) Error() string {
	if e.OS == "" {
		return fmt.Sprintf("unsupported platform: %s", e.Reason)
	}
	return fmt.Sprintf("unsupported platform %q: %s", e.OS, e.Reason)
}

// DependencyInstallError reports a failed build toolchain installation.
type DependencyInstallError struct {
	Manager  string
	Packages []string
	Err      error
}

func (e *DependencyInstallError) Error() string {
	return fmt.Sprintf("installing %s via %s: %v", strings.Join(e.Packages, ", "), e.Manager, e.Err)
}

func (e *DependencyInstallError) Unwrap() error { return e.Err }

// DownloadError reports a failed source archive download.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloading %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// BuildError reports a failed compile of the downloaded source.
type BuildError struct {
	Dir string
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building in %s: %v", e.Dir, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// InstallError reports a failed install of the built artifact.
type InstallError struct {
	Dir string
	Err error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("installing from %s: %v", e.Dir, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// BinaryNotFoundError reports that no candidate install location holds
// the binary after a supposedly successful install.
type BinaryNotFoundError struct {
	Candidates []string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("binary not found at any of: %s", strings.Join(e.Candidates, ", "))
}

// ServiceStartError reports a service that failed to start or failed to
// reach the active state within the settle interval.
type ServiceStartError struct {
	Service string
	Status  string
	Err     error
}

func (e *ServiceStartError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed to start: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("service %s is %s after start; check journalctl -u %s", e.Service, e.Status, e.Service)
}

func (e *ServiceStartError) Unwrap() error { return e.Err }

// WarningKind classifies non-fatal findings.
type WarningKind string

const (
	// WarnPortConflict records listeners that had to be evicted from the
	// target port, or an eviction that did not fully free it.
	WarnPortConflict WarningKind = "port-conflict"

	// WarnFirewallUnavailable records that no supported firewall frontend
	// was found, or that configuring one failed.
	WarnFirewallUnavailable WarningKind = "firewall-unavailable"

	// WarnConnectivityTest records a failed authenticated round-trip
	// through the proxy. The service itself is confirmed running.
	WarnConnectivityTest WarningKind = "connectivity-test"
)

// Warning is a non-fatal finding recorded during a run. Warnings are
// surfaced in the final summary but never change the exit code.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
}
