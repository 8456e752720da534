// Package host provides a wrapper around the local host facilities the
// provisioning pipeline drives: command execution, the filesystem, the
// package manager, systemd, the process table, and archive downloads.
package host

import (
	"context"
	"io/fs"
	"time"
)

// CommandRunner executes host commands and resolves executables.
type CommandRunner interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)
	// RunInDir executes a command with its working directory set to dir.
	RunInDir(ctx context.Context, dir, name string, args ...string) (string, error)
	// RunWithEnv executes a command with extra environment variables
	// appended to the inherited environment.
	RunWithEnv(ctx context.Context, extraEnv []string, name string, args ...string) (string, error)
	// LookPath reports where name resolves on the executable search path.
	LookPath(name string) (string, error)
}

// FileSystem mutates and inspects the host filesystem.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the file content in a single whole-file write.
	WriteFile(path string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Remove(path string) error
	RemoveAll(path string) error
	Chmod(path string, perm fs.FileMode) error
	Stat(path string) (fs.FileInfo, error)
}

// PackageInstaller installs distribution packages.
type PackageInstaller interface {
	// InstallPackages installs the given packages using the dialect selected
	// by manager. The contract with the underlying tool is exit status only.
	InstallPackages(ctx context.Context, manager PackageManager, packages []string) error
}

// ServiceManager drives the init system's unit operations.
type ServiceManager interface {
	// WriteUnit persists the unit definition for name (without the
	// ".service" suffix). Re-writing identical content is a no-op in effect.
	WriteUnit(name, text string) error
	RemoveUnit(name string) error
	UnitPath(name string) string
	DaemonReload(ctx context.Context) error
	Enable(ctx context.Context, unit string) error
	Disable(ctx context.Context, unit string) error
	Start(ctx context.Context, unit string) error
	Stop(ctx context.Context, unit string) error
	// IsActive reports whether the unit is in the "active" state.
	IsActive(ctx context.Context, unit string) (bool, error)
}

// ProcessController inspects and clears TCP listeners.
type ProcessController interface {
	// PortInUse reports whether any socket is listening on the TCP port.
	PortInUse(port int) (bool, error)
	// ListeningPIDs returns the processes owning listening sockets on the
	// TCP port. PIDs the caller may not inspect are silently skipped.
	ListeningPIDs(port int) ([]int, error)
	// Terminate delivers SIGTERM to each process, polls for exit within the
	// grace period, and escalates to SIGKILL for survivors. The current
	// process is never signalled.
	Terminate(ctx context.Context, pids []int, grace time.Duration) error
}

// Downloader fetches and unpacks source archives.
type Downloader interface {
	// Download fetches url into dest. Any transport failure or non-200
	// response is an error.
	Download(ctx context.Context, url, dest string) error
	// ExtractTarGz unpacks a gzip-compressed tarball under destDir,
	// rejecting entries that escape it.
	ExtractTarGz(archive, destDir string) error
}

// Manager combines all host facilities the pipeline drives.
type Manager interface {
	CommandRunner
	FileSystem
	PackageInstaller
	ServiceManager
	ProcessController
	Downloader
}
