// Package fakes provides an in-memory host.Manager for exercising the
// provisioning pipeline without touching a real system.
package fakes

import (
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/socksup/socksup/internal/platform/host"
)

// Command records one Run, RunInDir, or RunWithEnv invocation.
type Command struct {
	Dir  string
	Env  []string
	Name string
	Args []string
}

// Line returns the command as a single space-joined string.
func (c Command) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Install records one InstallPackages invocation.
type Install struct {
	Manager  host.PackageManager
	Packages []string
}

// FakeHost simulates host.Manager. State fields are exported so tests can
// seed them before a run and inspect them afterward; the mutex keeps the
// helpers safe to call from a Hook while a pipeline is executing.
type FakeHost struct {
	mu sync.Mutex

	// Filesystem.
	Files map[string][]byte
	Modes map[string]fs.FileMode
	Dirs  map[string]bool

	// Commands.
	Commands    []Command
	Outputs     map[string]string
	CommandErrs map[string]error
	Binaries    map[string]string
	// Hook runs after each recorded command, outside the lock, so tests
	// can simulate side effects such as `make install` placing a binary.
	Hook func(Command)

	// Packages.
	Installed  []Install
	InstallErr error

	// Services. PortOnStart, when set, makes a successful Start register a
	// listener on that port owned by ProxyPID, and Stop release it.
	Units       map[string]string
	Enabled     map[string]bool
	Active      map[string]bool
	Reloads     int
	PortOnStart int
	StartErr    error
	StopErr     error
	EnableErr   error
	DisableErr  error
	ReloadErr   error
	StatusErr   error
	// StartStalls makes Start report success while the unit never
	// reaches the active state, like a daemon that exits at startup.
	StartStalls bool

	// Processes.
	Listeners    map[int][]int
	Terminated   [][]int
	TerminateErr error

	// Downloads.
	Archives    map[string][]byte
	Extracted   []string
	DownloadErr error
	ExtractErr  error
}

// ProxyPID is the PID the fake assigns to the daemon started by Start.
const ProxyPID = 4242

var _ host.Manager = (*FakeHost)(nil)

// NewFakeHost returns a FakeHost with all state maps initialized.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		Files:       make(map[string][]byte),
		Modes:       make(map[string]fs.FileMode),
		Dirs:        make(map[string]bool),
		Outputs:     make(map[string]string),
		CommandErrs: make(map[string]error),
		Binaries:    make(map[string]string),
		Units:       make(map[string]string),
		Enabled:     make(map[string]bool),
		Active:      make(map[string]bool),
		Listeners:   make(map[int][]int),
		Archives:    make(map[string][]byte),
	}
}

// SetFile seeds a file with the given content and mode.
func (f *FakeHost) SetFile(path string, data []byte, mode fs.FileMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Files[path] = append([]byte(nil), data...)
	f.Modes[path] = mode
	f.markDirs(filepath.Dir(path))
}

// SetDir seeds a directory and its parents.
func (f *FakeHost) SetDir(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markDirs(path)
}

// SetBinary seeds a LookPath resolution for name.
func (f *FakeHost) SetBinary(name, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Binaries[name] = path
}

// SetListener seeds listening processes on a TCP port.
func (f *FakeHost) SetListener(port int, pids ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Listeners[port] = append([]int(nil), pids...)
}

// CommandLines returns every recorded command as a space-joined line.
func (f *FakeHost) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.Commands))
	for i, c := range f.Commands {
		lines[i] = c.Line()
	}
	return lines
}

func (f *FakeHost) markDirs(path string) {
	for p := path; p != "/" && p != "." && p != ""; p = filepath.Dir(p) {
		f.Dirs[p] = true
	}
}

func (f *FakeHost) command(dir string, env []string, name string, args ...string) (string, error) {
	f.mu.Lock()
	cmd := Command{Dir: dir, Env: env, Name: name, Args: args}
	f.Commands = append(f.Commands, cmd)
	line := cmd.Line()
	out, ok := f.Outputs[line]
	if !ok {
		out = f.Outputs[name]
	}
	err, ok := f.CommandErrs[line]
	if !ok {
		err = f.CommandErrs[name]
	}
	hook := f.Hook
	f.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}
	if err != nil {
		return out, &host.CommandError{Name: name, Args: args, Output: out, Err: err}
	}
	return out, nil
}

// Run executes a scripted command.
func (f *FakeHost) Run(ctx context.Context, name string, args ...string) (string, error) {
	return f.command("", nil, name, args...)
}

// RunInDir executes a scripted command, recording the working directory.
func (f *FakeHost) RunInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	return f.command(dir, nil, name, args...)
}

// RunWithEnv executes a scripted command, recording the extra environment.
func (f *FakeHost) RunWithEnv(ctx context.Context, extraEnv []string, name string, args ...string) (string, error) {
	return f.command("", extraEnv, name, args...)
}

// LookPath resolves name against the seeded Binaries map.
func (f *FakeHost) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path, ok := f.Binaries[name]; ok {
		return path, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// ReadFile returns seeded file content.
func (f *FakeHost) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.Files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// WriteFile stores file content and its mode.
func (f *FakeHost) WriteFile(path string, data []byte, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Files[path] = append([]byte(nil), data...)
	f.Modes[path] = perm
	f.markDirs(filepath.Dir(path))
	return nil
}

// MkdirAll marks the directory and its parents as existing.
func (f *FakeHost) MkdirAll(path string, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markDirs(path)
	f.Modes[path] = perm | fs.ModeDir
	return nil
}

// Remove deletes a single file or empty directory.
func (f *FakeHost) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Files[path]; ok {
		delete(f.Files, path)
		delete(f.Modes, path)
		return nil
	}
	if f.Dirs[path] {
		delete(f.Dirs, path)
		delete(f.Modes, path)
		return nil
	}
	return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
}

// RemoveAll deletes the path and everything beneath it.
func (f *FakeHost) RemoveAll(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(path, "/") + "/"
	for p := range f.Files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(f.Files, p)
			delete(f.Modes, p)
		}
	}
	for p := range f.Dirs {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(f.Dirs, p)
			delete(f.Modes, p)
		}
	}
	return nil
}

// Chmod updates the recorded mode of an existing path.
func (f *FakeHost) Chmod(path string, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Files[path]; ok {
		f.Modes[path] = perm
		return nil
	}
	if f.Dirs[path] {
		f.Modes[path] = perm | fs.ModeDir
		return nil
	}
	return &fs.PathError{Op: "chmod", Path: path, Err: fs.ErrNotExist}
}

// Stat reports a synthetic FileInfo for a seeded file or directory.
func (f *FakeHost) Stat(path string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if data, ok := f.Files[path]; ok {
		mode, ok := f.Modes[path]
		if !ok {
			mode = 0o644
		}
		return fileInfo{name: filepath.Base(path), size: int64(len(data)), mode: mode}, nil
	}
	if f.Dirs[path] {
		mode, ok := f.Modes[path]
		if !ok {
			mode = 0o755 | fs.ModeDir
		}
		return fileInfo{name: filepath.Base(path), mode: mode | fs.ModeDir}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

// InstallPackages records the install request.
func (f *FakeHost) InstallPackages(ctx context.Context, manager host.PackageManager, packages []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Installed = append(f.Installed, Install{Manager: manager, Packages: append([]string(nil), packages...)})
	return f.InstallErr
}

// WriteUnit stores the unit definition.
func (f *FakeHost) WriteUnit(name, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Units[name] = text
	return nil
}

// RemoveUnit deletes the unit definition.
func (f *FakeHost) RemoveUnit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Units[name]; !ok {
		return &fs.PathError{Op: "remove", Path: f.unitPath(name), Err: fs.ErrNotExist}
	}
	delete(f.Units, name)
	return nil
}

// UnitPath returns the path the unit definition would occupy.
func (f *FakeHost) UnitPath(name string) string {
	return f.unitPath(name)
}

func (f *FakeHost) unitPath(name string) string {
	return filepath.Join("/etc/systemd/system", name+".service")
}

// DaemonReload counts reload requests.
func (f *FakeHost) DaemonReload(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reloads++
	return f.ReloadErr
}

// Enable marks the unit enabled.
func (f *FakeHost) Enable(ctx context.Context, unit string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EnableErr != nil {
		return f.EnableErr
	}
	f.Enabled[unit] = true
	return nil
}

// Disable marks the unit disabled.
func (f *FakeHost) Disable(ctx context.Context, unit string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DisableErr != nil {
		return f.DisableErr
	}
	f.Enabled[unit] = false
	return nil
}

// Start activates the unit and, when PortOnStart is set, registers the
// daemon's listener. With StartStalls the call succeeds but the unit stays
// inactive.
func (f *FakeHost) Start(ctx context.Context, unit string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StartErr != nil {
		return f.StartErr
	}
	if f.StartStalls {
		f.Active[unit] = false
		return nil
	}
	f.Active[unit] = true
	if f.PortOnStart != 0 {
		f.Listeners[f.PortOnStart] = []int{ProxyPID}
	}
	return nil
}

// Stop deactivates the unit and releases the daemon's listener.
func (f *FakeHost) Stop(ctx context.Context, unit string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StopErr != nil {
		return f.StopErr
	}
	f.Active[unit] = false
	if f.PortOnStart != 0 {
		delete(f.Listeners, f.PortOnStart)
	}
	return nil
}

// IsActive reports the unit's seeded active state.
func (f *FakeHost) IsActive(ctx context.Context, unit string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StatusErr != nil {
		return false, f.StatusErr
	}
	return f.Active[unit], nil
}

// PortInUse reports whether any seeded process listens on the port.
func (f *FakeHost) PortInUse(port int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Listeners[port]) > 0, nil
}

// ListeningPIDs returns the seeded listeners on the port.
func (f *FakeHost) ListeningPIDs(port int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.Listeners[port]...), nil
}

// Terminate records the request and removes the PIDs from every port.
func (f *FakeHost) Terminate(ctx context.Context, pids []int, grace time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Terminated = append(f.Terminated, append([]int(nil), pids...))
	if f.TerminateErr != nil {
		return f.TerminateErr
	}
	doomed := make(map[int]bool, len(pids))
	for _, pid := range pids {
		doomed[pid] = true
	}
	for port, owners := range f.Listeners {
		var kept []int
		for _, pid := range owners {
			if !doomed[pid] {
				kept = append(kept, pid)
			}
		}
		if len(kept) == 0 {
			delete(f.Listeners, port)
		} else {
			f.Listeners[port] = kept
		}
	}
	return nil
}

// Download writes the archive registered for url to dest.
func (f *FakeHost) Download(ctx context.Context, url, dest string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DownloadErr != nil {
		return f.DownloadErr
	}
	data, ok := f.Archives[url]
	if !ok {
		return fmt.Errorf("GET %s: no archive registered", url)
	}
	f.Files[dest] = append([]byte(nil), data...)
	f.Modes[dest] = 0o644
	f.markDirs(filepath.Dir(dest))
	return nil
}

// ExtractTarGz records the extraction and marks destDir as existing.
func (f *FakeHost) ExtractTarGz(archive, destDir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ExtractErr != nil {
		return f.ExtractErr
	}
	if _, ok := f.Files[archive]; !ok {
		return &fs.PathError{Op: "open", Path: archive, Err: fs.ErrNotExist}
	}
	f.Extracted = append(f.Extracted, destDir)
	f.markDirs(destDir)
	return nil
}

type fileInfo struct {
	name string
	size int64
	mode fs.FileMode
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi fileInfo) ModTime() time.Time { return time.Time{} }
func (fi fileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi fileInfo) Sys() any           { return nil }
