package host

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

// RealClient implements Manager against the running host: commands through
// os/exec, files through the os package, listeners through procfs.
type RealClient struct {
	unitDir  string
	procRoot string
	logf     func(format string, v ...any)
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithUnitDir overrides the systemd unit directory. Used by tests to keep
// unit files inside a scratch directory.
func WithUnitDir(dir string) ClientOption {
	return func(c *RealClient) {
		c.unitDir = dir
	}
}

// WithProcRoot overrides the procfs mount point. Used by tests to point the
// listener scan at a fixture tree.
func WithProcRoot(dir string) ClientOption {
	return func(c *RealClient) {
		c.procRoot = dir
	}
}

// WithCommandLog logs every executed command line through logf. Used by the
// CLI's verbose mode.
func WithCommandLog(logf func(format string, v ...any)) ClientOption {
	return func(c *RealClient) {
		c.logf = logf
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(opts ...ClientOption) *RealClient {
	c := &RealClient{
		unitDir:  defaultUnitDir,
		procRoot: defaultProcRoot,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes a command and returns its combined output.
func (c *RealClient) Run(ctx context.Context, name string, args ...string) (string, error) {
	return c.run(ctx, "", nil, name, args...)
}

// RunInDir executes a command with its working directory set to dir.
func (c *RealClient) RunInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	return c.run(ctx, dir, nil, name, args...)
}

// RunWithEnv executes a command with extra environment variables appended to
// the inherited environment.
func (c *RealClient) RunWithEnv(ctx context.Context, extraEnv []string, name string, args ...string) (string, error) {
	return c.run(ctx, "", extraEnv, name, args...)
}

func (c *RealClient) run(ctx context.Context, dir string, extraEnv []string, name string, args ...string) (string, error) {
	// #nosec G204 - command names and arguments come from fixed facility
	// definitions, not user input
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if c.logf != nil {
		c.logf("exec: %s", strings.Join(append([]string{name}, args...), " "))
	}
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), &CommandError{Name: name, Args: args, Output: string(output), Err: err}
	}
	return string(output), nil
}

// LookPath reports where name resolves on the executable search path.
func (c *RealClient) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// ReadFile reads the named file.
func (c *RealClient) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces the file content in a single whole-file write.
func (c *RealClient) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// MkdirAll creates the directory and any missing parents.
func (c *RealClient) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes the named file.
func (c *RealClient) Remove(path string) error {
	return os.Remove(path)
}

// RemoveAll removes the path and anything below it.
func (c *RealClient) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Chmod changes the file mode.
func (c *RealClient) Chmod(path string, perm fs.FileMode) error {
	return os.Chmod(path, perm)
}

// Stat returns file info for the path.
func (c *RealClient) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}
