package testing

import (
	"context"
	"errors"
	"time"

	"github.com/socksup/socksup/internal/config"
	"github.com/socksup/socksup/internal/platform/host"
	"github.com/socksup/socksup/internal/platform/host/fakes"
	"github.com/socksup/socksup/internal/platform/threeproxy"
	"github.com/socksup/socksup/internal/provisioning"
)

const debianOSRelease = "ID=debian\nVERSION_ID=\"12\"\nPRETTY_NAME=\"Debian GNU/Linux 12 (bookworm)\"\n"

// HostFixture pre-configures a fake host for common pipeline scenarios.
type HostFixture struct {
	host *fakes.FakeHost
}

// NewHostFixture returns a Debian host with the full build toolchain on the
// search path, the proxy port free, systemd and ufw available, the pinned
// source archive reachable, and a `make install` that places the binary at
// its first candidate location.
func NewHostFixture() *HostFixture {
	h := fakes.NewFakeHost()
	h.SetFile("/etc/os-release", []byte(debianOSRelease), 0o644)
	for name, path := range map[string]string{
		"gcc":       "/usr/bin/gcc",
		"make":      "/usr/bin/make",
		"wget":      "/usr/bin/wget",
		"tar":       "/usr/bin/tar",
		"systemctl": "/usr/bin/systemctl",
		"ufw":       "/usr/sbin/ufw",
	} {
		h.SetBinary(name, path)
	}
	h.PortOnStart = threeproxy.DefaultPort
	h.Archives[threeproxy.DownloadURL(threeproxy.Version)] = []byte("source tarball")
	h.Hook = func(cmd fakes.Command) {
		if cmd.Name == "make" && len(cmd.Args) > 0 && cmd.Args[len(cmd.Args)-1] == "install" {
			h.SetFile(threeproxy.BinaryCandidates[0], []byte("\x7fELF"), 0o755)
		}
	}
	return &HostFixture{host: h}
}

// Host returns the underlying fake for custom seeding and inspection.
func (f *HostFixture) Host() *fakes.FakeHost {
	return f.host
}

// HoldPort seeds a listener on the default proxy port, as an unrelated
// process would.
func (f *HostFixture) HoldPort(pid int) *HostFixture {
	f.host.SetListener(threeproxy.DefaultPort, pid)
	return f
}

// MissingToolchain removes the build tools from the search path so the
// dependency resolver has to install them.
func (f *HostFixture) MissingToolchain() *HostFixture {
	for _, name := range []string{"gcc", "make", "wget", "tar"} {
		delete(f.host.Binaries, name)
	}
	return f
}

// NoFirewall removes every firewall frontend from the search path.
func (f *HostFixture) NoFirewall() *HostFixture {
	for _, name := range []string{"ufw", "firewall-cmd", "iptables"} {
		delete(f.host.Binaries, name)
	}
	return f
}

// FailDownload makes the source archive unreachable.
func (f *HostFixture) FailDownload() *HostFixture {
	f.host.DownloadErr = errors.New("dial tcp: network is unreachable")
	return f
}

// StallService makes service starts succeed while the unit never reaches
// the active state, like a daemon that exits right after forking.
func (f *HostFixture) StallService() *HostFixture {
	f.host.StartStalls = true
	return f
}

// CentOS swaps the OS identification to a yum-based platform.
func (f *HostFixture) CentOS() *HostFixture {
	f.host.SetFile("/etc/os-release", []byte("ID=\"centos\"\nVERSION_ID=\"9\"\n"), 0o644)
	return f
}

// FastTimeouts returns settle intervals short enough for tests.
func FastTimeouts() *config.Timeouts {
	return &config.Timeouts{
		PortSettle:        time.Millisecond,
		ServiceSettle:     time.Millisecond,
		StopGrace:         time.Millisecond,
		Verify:            2 * time.Second,
		RetryMaxAttempts:  2,
		RetryInitialDelay: time.Millisecond,
	}
}

// NewPipelineContext assembles a provisioning context over the given host
// with fast settle intervals, suitable for driving phases directly.
func NewPipelineContext(cfg *config.Config, h host.Manager, observer provisioning.Observer) *provisioning.Context {
	return &provisioning.Context{
		Context:  context.Background(),
		Config:   cfg,
		State:    provisioning.NewState(),
		Host:     h,
		Observer: observer,
		Timeouts: FastTimeouts(),
	}
}
