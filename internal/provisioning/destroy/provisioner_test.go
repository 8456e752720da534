package destroy

import (
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socksup/socksup/internal/platform/threeproxy"
	testutil "github.com/socksup/socksup/internal/testing"
)

// provisionedFixture seeds a host as a successful apply leaves it: active
// unit holding the port, unit file, rendered config, binary, and log file.
func provisionedFixture() *testutil.HostFixture {
	fixture := testutil.NewHostFixture()
	h := fixture.Host()
	h.Units[threeproxy.UnitName] = threeproxy.Unit(threeproxy.BinaryCandidates[0], threeproxy.DefaultConfigPath())
	h.Enabled[threeproxy.UnitName] = true
	h.Active[threeproxy.UnitName] = true
	h.Listeners[threeproxy.DefaultPort] = []int{42}
	h.SetFile(threeproxy.BinaryCandidates[0], []byte("\x7fELF"), 0o755)
	h.SetFile(threeproxy.DefaultConfigPath(), []byte("daemon\n"), 0o600)
	h.SetFile(threeproxy.DefaultLogPath, []byte("log line\n"), 0o666)
	h.PortOnStart = threeproxy.DefaultPort
	return fixture
}

func TestName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "destroy", NewProvisioner().Name())
}

func TestProvisionRemovesEverything(t *testing.T) {
	t.Parallel()

	fixture := provisionedFixture()
	h := fixture.Host()
	ctx := testutil.NewPipelineContext(testutil.NewConfigBuilder().Build(), h, &testutil.RecordingObserver{})

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.False(t, h.Active[threeproxy.UnitName])
	assert.False(t, h.Enabled[threeproxy.UnitName])
	assert.NotContains(t, h.Units, threeproxy.UnitName)
	assert.Equal(t, 1, h.Reloads)
	assert.NotContains(t, h.Files, threeproxy.BinaryCandidates[0])
	assert.NotContains(t, h.Files, threeproxy.DefaultConfigPath())
	assert.NotContains(t, h.Files, threeproxy.DefaultLogPath)
	assert.Empty(t, h.Listeners[threeproxy.DefaultPort])
}

func TestProvisionKeepsLogsWhenAsked(t *testing.T) {
	t.Parallel()

	fixture := provisionedFixture()
	h := fixture.Host()
	ctx := testutil.NewPipelineContext(testutil.NewConfigBuilder().Build(), h, &testutil.RecordingObserver{})

	p := NewProvisioner()
	p.KeepLogs = true
	require.NoError(t, p.Provision(ctx))

	assert.Contains(t, h.Files, threeproxy.DefaultLogPath)
	assert.NotContains(t, h.Files, threeproxy.DefaultConfigPath())
}

func TestProvisionOnCleanHostIsNoop(t *testing.T) {
	t.Parallel()

	fixture := testutil.NewHostFixture()
	ctx := testutil.NewPipelineContext(testutil.NewConfigBuilder().Build(), fixture.Host(), &testutil.RecordingObserver{})

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Equal(t, 1, fixture.Host().Reloads)
}

func TestProvisionToleratesHeldPort(t *testing.T) {
	t.Parallel()

	// An unrelated process keeps the socket open after the unit stops.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	port := ln.Addr().(*net.TCPAddr).Port

	fixture := provisionedFixture()
	h := fixture.Host()
	observer := &testutil.RecordingObserver{}
	cfg := testutil.NewConfigBuilder().WithPort(port).Build()
	ctx := testutil.NewPipelineContext(cfg, h, observer)

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.NotContains(t, h.Units, threeproxy.UnitName)

	held := false
	for _, msg := range observer.Messages {
		if strings.Contains(msg, fmt.Sprintf("Port %d still in use", port)) {
			held = true
		}
	}
	assert.True(t, held, "a held port should be reported, not fatal")
}

func TestProvisionReportsPortReleased(t *testing.T) {
	t.Parallel()

	// Reserve a port number and release it so the drain wait succeeds.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	fixture := provisionedFixture()
	observer := &testutil.RecordingObserver{}
	cfg := testutil.NewConfigBuilder().WithPort(port).Build()
	ctx := testutil.NewPipelineContext(cfg, fixture.Host(), observer)

	require.NoError(t, NewProvisioner().Provision(ctx))

	released := false
	for _, msg := range observer.Messages {
		if strings.Contains(msg, fmt.Sprintf("Port %d released", port)) {
			released = true
		}
	}
	assert.True(t, released)
}
