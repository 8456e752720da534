package host

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tcpFixtureHeader = "  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode\n"

func tcpFixtureRow(port int, state string, inode uint64) string {
	return fmt.Sprintf("   0: 00000000:%04X 00000000:0000 %s 00000000:00000000 00:00000000 00000000     0        0 %d 1 0000000000000000\n",
		port, state, inode)
}

func TestParseTCPTable(t *testing.T) {
	t.Parallel()

	data := tcpFixtureHeader +
		tcpFixtureRow(1080, "0A", 999) +
		tcpFixtureRow(1080, "01", 1000) + // established, not listening
		tcpFixtureRow(22, "0A", 1001)

	inodes := parseTCPTable(data, 1080)
	require.Len(t, inodes, 1)
	assert.Equal(t, uint64(999), inodes[0])

	assert.Empty(t, parseTCPTable(data, 8080))
	assert.Len(t, parseTCPTable(data, 22), 1)
}

func TestSocketInode(t *testing.T) {
	t.Parallel()

	inode, ok := socketInode("socket:[12345]")
	require.True(t, ok)
	assert.Equal(t, uint64(12345), inode)

	_, ok = socketInode("pipe:[999]")
	assert.False(t, ok)
	_, ok = socketInode("socket:[bad]")
	assert.False(t, ok)
	_, ok = socketInode("/dev/null")
	assert.False(t, ok)
}

func fixtureProc(t *testing.T, port int, inode uint64, pid int) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "net"), 0o755))
	table := tcpFixtureHeader + tcpFixtureRow(port, "0A", inode)
	require.NoError(t, os.WriteFile(filepath.Join(root, "net", "tcp"), []byte(table), 0o644))

	fdDir := filepath.Join(root, fmt.Sprintf("%d", pid), "fd")
	require.NoError(t, os.MkdirAll(fdDir, 0o755))
	require.NoError(t, os.Symlink(fmt.Sprintf("socket:[%d]", inode), filepath.Join(fdDir, "3")))

	return root
}

func TestListeningPIDs(t *testing.T) {
	t.Parallel()

	root := fixtureProc(t, 1080, 4242, 777)
	client := NewRealClient(WithProcRoot(root))

	pids, err := client.ListeningPIDs(1080)
	require.NoError(t, err)
	assert.Equal(t, []int{777}, pids)

	pids, err = client.ListeningPIDs(9999)
	require.NoError(t, err)
	assert.Empty(t, pids)
}

func TestPortInUse(t *testing.T) {
	t.Parallel()

	root := fixtureProc(t, 1080, 4242, 777)
	client := NewRealClient(WithProcRoot(root))

	busy, err := client.PortInUse(1080)
	require.NoError(t, err)
	assert.True(t, busy)

	busy, err = client.PortInUse(1081)
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestPortInUseNoTables(t *testing.T) {
	t.Parallel()

	client := NewRealClient(WithProcRoot(t.TempDir()))
	_, err := client.PortInUse(1080)
	assert.Error(t, err)
}

func TestTerminate(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	client := NewRealClient()
	require.NoError(t, client.Terminate(context.Background(), []int{pid}, time.Second))

	select {
	case <-done:
		// exited, as expected
	case <-time.After(5 * time.Second):
		t.Fatal("process survived Terminate")
	}
	assert.False(t, processAlive(pid))
}

func TestTerminateSkipsSelf(t *testing.T) {
	t.Parallel()

	client := NewRealClient()
	require.NoError(t, client.Terminate(context.Background(), []int{os.Getpid(), 0, -1}, 100*time.Millisecond))
	// Still running, so the self PID was skipped.
}
