package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/socksup/socksup/internal/util/retry"
)

const defaultProcRoot = "/proc"

// tcpListenState is the st column value procfs uses for LISTEN sockets.
const tcpListenState = "0A"

// PortInUse reports whether any socket is listening on the TCP port.
func (c *RealClient) PortInUse(port int) (bool, error) {
	inodes, err := c.listeningInodes(port)
	if err != nil {
		return false, err
	}
	return len(inodes) > 0, nil
}

// ListeningPIDs returns the processes owning listening sockets on the TCP
// port. Processes whose descriptors cannot be inspected are skipped.
func (c *RealClient) ListeningPIDs(port int) ([]int, error) {
	inodes, err := c.listeningInodes(port)
	if err != nil {
		return nil, err
	}
	if len(inodes) == 0 {
		return nil, nil
	}

	entries, err := os.ReadDir(c.procRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", c.procRoot, err)
	}

	var pids []int
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		fdDir := filepath.Join(c.procRoot, entry.Name(), "fd")
		fds, err := os.ReadDir(fdDir)
		if err != nil {
			continue
		}
		for _, fd := range fds {
			target, err := os.Readlink(filepath.Join(fdDir, fd.Name()))
			if err != nil {
				continue
			}
			if inode, ok := socketInode(target); ok && inodes[inode] {
				pids = append(pids, pid)
				break
			}
		}
	}

	return pids, nil
}

// Terminate delivers SIGTERM to each process, polls for exit within the
// grace period, and escalates to SIGKILL for survivors.
func (c *RealClient) Terminate(ctx context.Context, pids []int, grace time.Duration) error {
	self := os.Getpid()
	var targets []int
	for _, pid := range pids {
		if pid > 0 && pid != self {
			targets = append(targets, pid)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	for _, pid := range targets {
		_ = unix.Kill(pid, unix.SIGTERM)
	}

	// Fixed-interval poll for the grace period, then escalate.
	interval := grace / 10
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	err := retry.WithExponentialBackoff(ctx, func() error {
		for _, pid := range targets {
			if processAlive(pid) {
				return fmt.Errorf("pid %d still running", pid)
			}
		}
		return nil
	},
		retry.WithMaxRetries(10),
		retry.WithInitialDelay(interval),
		retry.WithMultiplier(1.0),
	)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, pid := range targets {
		if processAlive(pid) {
			_ = unix.Kill(pid, unix.SIGKILL)
		}
	}
	return nil
}

func processAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// listeningInodes collects the socket inodes listening on port from the
// procfs tcp and tcp6 tables.
func (c *RealClient) listeningInodes(port int) (map[uint64]bool, error) {
	inodes := make(map[uint64]bool)
	found := false

	for _, table := range []string{"net/tcp", "net/tcp6"} {
		data, err := os.ReadFile(filepath.Join(c.procRoot, table))
		if err != nil {
			continue
		}
		found = true
		for _, inode := range parseTCPTable(string(data), port) {
			inodes[inode] = true
		}
	}

	if !found {
		return nil, fmt.Errorf("no TCP socket tables under %s", c.procRoot)
	}
	return inodes, nil
}

// parseTCPTable extracts the inodes of LISTEN sockets bound to port from a
// procfs TCP table.
func parseTCPTable(data string, port int) []uint64 {
	var inodes []uint64

	lines := strings.Split(data, "\n")
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		fields := strings.Fields(line)
		if len(fields) < 10 {
			continue
		}

		if fields[3] != tcpListenState {
			continue
		}

		_, portHex, ok := strings.Cut(fields[1], ":")
		if !ok {
			continue
		}
		localPort, err := strconv.ParseUint(portHex, 16, 32)
		if err != nil || int(localPort) != port {
			continue
		}

		inode, err := strconv.ParseUint(fields[9], 10, 64)
		if err != nil {
			continue
		}
		inodes = append(inodes, inode)
	}

	return inodes
}

// socketInode parses a descriptor symlink target of the form
// "socket:[12345]".
func socketInode(target string) (uint64, bool) {
	rest, ok := strings.CutPrefix(target, "socket:[")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, "]")
	if !ok {
		return 0, false
	}
	inode, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return inode, true
}
