// Package netutil provides network utility functions for port checking and network operations.
package netutil

import (
	"context"
	"fmt"
	"net"
	"time"
)

// dialTimeout bounds each individual connection probe.
const dialTimeout = 2 * time.Second

// PortOpen reports whether a TCP listener currently accepts connections on
// host:port. It performs a single dial, so a false result only means nothing
// accepted within the dial timeout.
func PortOpen(host string, port int) bool {
	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// WaitForPort waits for a TCP port to be open on the target host.
// It retries every 200ms until the port is accessible or the timeout is reached.
func WaitForPort(ctx context.Context, host string, port int, timeout time.Duration) error {
	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Check immediately before waiting for ticker
	if conn, err := net.DialTimeout("tcp", address, dialTimeout); err == nil {
		_ = conn.Close()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("timeout waiting for %s", address)
			}
			return ctx.Err()
		case <-ticker.C:
			conn, err := net.DialTimeout("tcp", address, dialTimeout)
			if err == nil {
				_ = conn.Close()
				return nil
			}
		}
	}
}

// WaitForPortClosed waits for a TCP port to stop accepting connections,
// which is how a terminated listener's socket release is observed.
func WaitForPortClosed(ctx context.Context, host string, port int, timeout time.Duration) error {
	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		if !PortOpen(host, port) {
			return nil
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("timeout waiting for %s to close", address)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
