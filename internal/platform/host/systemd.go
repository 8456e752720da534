package host

import (
	"context"
	"path/filepath"
	"strings"
)

const defaultUnitDir = "/etc/systemd/system"

// UnitPath returns the path of the unit file for name.
func (c *RealClient) UnitPath(name string) string {
	return filepath.Join(c.unitDir, name+".service")
}

// WriteUnit persists the unit definition for name.
func (c *RealClient) WriteUnit(name, text string) error {
	return c.WriteFile(c.UnitPath(name), []byte(text), 0o644)
}

// RemoveUnit deletes the unit file for name.
func (c *RealClient) RemoveUnit(name string) error {
	return c.Remove(c.UnitPath(name))
}

// DaemonReload asks systemd to re-read its unit index.
func (c *RealClient) DaemonReload(ctx context.Context) error {
	_, err := c.Run(ctx, "systemctl", "daemon-reload")
	return err
}

// Enable marks the unit for start at boot.
func (c *RealClient) Enable(ctx context.Context, unit string) error {
	_, err := c.Run(ctx, "systemctl", "enable", unit)
	return err
}

// Disable removes the unit from the boot sequence.
func (c *RealClient) Disable(ctx context.Context, unit string) error {
	_, err := c.Run(ctx, "systemctl", "disable", unit)
	return err
}

// Start starts the unit.
func (c *RealClient) Start(ctx context.Context, unit string) error {
	_, err := c.Run(ctx, "systemctl", "start", unit)
	return err
}

// Stop stops the unit.
func (c *RealClient) Stop(ctx context.Context, unit string) error {
	_, err := c.Run(ctx, "systemctl", "stop", unit)
	return err
}

// IsActive reports whether the unit is in the "active" state. systemctl
// prints the state and exits non-zero for anything but active, so the
// output decides and the exit status is only surfaced when nothing was
// printed at all.
func (c *RealClient) IsActive(ctx context.Context, unit string) (bool, error) {
	output, err := c.Run(ctx, "systemctl", "is-active", unit)
	state := strings.TrimSpace(output)
	if state == "active" {
		return true, nil
	}
	if state != "" {
		return false, nil
	}
	return false, err
}
