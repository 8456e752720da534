package host

import (
	"context"
	"fmt"
)

// InstallPackages installs the given packages using the dialect selected by
// manager. apt runs non-interactively and refreshes the index first; yum
// resolves metadata on its own.
func (c *RealClient) InstallPackages(ctx context.Context, manager PackageManager, packages []string) error {
	if len(packages) == 0 {
		return nil
	}

	switch manager {
	case Apt:
		env := []string{"DEBIAN_FRONTEND=noninteractive"}
		if _, err := c.RunWithEnv(ctx, env, "apt-get", "update"); err != nil {
			return fmt.Errorf("apt-get update failed: %w", err)
		}
		args := append([]string{"install", "-y"}, packages...)
		if _, err := c.RunWithEnv(ctx, env, "apt-get", args...); err != nil {
			return fmt.Errorf("apt-get install failed: %w", err)
		}
		return nil
	case Yum:
		args := append([]string{"install", "-y"}, packages...)
		if _, err := c.Run(ctx, "yum", args...); err != nil {
			return fmt.Errorf("yum install failed: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported package manager %q", manager)
	}
}
