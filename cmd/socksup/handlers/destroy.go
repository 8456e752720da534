package handlers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/socksup/socksup/internal/provisioning"
	"github.com/socksup/socksup/internal/provisioning/destroy"
)

// confirmDestroy asks for interactive confirmation. Replaced in tests.
var confirmDestroy = func(ctx context.Context) (bool, error) {
	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Remove the proxy service and all its files?").
			Description("The account passwords are only stored in the removed config and cannot be recovered.").
			Value(&confirmed),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}
	return confirmed, nil
}

// DestroyOptions holds the flags of the destroy command.
type DestroyOptions struct {
	ConfigPath string
	Force      bool
	KeepLogs   bool
}

// Destroy handles the destroy command: stop and disable the service, remove
// the unit, and delete the installed files. A clean host is a no-op.
func Destroy(ctx context.Context, opts DestroyOptions) error {
	if !opts.Force {
		confirmed, err := confirmDestroy(ctx)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted, nothing removed.")
			return nil
		}
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	pctx := provisioning.NewContext(ctx, cfg, newHostManager(false))
	phases := []provisioning.Phase{
		&destroy.Provisioner{KeepLogs: opts.KeepLogs},
	}
	if err := provisioning.RunPhases(pctx, phases); err != nil {
		return err
	}

	fmt.Println("Proxy service removed.")
	return nil
}
