package commands

import (
	"github.com/spf13/cobra"

	"github.com/socksup/socksup/cmd/socksup/handlers"
)

// Destroy returns the command that removes the proxy service from the host.
func Destroy() *cobra.Command {
	var (
		configPath string
		force      bool
		keepLogs   bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Remove the proxy service and its files from this host",
		Long: `Remove the proxy service and its files from this host.

This stops and disables the systemd unit, deletes the unit file, removes the
configuration directory and the installed binaries, and waits for the listen
port to be released. The log file is removed too unless --keep-logs is set.

Removing the configuration deletes the only durable record of the account
passwords.

Example:
  socksup destroy --keep-logs

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), handlers.DestroyOptions{
				ConfigPath: configPath,
				Force:      force,
				KeepLogs:   keepLogs,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: socksup.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&keepLogs, "keep-logs", false, "Preserve the proxy log file")

	return cmd
}
