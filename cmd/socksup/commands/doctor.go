package commands

import (
	"github.com/spf13/cobra"

	"github.com/socksup/socksup/cmd/socksup/handlers"
)

// Doctor returns the command that reports the host's provisioning health.
func Doctor() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
		live       bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Report the proxy service's health on this host",
		Long: `Report the proxy service's health on this host.

doctor is read-only: it checks the platform, the build toolchain, the
installed binary, the configuration and unit files, the service state, and
the listening port, without changing anything.

With --live it additionally performs one authenticated round-trip through
the proxy, using the password recovered from the configuration file.

The exit code is non-zero when any required check fails.

Examples:
  socksup doctor
  socksup doctor --live
  socksup doctor --json | jq .checks`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath, jsonOutput, live)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: socksup.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")
	cmd.Flags().BoolVar(&live, "live", false, "Perform an authenticated round-trip through the proxy")

	return cmd
}
