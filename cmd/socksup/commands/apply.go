package commands

import (
	"github.com/spf13/cobra"

	"github.com/socksup/socksup/cmd/socksup/handlers"
)

// Apply returns the command that runs the full provisioning pipeline.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect socksup.yaml)
//	--no-tui:     Disable the interactive dashboard, log line by line instead
//	--verbose:    Log every executed host command
func Apply() *cobra.Command {
	var (
		configPath string
		noTUI      bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Install, configure, and start the proxy service",
		Long: `Install, configure, and start the SOCKS5 proxy service.

This command runs the full provisioning pipeline on the local host: platform
detection, build toolchain install, port conflict clearing, source build and
install, configuration with freshly generated credentials, systemd unit
registration, firewall opening, service start, and a live verification
round-trip through the installed proxy.

Both account passwords are printed exactly once, at the end of the run. They
are stored nowhere but the generated proxy configuration file.

Re-running apply on a provisioned host succeeds and issues two brand-new
passwords, invalidating the previous pair.

If no config file is specified, it looks for socksup.yaml in the current
directory and falls back to the shipped defaults. Use 'socksup init' to
create a configuration file.

Examples:
  # Provision with defaults (port 1080, users admin/backup)
  socksup apply

  # Provision using a specific config file
  socksup apply -c production.yaml

  # Plain log output, for scripts and CI
  socksup apply --no-tui`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), handlers.ApplyOptions{
				ConfigPath: configPath,
				NoTUI:      noTUI,
				Verbose:    verbose,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: socksup.yaml)")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Disable the interactive dashboard")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log every executed host command")

	return cmd
}
