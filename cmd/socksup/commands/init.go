package commands

import (
	"github.com/spf13/cobra"

	"github.com/socksup/socksup/cmd/socksup/handlers"
)

// Init returns the command that creates a socksup.yaml configuration file.
func Init() *cobra.Command {
	var (
		outputPath  string
		useDefaults bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Create a socksup.yaml configuration file.

By default an interactive wizard asks for the listen port, the two account
usernames, and the DNS resolvers; everything else is written out with the
shipped defaults so the result is explicit and self-documenting.

Passwords are not part of the configuration: they are generated fresh on
every apply.

Examples:
  # Interactive wizard
  socksup init

  # Write the shipped defaults without asking
  socksup init --defaults

  # Write to a different location
  socksup init -o /etc/socksup/socksup.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, useDefaults)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (default: ./socksup.yaml)")
	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Write the shipped defaults without the wizard")

	return cmd
}
