package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/socksup/socksup/internal/config"
)

// Function variables for init - can be replaced in tests.
var (
	runWizard  = config.RunWizard
	saveConfig = config.Save
	statFile   = os.Stat
)

// Init handles the init command. It writes a socksup.yaml, either from the
// interactive wizard or from the shipped defaults with --defaults.
func Init(ctx context.Context, outputPath string, useDefaults bool) error {
	if outputPath == "" {
		outputPath = config.DefaultConfigPath()
	}

	var cfg *config.Config
	if useDefaults {
		// Non-interactive mode never overwrites silently.
		if _, err := statFile(outputPath); err == nil {
			return fmt.Errorf("%s already exists; remove it first or choose another path with -o", outputPath)
		}
		cfg = config.Default()
	} else {
		result, err := runWizard(ctx)
		if err != nil {
			return err
		}
		if !result.Confirmed {
			fmt.Println("Aborted, nothing written.")
			return nil
		}
		cfg = result.ToConfig()
	}

	if err := saveConfig(cfg, outputPath); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", outputPath)
	fmt.Println("Run 'socksup apply' to provision the proxy.")
	return nil
}
