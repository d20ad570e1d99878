package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetdata/vparams/config"
)

// StatusCmd runs validation and prints the condensed status.
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Quick validation status (counts and timing only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		orch, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}

		status := orch.Status(cfg.Data.ParametersPath, cfg.Data.ProtocolsPath)

		state := "valid"
		if !status.OverallValid {
			state = "invalid"
		}
		fmt.Printf("Catalogs: %s\n", state)
		fmt.Printf("  Errors:   %d\n", status.ErrorCount)
		fmt.Printf("  Warnings: %d\n", status.WarningCount)
		fmt.Printf("  Checked:  %s (%.3fs)\n",
			status.ValidationTimestamp.Format("2006-01-02 15:04:05"), status.DurationSeconds)
		return nil
	},
}
