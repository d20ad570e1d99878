package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fleetdata/vparams/cmd/vparams/commands"
	"github.com/fleetdata/vparams/logger"
)

var rootCmd = &cobra.Command{
	Use:   "vparams",
	Short: "vparams - vehicle parameter and protocol catalog tooling",
	Long: `vparams - validation and materialization for the vehicle parameter
and protocol catalogs.

The two source documents are validated as a pair: schema conformance,
business rules, and bidirectional cross-reference integrity. Only a fully
valid pair is materialized into the relational artifact.

Available commands:
  validate       - Run the full validation pipeline
  status         - Quick validation status (counts and timing only)
  generate       - Validate, then rebuild the relational artifact
  merge          - Fold pending submissions into the catalogs (validated)
  add-parameter  - Append a parameter batch from a YAML file
  add-protocol   - Append a protocol batch from a YAML file
  version        - Print version and build information

Examples:
  vparams validate --save          # Full run, report written to report dir
  vparams generate                 # Rebuild output/vehicle_params.db
  vparams merge                    # Commit pending submissions if valid`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.InitializeWithLevel(jsonOutput, logger.VerbosityToLevel(verbosity)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")

	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.StatusCmd)
	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.MergeCmd)
	rootCmd.AddCommand(commands.AddParameterCmd)
	rootCmd.AddCommand(commands.AddProtocolCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
