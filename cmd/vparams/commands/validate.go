package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fleetdata/vparams/config"
	"github.com/fleetdata/vparams/errors"
	"github.com/fleetdata/vparams/logger"
)

var (
	validateJSON bool
	validateSave bool
)

// ValidateCmd runs the full validation pipeline over both catalogs.
var ValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the full validation pipeline over both catalogs",
	Long: `Run all validation stages over the parameter and protocol catalogs:
file existence, schema conformance, business rules, and cross-reference
integrity. The run always completes every stage it can reach and reports
every finding, not just the first.

Exits non-zero when validation fails.`,
	RunE: runValidate,
}

func init() {
	ValidateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the full report as JSON instead of a summary")
	ValidateCmd.Flags().BoolVar(&validateSave, "save", false, "Write the report to the configured report directory")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}

	report := orch.ValidateFiles(cfg.Data.ParametersPath, cfg.Data.ProtocolsPath)

	if validateSave {
		path := filepath.Join(cfg.Report.Dir, "latest_report.json")
		if err := report.Save(path); err != nil {
			return err
		}
		logger.Infow("Validation report saved", "path", path)
	}

	if validateJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode report")
		}
		fmt.Println(string(out))
	} else {
		printReportSummary(report)
	}

	if !report.OverallValid {
		return errors.Newf("validation failed with %d error(s)", len(report.Errors))
	}
	return nil
}
