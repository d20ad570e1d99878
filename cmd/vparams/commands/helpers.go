package commands

import (
	"fmt"

	"github.com/fleetdata/vparams/config"
	"github.com/fleetdata/vparams/logger"
	"github.com/fleetdata/vparams/store"
	"github.com/fleetdata/vparams/validate"
)

// buildOrchestrator wires a validation pipeline from the loaded config.
// Schema overrides from config take precedence over the embedded schemas.
func buildOrchestrator(cfg *config.Config) (*validate.Orchestrator, error) {
	schema, err := validate.NewSchemaValidatorFromFiles(
		cfg.Schemas.ParametersSchemaPath,
		cfg.Schemas.ProtocolsSchemaPath,
	)
	if err != nil {
		return nil, err
	}
	rules := validate.NewRuleValidator(validate.DefaultPolicy(), logger.Logger)
	refs := validate.NewReferenceValidator(logger.Logger)
	return validate.NewOrchestrator(schema, rules, refs, logger.Logger), nil
}

func buildStore(cfg *config.Config) *store.Store {
	return store.New(store.Paths{
		Parameters:        cfg.Data.ParametersPath,
		Protocols:         cfg.Data.ProtocolsPath,
		PendingParameters: cfg.Data.PendingParametersDir,
		PendingProtocols:  cfg.Data.PendingProtocolsDir,
	}, logger.Logger)
}

// printReportSummary writes the human-readable run summary to stdout.
func printReportSummary(report *validate.Report) {
	if report.OverallValid {
		fmt.Println("Validation PASSED")
	} else {
		fmt.Println("Validation FAILED")
	}
	fmt.Printf("  Steps:    %d passed, %d failed\n",
		report.Summary.PassedSteps, report.Summary.FailedSteps)
	fmt.Printf("  Errors:   %d\n", len(report.Errors))
	fmt.Printf("  Warnings: %d\n", len(report.Warnings))
	fmt.Printf("  Duration: %.3fs\n", report.DurationSeconds)

	for _, msg := range report.Errors {
		fmt.Printf("  ERROR: %s\n", msg)
	}
	for _, msg := range report.Warnings {
		fmt.Printf("  WARNING: %s\n", msg)
	}
}
