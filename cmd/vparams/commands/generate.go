package commands

import (
	"github.com/spf13/cobra"

	"github.com/fleetdata/vparams/config"
	"github.com/fleetdata/vparams/errors"
	"github.com/fleetdata/vparams/logger"
	"github.com/fleetdata/vparams/materialize"
)

// GenerateCmd validates both catalogs and, if valid, rebuilds the SQLite artifact.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Validate, then rebuild the relational artifact",
	Long: `Validate both catalogs and, only if the pair is fully valid, rebuild
the SQLite artifact from scratch. The existing artifact is replaced
atomically; a failed run leaves it untouched.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	st := buildStore(cfg)

	report := orch.ValidateFiles(cfg.Data.ParametersPath, cfg.Data.ProtocolsPath)
	if !report.OverallValid {
		printReportSummary(report)
		return errors.Newf("refusing to materialize: validation failed with %d error(s)", len(report.Errors))
	}

	paramDoc, err := st.LoadParameters()
	if err != nil {
		return err
	}
	protoDoc, err := st.LoadProtocols()
	if err != nil {
		return err
	}

	m := materialize.New(logger.Logger)
	if err := m.Materialize(paramDoc, protoDoc, cfg.Database.Path); err != nil {
		return err
	}

	logger.Infow("Artifact generated",
		"path", cfg.Database.Path,
		"parameters", len(paramDoc.Parameters),
		"protocol_groups", len(protoDoc.ProtocolGroups),
		"protocols", len(protoDoc.Protocols))
	return nil
}
