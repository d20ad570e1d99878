package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetdata/vparams/config"
	"github.com/fleetdata/vparams/errors"
)

// MergeCmd folds pending submissions into the main catalogs.
var MergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Fold pending submissions into the catalogs (validated)",
	Long: `Merge every pending submission file into the main catalogs. The merged
result is validated as a pair before anything is written: if validation
fails, no catalog changes and no pending file is removed.`,
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	st := buildStore(cfg)

	result, err := st.MergePending(orch)
	if err != nil {
		if errors.IsMergeRejected(err) && result != nil && result.Report != nil {
			printReportSummary(result.Report)
		}
		return err
	}

	if len(result.MergedFiles) == 0 {
		fmt.Println("No pending submissions to merge")
		return nil
	}
	fmt.Printf("Merged %d pending file(s):\n", len(result.MergedFiles))
	for _, f := range result.MergedFiles {
		fmt.Printf("  %s\n", f)
	}
	return nil
}
