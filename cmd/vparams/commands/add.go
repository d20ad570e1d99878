package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetdata/vparams/catalog"
	"github.com/fleetdata/vparams/config"
)

// AddParameterCmd appends a parameter batch from a YAML file.
var AddParameterCmd = &cobra.Command{
	Use:   "add-parameter <file>",
	Short: "Append a parameter batch from a YAML file",
	Long: `Append the parameter entries in the given YAML file to the main
parameter catalog. The batch is schema-checked in isolation first, then
checked for duplicate IDs and field names against the current catalog.
Either every entry lands or none does.`,
	Args: cobra.ExactArgs(1),
	RunE: runAddParameter,
}

// AddProtocolCmd appends a protocol batch from a YAML file.
var AddProtocolCmd = &cobra.Command{
	Use:   "add-protocol <file>",
	Short: "Append a protocol batch from a YAML file",
	Long: `Append the protocol group and protocol entries in the given YAML file
to the main protocol catalog. The batch is schema-checked in isolation
first, then checked for duplicate group IDs and names against the current
catalog. Either every entry lands or none does.`,
	Args: cobra.ExactArgs(1),
	RunE: runAddProtocol,
}

func runAddParameter(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	st := buildStore(cfg)

	batch, err := catalog.LoadParameterDocument(args[0])
	if err != nil {
		return err
	}
	if err := st.AppendParameters(batch, orch); err != nil {
		return err
	}

	fmt.Printf("Appended %d parameter(s) from %s\n", len(batch.Parameters), args[0])
	return nil
}

func runAddProtocol(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	st := buildStore(cfg)

	batch, err := catalog.LoadProtocolDocument(args[0])
	if err != nil {
		return err
	}
	if err := st.AppendProtocols(batch, orch); err != nil {
		return err
	}

	fmt.Printf("Appended %d protocol group(s) and %d protocol(s) from %s\n",
		len(batch.ProtocolGroups), len(batch.Protocols), args[0])
	return nil
}
