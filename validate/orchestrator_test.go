package validate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vptest "github.com/fleetdata/vparams/internal/testing"
)

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	orch, err := NewDefaultOrchestrator(nil)
	require.NoError(t, err)
	return orch
}

func TestOrchestrator_ValidCatalogs(t *testing.T) {
	orch := newTestOrchestrator(t)
	paramsPath, protosPath := vptest.WriteValidCatalogs(t, t.TempDir())

	report := orch.ValidateFiles(paramsPath, protosPath)

	assert.True(t, report.OverallValid)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 4, report.Summary.TotalSteps)
	assert.Equal(t, 4, report.Summary.PassedSteps)
	assert.Equal(t, 0, report.Summary.FailedSteps)
	assert.True(t, report.Summary.AllPassed)

	for _, stage := range []string{StageFilesChecked, StageSchemaChecked, StageRuleChecked, StageReferenceChecked} {
		step, ok := report.Steps[stage]
		require.True(t, ok, "missing stage %s", stage)
		assert.Equal(t, StepPassed, step.Status)
	}
	assert.Equal(t, paramsPath, report.FilesValidated.ParametersFile)
	assert.GreaterOrEqual(t, report.DurationSeconds, 0.0)
}

func TestOrchestrator_MissingFileShortCircuits(t *testing.T) {
	orch := newTestOrchestrator(t)
	dir := t.TempDir()
	_, protosPath := vptest.WriteValidCatalogs(t, dir)

	report := orch.ValidateFiles(filepath.Join(dir, "nope.yaml"), protosPath)

	assert.False(t, report.OverallValid)
	require.Contains(t, report.Steps, StageFilesChecked)
	assert.Equal(t, StepFailed, report.Steps[StageFilesChecked].Status)

	// Later stages never ran: without parsed input there is nothing to check.
	assert.NotContains(t, report.Steps, StageSchemaChecked)
	assert.NotContains(t, report.Steps, StageRuleChecked)
	assert.NotContains(t, report.Steps, StageReferenceChecked)
	assert.Equal(t, 1, report.Summary.TotalSteps)
}

func TestOrchestrator_MalformedYAMLShortCircuits(t *testing.T) {
	orch := newTestOrchestrator(t)
	dir := t.TempDir()
	_, protosPath := vptest.WriteValidCatalogs(t, dir)

	badPath := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("parameters: [unclosed\n"), 0o644))

	report := orch.ValidateFiles(badPath, protosPath)

	assert.False(t, report.OverallValid)
	assert.Equal(t, StepFailed, report.Steps[StageFilesChecked].Status)
	assert.NotEmpty(t, report.Errors)
}

func TestOrchestrator_TypeMismatchIsNotFatal(t *testing.T) {
	orch := newTestOrchestrator(t)
	dir := t.TempDir()
	_, protosPath := vptest.WriteValidCatalogs(t, dir)

	// Parses as YAML, so the file stage passes; the schema stage reports the
	// type violation and the typed stages fail with the decode message.
	badPath := filepath.Join(dir, "typed.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte(`parameters:
  - id: "one"
    field_name: Engine Speed
    reserved_enum_val: 2
    reason_added: ELD Mandate
    protobuf_field: speed_engine_rpm
    protocol_reference: ESPD_protocols
`), 0o644))

	report := orch.ValidateFiles(badPath, protosPath)

	assert.False(t, report.OverallValid)
	assert.Equal(t, StepPassed, report.Steps[StageFilesChecked].Status)
	assert.Equal(t, StepFailed, report.Steps[StageSchemaChecked].Status)
	assert.Equal(t, StepFailed, report.Steps[StageRuleChecked].Status)
	assert.Equal(t, StepFailed, report.Steps[StageReferenceChecked].Status)
	assert.Equal(t, 4, report.Summary.TotalSteps)
}

func TestOrchestrator_AllStagesRunOnFailure(t *testing.T) {
	orch := newTestOrchestrator(t)

	// One schema violation, one rule violation, one dangling reference; a
	// single run must surface all three.
	paramDoc := vptest.ValidParameterDocument()
	paramDoc.Parameters[0].ProtobufField = "EngineSpeed"
	paramDoc.Parameters[1].ProtocolReference = "GONE_protocols"

	protoDoc := vptest.ValidProtocolDocument()

	paramsPath, protosPath := vptest.WriteCatalogFiles(t, t.TempDir(), paramDoc, protoDoc)
	report := orch.ValidateFiles(paramsPath, protosPath)

	assert.False(t, report.OverallValid)
	assert.Equal(t, StepFailed, report.Steps[StageSchemaChecked].Status)
	assert.Equal(t, StepFailed, report.Steps[StageRuleChecked].Status)
	assert.Equal(t, StepFailed, report.Steps[StageReferenceChecked].Status)
	assert.Contains(t, report.Errors, "Parameter 'Engine Speed': protobuf_field must be in snake_case")
	assert.Contains(t, report.Errors, "Parameter 'Vehicle Speed' references non-existent protocol group 'GONE_protocols'")
}

func TestOrchestrator_Idempotent(t *testing.T) {
	orch := newTestOrchestrator(t)

	paramDoc := vptest.ValidParameterDocument()
	paramDoc.Parameters[0].ReasonAdded = "Because"
	paramsPath, protosPath := vptest.WriteCatalogFiles(t, t.TempDir(), paramDoc, vptest.ValidProtocolDocument())

	first := orch.ValidateFiles(paramsPath, protosPath)
	second := orch.ValidateFiles(paramsPath, protosPath)

	assert.Equal(t, first.OverallValid, second.OverallValid)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestOrchestrator_ValidateDocuments(t *testing.T) {
	orch := newTestOrchestrator(t)

	t.Run("valid pair", func(t *testing.T) {
		report := orch.ValidateDocuments(vptest.ValidParameterDocument(), vptest.ValidProtocolDocument())
		assert.True(t, report.OverallValid, "unexpected errors: %v", report.Errors)
	})

	t.Run("broken pair", func(t *testing.T) {
		paramDoc := vptest.ValidParameterDocument()
		paramDoc.Parameters[0].ProtocolReference = "GONE_protocols"

		report := orch.ValidateDocuments(paramDoc, vptest.ValidProtocolDocument())
		assert.False(t, report.OverallValid)
		assert.NotEmpty(t, report.Errors)
	})
}

func TestOrchestrator_Status(t *testing.T) {
	orch := newTestOrchestrator(t)
	paramsPath, protosPath := vptest.WriteValidCatalogs(t, t.TempDir())

	status := orch.Status(paramsPath, protosPath)

	assert.True(t, status.OverallValid)
	assert.Equal(t, 0, status.ErrorCount)
	assert.Equal(t, 0, status.WarningCount)
	assert.False(t, status.ValidationTimestamp.IsZero())
}

func TestOrchestrator_CandidatePrechecks(t *testing.T) {
	orch := newTestOrchestrator(t)

	valid, errs := orch.PrecheckParameterCandidate(vptest.ValidParameterDocument())
	assert.True(t, valid, "unexpected errors: %v", errs)

	bad := vptest.ValidParameterDocument()
	bad.Parameters[0].ReasonAdded = "Because"
	valid, errs = orch.PrecheckParameterCandidate(bad)
	assert.False(t, valid)
	assert.NotEmpty(t, errs)

	valid, errs = orch.PrecheckProtocolCandidate(vptest.ValidProtocolDocument())
	assert.True(t, valid, "unexpected errors: %v", errs)
}

func TestReport_SaveAndReload(t *testing.T) {
	orch := newTestOrchestrator(t)
	paramsPath, protosPath := vptest.WriteValidCatalogs(t, t.TempDir())

	report := orch.ValidateFiles(paramsPath, protosPath)

	path := filepath.Join(t.TempDir(), "reports", "latest_report.json")
	require.NoError(t, report.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["overall_valid"])
	assert.Contains(t, decoded, "validation_timestamp")
	assert.Contains(t, decoded, "validation_steps")
	assert.Contains(t, decoded, "validation_duration_seconds")
	assert.Contains(t, decoded, "summary")
}
