package validate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fleetdata/vparams/errors"
)

// Stage names for the validation pipeline. The orchestrator advances through
// them in order; every stage after the file check always executes.
const (
	StageFilesChecked     = "file_existence"
	StageSchemaChecked    = "json_schema"
	StageRuleChecked      = "business_rules"
	StageReferenceChecked = "cross_references"
)

// stageOrder is the fixed execution order, used for deterministic report output.
var stageOrder = []string{StageFilesChecked, StageSchemaChecked, StageRuleChecked, StageReferenceChecked}

// Step status values.
const (
	StepPassed = "passed"
	StepFailed = "failed"
)

// StepResult records the outcome of a single pipeline stage.
type StepResult struct {
	Status   string   `json:"status"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Summary aggregates per-stage pass/fail counts.
type Summary struct {
	TotalSteps  int               `json:"total_steps"`
	PassedSteps int               `json:"passed_steps"`
	FailedSteps int               `json:"failed_steps"`
	AllPassed   bool              `json:"all_passed"`
	StepResults map[string]string `json:"step_results"`
}

// FilesValidated records which source documents the report covers.
type FilesValidated struct {
	ParametersFile string `json:"parameters_file"`
	ProtocolsFile  string `json:"protocols_file"`
}

// Report is the complete outcome of one validation run. It is the sole
// contract the API/CLI layers consume; the orchestrator always returns a
// completed report, never an error, for validation findings.
type Report struct {
	ValidationTimestamp time.Time             `json:"validation_timestamp"`
	FilesValidated      FilesValidated        `json:"files_validated"`
	OverallValid        bool                  `json:"overall_valid"`
	Steps               map[string]StepResult `json:"validation_steps"`
	Summary             Summary               `json:"summary"`
	Errors              []string              `json:"errors"`
	Warnings            []string              `json:"warnings"`
	DurationSeconds     float64               `json:"validation_duration_seconds"`
}

// Status is the lightweight variant of a Report: counts and timing only.
type Status struct {
	OverallValid        bool      `json:"overall_valid"`
	ErrorCount          int       `json:"error_count"`
	WarningCount        int       `json:"warning_count"`
	ValidationTimestamp time.Time `json:"validation_timestamp"`
	DurationSeconds     float64   `json:"duration_seconds"`
}

// Status reduces a report to its lightweight form.
func (r *Report) Status() Status {
	return Status{
		OverallValid:        r.OverallValid,
		ErrorCount:          len(r.Errors),
		WarningCount:        len(r.Warnings),
		ValidationTimestamp: r.ValidationTimestamp,
		DurationSeconds:     r.DurationSeconds,
	}
}

// finalize computes the summary and flattens stage errors/warnings into the
// report-level lists, in stage order.
func (r *Report) finalize(started time.Time) {
	summary := Summary{
		TotalSteps:  len(r.Steps),
		AllPassed:   true,
		StepResults: make(map[string]string, len(r.Steps)),
	}

	for _, name := range stageOrder {
		step, ok := r.Steps[name]
		if !ok {
			continue
		}
		summary.StepResults[name] = step.Status
		if step.Status == StepPassed {
			summary.PassedSteps++
		} else {
			summary.FailedSteps++
			summary.AllPassed = false
		}
		if step.Status == StepFailed {
			r.Errors = append(r.Errors, step.Errors...)
		}
		r.Warnings = append(r.Warnings, step.Warnings...)
	}

	r.Summary = summary
	r.OverallValid = summary.AllPassed
	r.DurationSeconds = time.Since(started).Seconds()
}

// Save writes the report as indented JSON, creating parent directories.
func (r *Report) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create report directory")
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write report %s", path)
	}
	return nil
}
