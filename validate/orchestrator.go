package validate

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fleetdata/vparams/catalog"
	"github.com/fleetdata/vparams/errors"
)

// Orchestrator composes the three validators into one deterministic pipeline.
// The file-existence stage is the only one that can short-circuit: without
// parsed input the remaining stages cannot run. Every other stage executes
// even if an earlier one failed, so a single run surfaces every class of
// defect at once.
type Orchestrator struct {
	schema *SchemaValidator
	rules  *RuleValidator
	refs   *ReferenceValidator
	log    *zap.SugaredLogger
}

// NewOrchestrator wires the three validators together.
// A nil logger disables logging.
func NewOrchestrator(schema *SchemaValidator, rules *RuleValidator, refs *ReferenceValidator, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{schema: schema, rules: rules, refs: refs, log: log}
}

// NewDefaultOrchestrator builds an orchestrator with embedded schemas and the
// production rule policy.
func NewDefaultOrchestrator(log *zap.SugaredLogger) (*Orchestrator, error) {
	schema, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, "build schema validator")
	}
	return NewOrchestrator(schema, NewRuleValidator(DefaultPolicy(), log), NewReferenceValidator(log), log), nil
}

// ValidateFiles runs the full pipeline against the two source documents on
// disk. It never returns an error: load failures become the fatal
// file-existence stage of the report.
func (o *Orchestrator) ValidateFiles(paramsPath, protosPath string) *Report {
	started := time.Now()
	report := &Report{
		ValidationTimestamp: started,
		FilesValidated:      FilesValidated{ParametersFile: paramsPath, ProtocolsFile: protosPath},
		Steps:               make(map[string]StepResult),
	}

	if o.log != nil {
		o.log.Infow("Starting validation",
			"parameters_file", paramsPath,
			"protocols_file", protosPath,
		)
	}

	// Stage 1: file existence and parseability. Fatal on failure — the
	// remaining stages need parsed input.
	var fileErrs []string

	rawParams, err := catalog.LoadRawDocument(paramsPath)
	if err != nil {
		fileErrs = append(fileErrs, err.Error())
	}
	rawProtos, err := catalog.LoadRawDocument(protosPath)
	if err != nil {
		fileErrs = append(fileErrs, err.Error())
	}

	if len(fileErrs) > 0 {
		report.Steps[StageFilesChecked] = StepResult{Status: StepFailed, Errors: fileErrs}
		report.finalize(started)
		if o.log != nil {
			o.log.Errorw("Validation aborted: source documents unavailable", "errors", len(fileErrs))
		}
		return report
	}
	report.Steps[StageFilesChecked] = StepResult{Status: StepPassed}

	// Typed decode can still fail where the raw parse succeeded (a string
	// where an integer belongs). That is not fatal: the schema stage reports
	// the mismatch from the raw form, and the stages that need typed records
	// fail in isolation with the decode message.
	paramDoc, paramDecodeErr := catalog.LoadParameterDocument(paramsPath)
	protoDoc, protoDecodeErr := catalog.LoadProtocolDocument(protosPath)

	o.runRemainingStages(report, rawParams, rawProtos, typedDocs{
		params:    paramDoc,
		protos:    protoDoc,
		paramsErr: paramDecodeErr,
		protosErr: protoDecodeErr,
	})
	report.finalize(started)

	if o.log != nil {
		o.log.Infow("Validation complete",
			"overall_valid", report.OverallValid,
			"errors", len(report.Errors),
			"warnings", len(report.Warnings),
			"duration_seconds", report.DurationSeconds,
		)
	}
	return report
}

// ValidateDocuments runs the pipeline against an in-memory document pair.
// Used by the pending-merge workflow to prove a merged result valid before
// anything is written to disk.
func (o *Orchestrator) ValidateDocuments(paramDoc *catalog.ParameterDocument, protoDoc *catalog.ProtocolDocument) *Report {
	started := time.Now()
	report := &Report{
		ValidationTimestamp: started,
		FilesValidated:      FilesValidated{ParametersFile: "(in-memory)", ProtocolsFile: "(in-memory)"},
		Steps:               make(map[string]StepResult),
	}

	rawParams, err := catalog.RawFromParameterDocument(paramDoc)
	if err != nil {
		report.Steps[StageFilesChecked] = StepResult{Status: StepFailed, Errors: []string{err.Error()}}
		report.finalize(started)
		return report
	}
	rawProtos, err := catalog.RawFromProtocolDocument(protoDoc)
	if err != nil {
		report.Steps[StageFilesChecked] = StepResult{Status: StepFailed, Errors: []string{err.Error()}}
		report.finalize(started)
		return report
	}
	report.Steps[StageFilesChecked] = StepResult{Status: StepPassed}

	o.runRemainingStages(report, rawParams, rawProtos, typedDocs{params: paramDoc, protos: protoDoc})
	report.finalize(started)
	return report
}

// typedDocs carries the typed decode results into the rule and reference
// stages, including any decode failures to be reported there.
type typedDocs struct {
	params    *catalog.ParameterDocument
	protos    *catalog.ProtocolDocument
	paramsErr error
	protosErr error
}

func (d typedDocs) decodeErrors() []string {
	var errs []string
	if d.paramsErr != nil {
		errs = append(errs, d.paramsErr.Error())
	}
	if d.protosErr != nil {
		errs = append(errs, d.protosErr.Error())
	}
	return errs
}

// runRemainingStages executes the schema, rule and reference stages. All
// three always run; a failure in one never suppresses the others.
func (o *Orchestrator) runRemainingStages(report *Report, rawParams, rawProtos map[string]interface{}, docs typedDocs) {
	report.Steps[StageSchemaChecked] = runStage(StageSchemaChecked, func() (bool, []string) {
		paramsValid, paramsErrs := o.schema.ValidateParameterDocument(rawParams)
		protosValid, protosErrs := o.schema.ValidateProtocolDocument(rawProtos)
		return paramsValid && protosValid, append(paramsErrs, protosErrs...)
	})

	report.Steps[StageRuleChecked] = runStage(StageRuleChecked, func() (bool, []string) {
		if errs := docs.decodeErrors(); len(errs) > 0 {
			return false, errs
		}
		paramsValid, paramsErrs := o.rules.ValidateParameterRules(docs.params)
		protosValid, protosErrs := o.rules.ValidateProtocolRules(docs.protos)
		return paramsValid && protosValid, append(paramsErrs, protosErrs...)
	})

	report.Steps[StageReferenceChecked] = runStage(StageReferenceChecked, func() (bool, []string) {
		if errs := docs.decodeErrors(); len(errs) > 0 {
			return false, errs
		}
		crossValid, crossErrs := o.refs.ValidateCrossReferences(docs.params, docs.protos)
		bidiValid, bidiErrs := o.refs.ValidateBidirectionalConsistency(docs.params, docs.protos)
		return crossValid && bidiValid, append(crossErrs, bidiErrs...)
	})
}

// runStage isolates a stage: a panic while checking records is converted
// into a stage failure instead of aborting the pipeline.
func runStage(name string, fn func() (bool, []string)) (result StepResult) {
	defer func() {
		if r := recover(); r != nil {
			result = StepResult{
				Status: StepFailed,
				Errors: []string{fmt.Sprintf("%s stage error: %v", name, r)},
			}
		}
	}()

	valid, errs := fn()
	if valid {
		return StepResult{Status: StepPassed}
	}
	return StepResult{Status: StepFailed, Errors: errs}
}

// Status runs the full pipeline and returns only counts and timing.
func (o *Orchestrator) Status(paramsPath, protosPath string) Status {
	return o.ValidateFiles(paramsPath, protosPath).Status()
}

// PrecheckParameterCandidate validates a candidate parameter batch against
// the shape description before it is appended to the document. Schema only;
// document-wide rules run when the full catalog is next validated.
func (o *Orchestrator) PrecheckParameterCandidate(candidate *catalog.ParameterDocument) (bool, []string) {
	return o.schema.ValidateParameterCandidate(candidate)
}

// PrecheckProtocolCandidate validates a candidate protocol batch against the
// shape description before it is appended to the document.
func (o *Orchestrator) PrecheckProtocolCandidate(candidate *catalog.ProtocolDocument) (bool, []string) {
	return o.schema.ValidateProtocolCandidate(candidate)
}
