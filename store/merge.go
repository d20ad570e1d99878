package store

import (
	"os"

	"github.com/fleetdata/vparams/catalog"
	"github.com/fleetdata/vparams/errors"
	"github.com/fleetdata/vparams/validate"
)

// MergeResult reports what a pending merge did.
type MergeResult struct {
	// Report is the validation outcome of the merged documents.
	// Nil when there was nothing to merge.
	Report *validate.Report
	// MergedFiles are the pending files folded into the catalogs and deleted.
	MergedFiles []string
}

// MergePending folds every pending-submission batch into the main catalogs.
// The merged result is validated in memory through the full pipeline before
// anything is written: if validation fails, the merge is a no-op and the
// pending files are left in place for correction. On success both catalogs
// are saved atomically and the pending files are deleted.
func (s *Store) MergePending(orch *validate.Orchestrator) (*MergeResult, error) {
	unlockParams, err := s.lock(s.paths.Parameters)
	if err != nil {
		return nil, err
	}
	defer unlockParams()
	unlockProtos, err := s.lock(s.paths.Protocols)
	if err != nil {
		return nil, err
	}
	defer unlockProtos()

	pendingParams, err := listPendingFiles(s.paths.PendingParameters)
	if err != nil {
		return nil, err
	}
	pendingProtos, err := listPendingFiles(s.paths.PendingProtocols)
	if err != nil {
		return nil, err
	}
	if len(pendingParams) == 0 && len(pendingProtos) == 0 {
		return &MergeResult{}, nil
	}

	paramDoc, err := s.LoadParameters()
	if err != nil {
		return nil, err
	}
	protoDoc, err := s.LoadProtocols()
	if err != nil {
		return nil, err
	}

	merged := make([]string, 0, len(pendingParams)+len(pendingProtos))

	for _, path := range pendingParams {
		batch, err := catalog.LoadParameterDocument(path)
		if err != nil {
			return nil, errors.Wrapf(err, "pending file %s", path)
		}
		paramDoc.Append(batch)
		merged = append(merged, path)
	}
	for _, path := range pendingProtos {
		batch, err := catalog.LoadProtocolDocument(path)
		if err != nil {
			return nil, errors.Wrapf(err, "pending file %s", path)
		}
		protoDoc.Append(batch)
		merged = append(merged, path)
	}

	// Prove the merged result valid before committing anything.
	report := orch.ValidateDocuments(paramDoc, protoDoc)
	if !report.OverallValid {
		if s.log != nil {
			s.log.Warnw("Pending merge rejected",
				"pending_files", len(merged),
				"errors", len(report.Errors),
			)
		}
		return &MergeResult{Report: report},
			errors.Wrapf(errors.ErrMergeRejected, "%d validation errors", len(report.Errors))
	}

	if err := s.saveParameters(paramDoc); err != nil {
		return &MergeResult{Report: report}, err
	}
	if err := s.saveProtocols(protoDoc); err != nil {
		return &MergeResult{Report: report}, err
	}

	for _, path := range merged {
		if err := os.Remove(path); err != nil && s.log != nil {
			s.log.Warnw("Failed to delete merged pending file", "path", path, "error", err)
		}
	}

	if s.log != nil {
		s.log.Infow("Pending merge committed",
			"pending_files", len(merged),
			"parameters", len(paramDoc.Parameters),
			"protocol_groups", len(protoDoc.ProtocolGroups),
		)
	}
	return &MergeResult{Report: report, MergedFiles: merged}, nil
}
