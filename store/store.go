// Package store owns the two source documents on disk: loading, appending
// new entries, and merging pending-submission batches. Every mutation holds
// an exclusive advisory lock for the full load-mutate-write cycle and saves
// through a temp-file-plus-rename so concurrent readers never observe a
// partially written document.
package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/fleetdata/vparams/catalog"
	"github.com/fleetdata/vparams/errors"
	"github.com/fleetdata/vparams/validate"
)

// Paths locates the source documents and pending-submission directories.
type Paths struct {
	Parameters        string
	Protocols         string
	PendingParameters string
	PendingProtocols  string
}

// Store is the dataset store over the two source documents.
type Store struct {
	paths Paths
	log   *zap.SugaredLogger
}

// New builds a Store. A nil logger disables logging.
func New(paths Paths, log *zap.SugaredLogger) *Store {
	return &Store{paths: paths, log: log}
}

// LoadParameters reads and decodes the parameter catalog.
func (s *Store) LoadParameters() (*catalog.ParameterDocument, error) {
	return catalog.LoadParameterDocument(s.paths.Parameters)
}

// LoadProtocols reads and decodes the protocol catalog.
func (s *Store) LoadProtocols() (*catalog.ProtocolDocument, error) {
	return catalog.LoadProtocolDocument(s.paths.Protocols)
}

// AppendParameters appends a candidate batch to the parameter catalog.
// The batch is schema-prechecked and duplicate-checked against the current
// document under an exclusive lock before anything is written. Document-wide
// rule and reference validation happens on the next full pipeline run.
func (s *Store) AppendParameters(batch *catalog.ParameterDocument, orch *validate.Orchestrator) error {
	if valid, errs := orch.PrecheckParameterCandidate(batch); !valid {
		return errors.Wrap(errors.ErrCandidateInvalid, strings.Join(errs, "; "))
	}

	unlock, err := s.lock(s.paths.Parameters)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.LoadParameters()
	if err != nil {
		return err
	}

	existingIDs := make(map[int]struct{}, len(doc.Parameters))
	existingNames := make(map[string]struct{}, len(doc.Parameters))
	for _, p := range doc.Parameters {
		existingIDs[p.ID] = struct{}{}
		existingNames[p.FieldName] = struct{}{}
	}
	for _, p := range batch.Parameters {
		if _, ok := existingIDs[p.ID]; ok {
			return errors.Wrapf(errors.ErrDuplicateEntry, "parameter ID %d already exists", p.ID)
		}
		if _, ok := existingNames[p.FieldName]; ok {
			return errors.Wrapf(errors.ErrDuplicateEntry, "parameter name '%s' already exists", p.FieldName)
		}
	}

	doc.Append(batch)
	if err := s.saveParameters(doc); err != nil {
		return err
	}

	if s.log != nil {
		s.log.Infow("Appended parameter batch",
			"parameters", len(batch.Parameters),
			"breadcrumb_fields", len(batch.BreadcrumbFields),
			"vg5_fields", len(batch.VG5Fields),
			"abbr_metrics", len(batch.AbbrMetrics),
		)
	}
	return nil
}

// AppendProtocols appends a candidate batch to the protocol catalog under the
// same precheck, lock and duplicate discipline as AppendParameters.
func (s *Store) AppendProtocols(batch *catalog.ProtocolDocument, orch *validate.Orchestrator) error {
	if valid, errs := orch.PrecheckProtocolCandidate(batch); !valid {
		return errors.Wrap(errors.ErrCandidateInvalid, strings.Join(errs, "; "))
	}

	unlock, err := s.lock(s.paths.Protocols)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.LoadProtocols()
	if err != nil {
		return err
	}

	existingIDs := make(map[int]struct{}, len(doc.ProtocolGroups))
	existingNames := make(map[string]struct{}, len(doc.ProtocolGroups))
	for _, g := range doc.ProtocolGroups {
		existingIDs[g.ID] = struct{}{}
		existingNames[g.GroupName] = struct{}{}
	}
	for _, g := range batch.ProtocolGroups {
		if _, ok := existingIDs[g.ID]; ok {
			return errors.Wrapf(errors.ErrDuplicateEntry, "protocol group ID %d already exists", g.ID)
		}
		if _, ok := existingNames[g.GroupName]; ok {
			return errors.Wrapf(errors.ErrDuplicateEntry, "protocol group name '%s' already exists", g.GroupName)
		}
	}

	doc.Append(batch)
	if err := s.saveProtocols(doc); err != nil {
		return err
	}

	if s.log != nil {
		s.log.Infow("Appended protocol batch",
			"protocol_groups", len(batch.ProtocolGroups),
			"protocols", len(batch.Protocols),
		)
	}
	return nil
}

// saveParameters writes the parameter catalog atomically.
func (s *Store) saveParameters(doc *catalog.ParameterDocument) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	return writeAtomic(s.paths.Parameters, data)
}

// saveProtocols writes the protocol catalog atomically.
func (s *Store) saveProtocols(doc *catalog.ProtocolDocument) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	return writeAtomic(s.paths.Protocols, data)
}

// lock acquires an exclusive advisory lock guarding path. The lock file
// lives next to the document so cooperating processes contend on it too.
func (s *Store) lock(path string) (func(), error) {
	fl := flock.New(path + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, errors.Wrapf(err, "lock %s", path)
	}
	return func() {
		if err := fl.Unlock(); err != nil && s.log != nil {
			s.log.Warnw("Failed to release document lock", "path", path, "error", err)
		}
	}, nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "replace %s", path)
	}
	return nil
}

// listPendingFiles returns the YAML files of a pending directory in name
// order. A missing directory means no pending work.
func listPendingFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read pending directory %s", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}
