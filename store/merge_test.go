package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdata/vparams/catalog"
	"github.com/fleetdata/vparams/errors"
)

func writePendingBatch(t *testing.T, dir, name string, marshal func() ([]byte, error)) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data, err := marshal()
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestMergePending_NothingPending(t *testing.T) {
	st, orch, _ := newTestStore(t)

	result, err := st.MergePending(orch)
	require.NoError(t, err)
	assert.Nil(t, result.Report)
	assert.Empty(t, result.MergedFiles)
}

func TestMergePending_CommitsValidBatches(t *testing.T) {
	st, orch, _ := newTestStore(t)

	// A matched parameter/protocol pair keeps the merged catalogs valid.
	paramFile := writePendingBatch(t, st.paths.PendingParameters, "fuel_rate.yaml", parameterBatch().Marshal)
	protoFile := writePendingBatch(t, st.paths.PendingProtocols, "fuel_rate.yaml", protocolBatch().Marshal)

	result, err := st.MergePending(orch)
	require.NoError(t, err)
	require.NotNil(t, result.Report)
	assert.True(t, result.Report.OverallValid)
	assert.ElementsMatch(t, []string{paramFile, protoFile}, result.MergedFiles)

	paramDoc, err := st.LoadParameters()
	require.NoError(t, err)
	assert.Len(t, paramDoc.Parameters, 3)

	protoDoc, err := st.LoadProtocols()
	require.NoError(t, err)
	assert.Len(t, protoDoc.ProtocolGroups, 3)

	// Committed batches are consumed.
	assert.NoFileExists(t, paramFile)
	assert.NoFileExists(t, protoFile)
}

func TestMergePending_RejectsInvalidMerge(t *testing.T) {
	st, orch, _ := newTestStore(t)

	// Parameter batch without its protocol counterpart: the merged pair
	// breaks cross-reference integrity, so nothing may change.
	paramFile := writePendingBatch(t, st.paths.PendingParameters, "fuel_rate.yaml", parameterBatch().Marshal)

	before, err := os.ReadFile(st.paths.Parameters)
	require.NoError(t, err)

	result, err := st.MergePending(orch)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMergeRejected))
	require.NotNil(t, result)
	require.NotNil(t, result.Report)
	assert.False(t, result.Report.OverallValid)
	assert.Empty(t, result.MergedFiles)

	// Catalog untouched, pending file left in place for correction.
	after, err := os.ReadFile(st.paths.Parameters)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.FileExists(t, paramFile)
}

func TestMergePending_RejectsDuplicateInBatch(t *testing.T) {
	st, orch, _ := newTestStore(t)

	dup := &catalog.ParameterDocument{
		Parameters: []catalog.Parameter{{
			ID:                1, // already taken by Engine Speed
			FieldName:         "Engine Speed Again",
			ReservedEnumVal:   9,
			ReasonAdded:       "Safety",
			ProtobufField:     "speed_engine_rpm_again",
			ProtocolReference: "ESPD_protocols",
		}},
	}
	writePendingBatch(t, st.paths.PendingParameters, "dup.yaml", dup.Marshal)

	_, err := st.MergePending(orch)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMergeRejected))

	doc, err := st.LoadParameters()
	require.NoError(t, err)
	assert.Len(t, doc.Parameters, 2)
}

func TestMergePending_UnparseablePendingFile(t *testing.T) {
	st, orch, _ := newTestStore(t)

	require.NoError(t, os.MkdirAll(st.paths.PendingParameters, 0o755))
	bad := filepath.Join(st.paths.PendingParameters, "broken.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("parameters: [unclosed\n"), 0o644))

	_, err := st.MergePending(orch)
	require.Error(t, err)
	assert.FileExists(t, bad)
}
