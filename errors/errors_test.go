package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelWrapping(t *testing.T) {
	t.Run("wrapped sentinel remains detectable", func(t *testing.T) {
		err := Wrap(ErrDocumentMissing, "loading parameters document")
		assert.True(t, IsDocumentMissing(err))
		assert.False(t, IsDocumentParse(err))
	})

	t.Run("double wrap preserves type", func(t *testing.T) {
		err := Wrapf(Wrap(ErrMergeRejected, "pending_parameters/new.yaml"), "merge aborted after %d errors", 3)
		assert.True(t, IsMergeRejected(err))
		assert.Contains(t, err.Error(), "merge aborted after 3 errors")
	})

	t.Run("nil is never a sentinel", func(t *testing.T) {
		assert.False(t, IsDocumentMissing(nil))
		assert.False(t, IsMergeRejected(nil))
	})
}

func TestStackTraces(t *testing.T) {
	err := Wrap(ErrMaterialize, "insert protocols")
	require.Error(t, err)

	trace := GetReportableStackTrace(err)
	assert.NotNil(t, trace, "wrapped errors should carry stack traces")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}
