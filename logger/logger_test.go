package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	t.Run("console output", func(t *testing.T) {
		err := Initialize(false)
		require.NoError(t, err)
		require.NotNil(t, Logger)
		assert.False(t, JSONOutput)
	})

	t.Run("json output", func(t *testing.T) {
		err := Initialize(true)
		require.NoError(t, err)
		require.NotNil(t, Logger)
		assert.True(t, JSONOutput)
	})

	t.Run("helpers never panic before Initialize", func(t *testing.T) {
		// The package-level no-op logger absorbs calls made before setup.
		assert.NotPanics(t, func() {
			Infow("early message", "key", "value")
			Errorf("early error %d", 1)
		})
	})
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(5))
}
