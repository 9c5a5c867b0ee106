package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLoggerFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		l, err := InitLoggerFromEnv()
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zap.InfoLevel))
		assert.False(t, l.Core().Enabled(zap.DebugLevel))
	})

	t.Run("LOG_LEVEL selects the minimum level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		l, err := InitLoggerFromEnv()
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zap.DebugLevel))
	})

	t.Run("invalid LOG_LEVEL errors", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "chatty")
		_, err := InitLoggerFromEnv()
		assert.Error(t, err)
	})

	t.Run("console format", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "console")
		_, err := InitLoggerFromEnv()
		assert.NoError(t, err)
	})
}

func TestHelpersWriteThroughGlobalLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	Debugf("guard %q fired", "paste_dump")
	Infof("served %d requests", 3)
	Warnf("slow classification")
	Errorf("bad table entry: %v", "x")

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, `guard "paste_dump" fired`, entries[0].Message)
	assert.Equal(t, zap.InfoLevel.String(), entries[1].Level.String())
}
