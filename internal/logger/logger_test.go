package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"proffy-mobile/config"
)

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "debug"

	l, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	cfg := config.Default()
	cfg.Env = config.EnvProduction
	cfg.Log.Format = "json"
	cfg.Log.Level = "chatty"

	l, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}
