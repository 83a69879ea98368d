package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rolly/internal/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: format})
		require.NoError(t, err, "format %q should be valid", format)
		assert.NotNil(t, logger)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "trace", Format: "json"})
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

// TestNewLogger_LevelIsApplied verifies the configured level gates debug
// roll logging.
func TestNewLogger_LevelIsApplied(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	logger, err = NewLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNewLogger_DefaultConfig(t *testing.T) {
	logger, err := NewLogger(config.Default().Logging)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoggerConfig_RollySettings(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		zapCfg, err := loggerConfig(config.LoggingConfig{Level: "info", Format: format}, "abc")
		require.NoError(t, err, format)
		assert.Equal(t, map[string]any{SessionField: "abc"}, zapCfg.InitialFields, format)
		assert.True(t, zapCfg.DisableStacktrace, format)
		assert.Equal(t, []string{"stderr"}, zapCfg.OutputPaths, format)
		assert.Equal(t, zap.InfoLevel, zapCfg.Level.Level(), format)
	}
}

func TestLoggerConfig_InvalidInput(t *testing.T) {
	_, err := loggerConfig(config.LoggingConfig{Level: "loud", Format: "json"}, "abc")
	assert.ErrorContains(t, err, `parsing log level "loud"`)

	_, err = loggerConfig(config.LoggingConfig{Level: "info", Format: "xml"}, "abc")
	assert.ErrorContains(t, err, `unknown log format "xml"`)
}
