package logs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/northlane-software/updatewing/internal/config"
)

func TestSetupLogger_ConsoleOnly(t *testing.T) {
	logger, err := SetupLogger(&config.LogConfig{Level: LogLevelInfo, EnableConsole: true})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestSetupLogger_NoOutputsErrors(t *testing.T) {
	_, err := SetupLogger(&config.LogConfig{Level: LogLevelInfo, EnableConsole: false, EnableFile: false})
	assert.Error(t, err)
}

func TestSetupLogger_FileOutput(t *testing.T) {
	dir := t.TempDir()
	logger, err := SetupLogger(&config.LogConfig{
		Level:      LogLevelDebug,
		EnableFile: true,
		LogDir:     dir,
		Filename:   "test.log",
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, logger.Sync())

	assert.FileExists(t, filepath.Join(dir, "test.log"))
}

func TestParseLevel_UnknownFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zap.InfoLevel, parseLevel("not-a-real-level"))
}

func TestSetupCommandLogger_DefaultsByCommandKind(t *testing.T) {
	logger, err := SetupCommandLogger(false, "", false, "")
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger, err = SetupCommandLogger(true, "", false, "")
	require.NoError(t, err)
	require.NotNil(t, logger)
}
