package launcher

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/northlane-software/updatewing/internal/updater"
)

func TestExecLauncher_RejectsNotReadyState(t *testing.T) {
	l := NewExecLauncher(zaptest.NewLogger(t))
	err := l.Launch(context.Background(), updater.State{})
	require.Error(t, err)
}

func TestOpenerCommand_KnownOS(t *testing.T) {
	cmd, err := openerCommand(context.Background(), "/tmp/installer.exe")
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
		require.NoError(t, err)
		assert.NotNil(t, cmd)
	default:
		require.Error(t, err)
	}
}

func TestInPlaceLauncher_RejectsNotReadyState(t *testing.T) {
	l := NewInPlaceLauncher(zaptest.NewLogger(t))
	err := l.Launch(context.Background(), updater.State{})
	require.Error(t, err)
}
