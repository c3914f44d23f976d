// Package launcher hands a validated installer path off to the running
// system: either spawning it as a child process, or applying it in place
// over the current binary.
package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"

	"github.com/northlane-software/updatewing/internal/updater"
)

// Launcher runs the installer a validated State points at. Implementations
// must reject a State that isn't Ready, rather than guessing at a path.
type Launcher interface {
	Launch(ctx context.Context, s updater.State) error
}

// ExecLauncher spawns the installer as a detached child process, using the
// platform's native "open this file" command.
type ExecLauncher struct {
	logger *zap.Logger
}

// NewExecLauncher builds an ExecLauncher. A nil logger discards output.
func NewExecLauncher(logger *zap.Logger) *ExecLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecLauncher{logger: logger}
}

// Launch runs s's installer path via the OS-appropriate opener command.
func (l *ExecLauncher) Launch(ctx context.Context, s updater.State) error {
	if !s.Ready() {
		return fmt.Errorf("launcher: state is not Ready")
	}
	path := s.LocalPath()

	cmd, err := openerCommand(ctx, path)
	if err != nil {
		return err
	}

	l.logger.Info("launching installer", zap.String("path", path), zap.String("os", runtime.GOOS))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launcher: start installer: %w", err)
	}
	return nil
}

func openerCommand(ctx context.Context, path string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", path), nil
	case "linux":
		return exec.CommandContext(ctx, "xdg-open", path), nil
	case "windows":
		return exec.CommandContext(ctx, "cmd", "/c", "start", "", path), nil
	default:
		return nil, fmt.Errorf("launcher: unsupported OS %q", runtime.GOOS)
	}
}
