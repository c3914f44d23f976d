package launcher

import (
	"context"
	"fmt"
	"os"

	"github.com/inconshreveable/go-update"
	"go.uber.org/zap"

	"github.com/northlane-software/updatewing/internal/updater"
)

// InPlaceLauncher replaces the currently running executable with a
// validated release's installer, rather than spawning it as a separate
// process. It's meant for single-binary tools that re-exec themselves
// after an update, not for GUI installers with their own install flow.
type InPlaceLauncher struct {
	logger *zap.Logger
}

// NewInPlaceLauncher builds an InPlaceLauncher. A nil logger discards
// output.
func NewInPlaceLauncher(logger *zap.Logger) *InPlaceLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InPlaceLauncher{logger: logger}
}

// Launch applies s's downloaded installer over the current executable,
// rolling back automatically on a failed patch.
func (l *InPlaceLauncher) Launch(_ context.Context, s updater.State) error {
	if !s.Ready() {
		return fmt.Errorf("launcher: state is not Ready")
	}

	f, err := os.Open(s.LocalPath())
	if err != nil {
		return fmt.Errorf("launcher: open installer: %w", err)
	}
	defer f.Close()

	err = update.Apply(f, update.Options{})
	if err != nil {
		if rollbackErr := update.RollbackError(err); rollbackErr != nil {
			return fmt.Errorf("launcher: apply failed and rollback failed: %w (rollback: %v)", err, rollbackErr)
		}
		return fmt.Errorf("launcher: apply update: %w", err)
	}

	l.logger.Info("applied update in place", zap.String("path", s.LocalPath()))
	return nil
}
