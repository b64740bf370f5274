package comments

import (
	"context"

	"go.uber.org/zap"
)

// Notifier is the user-facing notification sink: brief, non-blocking
// success/failure messages. Read-side degradations never reach it.
type Notifier interface {
	Success(ctx context.Context, message string)
	Failure(ctx context.Context, message string)
}

// LogNotifier is the fallback sink when no richer one is wired.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) Success(ctx context.Context, message string) {
	n.Log.Info(message)
}

func (n *LogNotifier) Failure(ctx context.Context, message string) {
	n.Log.Warn(message)
}
