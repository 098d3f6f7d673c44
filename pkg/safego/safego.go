package safego

import (
	"context"
	"fmt"
	"runtime/debug"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

// Execute runs fn on a fresh goroutine with a recover guard, so a panic in a
// background task (shutdown watcher, consumer loop) is logged with its stack
// trace instead of crashing the process. goroutineName labels the log entry.
func Execute(ctx context.Context, logger domain.Logger, goroutineName string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				// Fall back to a background context so the panic is still logged
				// after ctx is cancelled during shutdown.
				logCtx := ctx
				if ctx.Err() != nil {
					logCtx = context.Background()
				}
				logger.Error(logCtx, fmt.Sprintf("Panic recovered in goroutine: %s", goroutineName),
					"panic_info", fmt.Sprintf("%v", r),
					"stacktrace", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
