package logger

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule provides the application *zap.Logger and flushes it on
// shutdown.
//
// Dependencies required by this module:
// - A logger.Config instance must be available in the dependency injection container
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle flushes any buffered log entries when the
// application stops.
func RegisterLoggerLifecycle(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync fails on stderr on some platforms; the entries are
			// unbuffered there anyway.
			_ = log.Sync()
			return nil
		},
	})
}
