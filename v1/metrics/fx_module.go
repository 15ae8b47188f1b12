package metrics

import (
	"context"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule provides the Prometheus metrics server and manages its
// lifecycle.
//
// Dependencies required by this module:
// - A metrics.Config instance must be available in the dependency injection container
// - A *zap.Logger for startup and shutdown logs
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		func(m *Metrics) Collector { return m },
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// RegisterMetricsLifecycle starts the metrics HTTP server with the
// application and shuts it down gracefully on stop.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("starting metrics server", zap.String("address", m.Server.Addr))

				if err := m.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("metrics server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down metrics server")
			return m.Server.Shutdown(ctx)
		},
	})
}
