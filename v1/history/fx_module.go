package history

import (
	"context"

	"go.uber.org/fx"

	"github.com/erpvec/erpvec/v1/graph"
)

// FXModule wires validation history into Fx.
//
// It provides:
//   - *JSONLSink      (NewJSONLSink)
//   - graph.Sink      (the same sink, as interface)
//   - *MappingStore   (NewMappingStore)
//   - Lifecycle hook  (RegisterHistoryLifecycle)
//
// A *Config must be available in the container.
var FXModule = fx.Module(
	"history",

	fx.Provide(
		NewJSONLSink,
		func(s *JSONLSink) graph.Sink { return s },
		NewMappingStore,
	),

	fx.Invoke(RegisterHistoryLifecycle),
)

// RegisterHistoryLifecycle flushes queued reports on shutdown.
func RegisterHistoryLifecycle(lc fx.Lifecycle, sink *JSONLSink) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return sink.Close()
		},
	})
}
