package query

import (
	"go.uber.org/fx"
)

// FXModule wires the query engine into Fx.
//
// It provides:
//   - *Engine (NewEngine)
//
// A vectordb.Service, a *Config and a *zap.Logger must be available in
// the container.
var FXModule = fx.Module(
	"query",

	fx.Provide(
		NewEngine,
	),
)
