package graph

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// Params collects the engine's dependencies. Fetcher and Sink are
// optional: a container without them still validates, it just can't
// repair or persist reports.
type Params struct {
	fx.In

	DB      vectordb.Service
	Catalog *schema.Catalog
	Config  *Config
	Logger  *zap.Logger
	Fetcher Fetcher `optional:"true"`
	Sink    Sink    `optional:"true"`
}

// FXModule wires the integrity engine into Fx.
//
// It provides:
//   - *Engine (NewEngine via Params)
var FXModule = fx.Module(
	"graph",

	fx.Provide(
		func(p Params) *Engine {
			return NewEngine(p.DB, p.Catalog, p.Fetcher, p.Sink, p.Config, p.Logger)
		},
	),
)
