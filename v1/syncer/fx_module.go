package syncer

import (
	"go.uber.org/fx"

	"github.com/erpvec/erpvec/v1/embedding"
	"github.com/erpvec/erpvec/v1/graph"
	"github.com/erpvec/erpvec/v1/odoo"
)

// FXModule wires the sync pipeline into Fx.
//
// It provides:
//   - *Syncer        (NewSyncer)
//   - graph.Fetcher  (the same syncer, as interface)
//
// The source and embedder interfaces are bound from the concrete odoo
// and embedding clients available in the container.
var FXModule = fx.Module(
	"syncer",

	fx.Provide(
		func(c *odoo.Client) Source { return c },
		func(c *embedding.Client) Embedder { return c },
		NewSyncer,
		func(s *Syncer) graph.Fetcher { return s },
	),
)
