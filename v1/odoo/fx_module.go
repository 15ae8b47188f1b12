package odoo

import (
	"go.uber.org/fx"

	"github.com/erpvec/erpvec/v1/schema"
)

// FXModule wires the Odoo client into Fx.
//
// It provides:
//   - *Client        (NewClient)
//   - schema.Source  (NewSchemaSource, as interface)
//
// A *Config and a *zap.Logger must be available in the container.
var FXModule = fx.Module(
	"odoo",

	fx.Provide(
		NewClient,
		fx.Annotate(
			NewSchemaSource,
			fx.As(new(schema.Source)),
		),
	),
)
