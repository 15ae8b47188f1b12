package qdrant

import (
	"context"

	"go.uber.org/fx"

	"github.com/erpvec/erpvec/v1/vectordb"
)

// FXModule wires the Qdrant store into Fx.
//
// It provides:
//   - *Client            (NewClient)
//   - vectordb.Service   (NewAdapter, as interface)
//   - Lifecycle hook     (RegisterQdrantLifecycle)
//
// A *Config must be available in the container.
var FXModule = fx.Module(
	"qdrant",

	fx.Provide(
		NewClient,
		fx.Annotate(
			NewAdapter,
			fx.As(new(vectordb.Service)),
		),
	),

	fx.Invoke(RegisterQdrantLifecycle),
)

// RegisterQdrantLifecycle closes the gRPC connection on shutdown.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
