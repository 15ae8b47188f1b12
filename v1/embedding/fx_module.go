package embedding

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the embedding client into Fx.
//
// It provides:
//   - *Config (NewConfig)
//   - *Client (NewClient, which builds the inference provider internally)
var FXModule = fx.Module(
	"embedding",

	fx.Provide(
		NewConfig,
		NewClient,
	),

	fx.Invoke(RegisterEmbeddingLifecycle),
)

// RegisterEmbeddingLifecycle releases the client's provider resources on
// shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
