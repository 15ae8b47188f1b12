// Package embedding provides a unified, high-level API for computing text
// embeddings through an OpenAI-compatible inference service.
//
// # Overview
//
// The package exposes a single public entrypoint, Client, which hides all
// low-level HTTP details, endpoint paths, authentication, and batching
// behavior.
//
// A client is constructed using:
//
//	client, err := embedding.NewClient(cfg)
//
// Once created, the client can generate a single embedding via:
//
//	client.Embed(ctx, "journal item text", embedding.ModeDocument)
//
// or batch embeddings via:
//
//	client.EmbedBatch(ctx, texts, embedding.ModeDocument)
//
// # Modes
//
// The Mode selects the asymmetric representation: record text stored in
// the projection embeds as a document, search text at query time embeds
// as a query. Mixing them up silently degrades retrieval quality, which
// is why the mode is an explicit argument on every call.
//
// # Configuration
//
// Configuration is sourced from environment variables and constructed by:
//
//	cfg := embedding.NewConfig()
//
// Required variables:
//
//   - EMBEDDING_ENDPOINT
//     Base URL of the inference service (no trailing path or slash).
//
//   - EMBEDDING_MODEL
//     Embedding model name.
//
// Optional variables:
//
//   - EMBEDDING_SERVICE_TOKEN
//     Bearer token for authenticated deployments.
//
//   - EMBEDDING_DIMENSIONS
//     Vector size the model produces (default: 1024).
//
//   - EMBEDDING_BATCH_SIZE
//     Texts per inference request (default: 32).
//
//   - EMBEDDING_HTTP_TIMEOUT_SECONDS
//     Request timeout (default: 30 seconds).
//
// # Dependency Injection (Fx)
//
// A ready-to-use Fx module is provided:
//
//	embedding.FXModule
//
// which supplies *embedding.Config and *embedding.Client and registers a
// lifecycle hook to clean up HTTP resources on shutdown.
package embedding
