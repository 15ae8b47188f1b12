package embedding

import "context"

// Mode selects the representation an asymmetric embedding model uses.
// Stored record text embeds as a document; filter-time search text embeds
// as a query.
type Mode string

const (
	ModeDocument Mode = "document"
	ModeQuery    Mode = "query"
)

// Provider contract
type Provider interface {
	// Create generates one embedding per input text, in input order.
	Create(ctx context.Context, texts []string, mode Mode) ([][]float32, error)
}
