package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type InferenceProvider struct {
	baseURL      string
	serviceToken string
	model        string
	httpClient   *http.Client
}

func newInferenceProvider(cfg *Config) (*InferenceProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference: missing EMBEDDING_ENDPOINT")
	}

	// Remove trailing slash if user added it.
	base := strings.TrimRight(cfg.Endpoint, "/")

	return &InferenceProvider{
		baseURL:      base,
		serviceToken: cfg.ServiceToken,
		model:        cfg.Model,
		httpClient:   &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutS) * time.Second},
	}, nil
}

// Create generates embeddings for the given texts using the configured
// model via the OpenAI-compatible /v1/embeddings endpoint. The mode maps
// to the asymmetric representation: documents for stored record text,
// queries for search text.
func (p *InferenceProvider) Create(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("inference: no texts provided")
	}

	reqBody := map[string]any{
		"model":          p.model,
		"input":          texts,
		"representation": string(mode),
	}

	url := fmt.Sprintf("%s/v1/embeddings", p.baseURL)

	var parsed struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}

	if err := p.postJSON(ctx, url, reqBody, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("inference: got %d embeddings for %d texts", len(parsed.Data), len(texts))
	}

	// The endpoint may return entries out of order; place by index.
	out := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("inference: embedding index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}

	return out, nil
}
