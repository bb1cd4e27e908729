// Package embedding is the client side of the external embedding provider.
// Only query-time embedding lives here; document vectors are produced by the
// offline pipeline that fills the embedding column out-of-band.
package embedding

import "context"

const defaultModel = "all-minilm"

type Request struct {
	Model string `json:"model"`

	// Prompt is the text to embed.
	Prompt string `json:"prompt"`

	// Options lists model-specific options.
	Options map[string]any `json:"options,omitempty"`
}

type Response struct {
	Embedding []float32 `json:"embedding"`
}

// Client generates embeddings over the network. Callers must treat it as
// unreliable and degrade gracefully when it fails.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}
