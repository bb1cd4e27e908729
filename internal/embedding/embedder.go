package embedding

import (
	"context"
	"log/slog"
	"strings"
)

// Embedder wraps a Client with a fixed model and optional dimension cap.
// It satisfies the search engine's Embedder dependency.
type Embedder struct {
	model     string
	maxLength *int

	client Client
}

type EmbedderOption func(*Embedder)

func NewEmbedder(client Client, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		model:  defaultModel,
		client: client,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithModel(model string) EmbedderOption {
	return func(e *Embedder) {
		if model != "" {
			e.model = model
		}
	}
}

// WithMaxLength truncates generated vectors to the given dimension, for
// models that emit more dimensions than the index column stores.
func WithMaxLength(length int) EmbedderOption {
	return func(e *Embedder) {
		e.maxLength = &length
	}
}

func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	resp, err := e.client.Generate(ctx, Request{
		Model:  e.model,
		Prompt: strings.TrimSpace(query),
	})
	if err != nil {
		return nil, err
	}

	vec := resp.Embedding
	if e.maxLength != nil && len(vec) > *e.maxLength {
		vec = vec[:*e.maxLength]
	}

	slog.Debug("generated query embedding", "model", e.model, "dimensions", len(vec))
	return vec, nil
}
