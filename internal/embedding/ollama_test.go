package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOllama(t *testing.T, embedding []float32) (*httptest.Server, *Request) {
	t.Helper()
	var lastReq Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&lastReq); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(Response{Embedding: embedding})
	}))
	t.Cleanup(srv.Close)
	return srv, &lastReq
}

func TestOllamaClientGenerate(t *testing.T) {
	srv, lastReq := newFakeOllama(t, []float32{0.1, 0.2, 0.3})

	client, err := NewOllamaClient(srv.URL)
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), Request{Model: "all-minilm", Prompt: "co pisał prymas"})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, resp.Embedding)
	assert.Equal(t, "all-minilm", lastReq.Model)
	assert.Equal(t, "co pisał prymas", lastReq.Prompt)
}

func TestOllamaClientValidation(t *testing.T) {
	client, err := NewOllamaClient("http://localhost:11434")
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{Model: "all-minilm"})
	assert.Error(t, err)

	_, err = client.Generate(context.Background(), Request{Prompt: "tekst"})
	assert.Error(t, err)
}

func TestOllamaClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewOllamaClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{Model: "all-minilm", Prompt: "tekst"})
	assert.ErrorContains(t, err, "unexpected status code: 500")
}

func TestEmbedderDefaultsAndTruncation(t *testing.T) {
	srv, lastReq := newFakeOllama(t, []float32{1, 2, 3, 4})

	client, err := NewOllamaClient(srv.URL)
	require.NoError(t, err)

	e := NewEmbedder(client, WithMaxLength(2))
	vec, err := e.EmbedQuery(context.Background(), "  zapytanie  ")
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 2}, vec)
	assert.Equal(t, "all-minilm", lastReq.Model)
	assert.Equal(t, "zapytanie", lastReq.Prompt, "prompt should be trimmed")
}
