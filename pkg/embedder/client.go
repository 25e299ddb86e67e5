// Package embedder provides text embedding clients for vector
// representations. The semantic retriever requires the query to be embedded
// in the same space as the stored profile vectors, so a corpus must always
// be queried with the provider that indexed it.
package embedder

import "context"

// Client defines the interface for embedding operations.
type Client interface {
	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embeddings.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds common configuration for embedding clients.
type Config struct {
	Model      string `json:"model"`
	BaseURL    string `json:"base_url,omitempty"`
	Dimensions int    `json:"dimensions,omitempty"`
	BatchSize  int    `json:"batch_size,omitempty"`
}
