package embedding

import (
	"context"
	"strings"
)

// Provider defines the interface for generating text embeddings.
type Provider interface {
	// EmbedMany embeds a batch of chunks in a single provider round trip
	// where the backend supports it. One vector per input, same order.
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedOne embeds a single query string.
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// Task types hint retrieval-tuned models about which side of the
// similarity comparison the text sits on.
const (
	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
)

// normalizeQuery collapses escaped newline sequences that arrive from
// JSON-encoded prompts and trims surrounding whitespace before embedding.
func normalizeQuery(text string) string {
	cleaned := strings.ReplaceAll(text, "\\n", " ")
	return strings.TrimSpace(cleaned)
}
