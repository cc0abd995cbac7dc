// Package embedding wraps the external embedding provider behind
// langchaingo's embeddings.Embedder interface.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"pdfchat/internal/models"
)

// Error wraps a failure of the external embedding service. It is
// transient from the pipeline's point of view; retrying is the
// caller's policy.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("embedding service: %v", e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// NewEmbedder builds an embedder against an OpenAI-compatible endpoint.
// The API key is passed through verbatim and never logged.
func NewEmbedder(apiKey, baseURL, model string) (embeddings.Embedder, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
		openai.WithEmbeddingModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}

// EmbedFragments embeds all fragments in one batch, preserving order
// 1:1. The batch is atomic: on any provider failure no vectors are
// returned, so a knowledge base is never built from a partial set.
func EmbedFragments(ctx context.Context, embedder embeddings.Embedder, fragments []models.Fragment) ([][]float32, error) {
	if len(fragments) == 0 {
		return nil, nil
	}

	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Content
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, &Error{Err: err}
	}
	if len(vectors) != len(texts) {
		return nil, &Error{Err: fmt.Errorf("provider returned %d vectors for %d fragments", len(vectors), len(texts))}
	}
	return vectors, nil
}
