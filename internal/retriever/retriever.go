// Package retriever answers "which fragments matter for this
// question": it embeds the question and runs a similarity search
// against the knowledge base.
package retriever

import (
	"context"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/embeddings"

	"pdfchat/internal/embedding"
	"pdfchat/internal/knowledge"
	"pdfchat/internal/models"
)

// DefaultK is the retrieval count used when the caller passes k <= 0.
const DefaultK = 4

// ErrEmptyQuery rejects blank questions before any external call is
// made.
var ErrEmptyQuery = errors.New("query must not be empty")

// Retrieve embeds question and returns the top-k fragments in
// descending similarity order, plus the parallel score slice. Scores
// are not consumed downstream today but stay available for ranking
// diagnostics.
func Retrieve(ctx context.Context, base *knowledge.Base, embedder embeddings.Embedder, question string, k int) ([]models.Fragment, []float32, error) {
	if strings.TrimSpace(question) == "" {
		return nil, nil, ErrEmptyQuery
	}
	if k <= 0 {
		k = DefaultK
	}

	queryVec, err := embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, nil, &embedding.Error{Err: err}
	}

	scored, err := base.Search(ctx, queryVec, k)
	if err != nil {
		return nil, nil, err
	}

	fragments := make([]models.Fragment, len(scored))
	scores := make([]float32, len(scored))
	for i, s := range scored {
		fragments[i] = s.Fragment
		scores[i] = s.Score
	}
	return fragments, scores, nil
}
