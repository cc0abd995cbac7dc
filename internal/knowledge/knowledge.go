// Package knowledge holds the queryable vector index for one
// document. A base is built once from the full fragment/vector set and
// is read-only afterwards, so concurrent searches need no locking.
// Similarity is cosine: chromem-go normalizes every vector and ranks
// by normalized dot product, matching how OpenAI-style embeddings are
// distributed. The metric is fixed at build time and must match the
// embedding provider used at query time.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"pdfchat/internal/models"
)

var (
	// ErrCountMismatch means the fragment and vector slices are not
	// 1:1. This is a programmer error on the build path; fail fast.
	ErrCountMismatch = errors.New("fragments and vectors count mismatch")

	// ErrEmpty means there is nothing to index. The extractor already
	// rejects text-free documents, so hitting this indicates a broken
	// build path.
	ErrEmpty = errors.New("no fragments to index")
)

// DimensionError means a vector's width disagrees with the index
// dimensionality.
type DimensionError struct {
	Want, Got int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// Base is the built knowledge base for a single document.
type Base struct {
	collection *chromem.Collection
	fragments  []models.Fragment
	dimension  int
}

// Build indexes the fragments with their precomputed vectors in a
// fresh in-memory store. It requires a complete 1:1 mapping; there is
// no partial or incremental build.
func Build(ctx context.Context, fragments []models.Fragment, vectors [][]float32) (*Base, error) {
	if len(fragments) != len(vectors) {
		return nil, ErrCountMismatch
	}
	if len(fragments) == 0 {
		return nil, ErrEmpty
	}

	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, &DimensionError{Want: 1, Got: 0}
	}
	for _, v := range vectors {
		if len(v) != dimension {
			return nil, &DimensionError{Want: dimension, Got: len(v)}
		}
	}

	collection, err := chromem.NewDB().GetOrCreateCollection(uuid.NewString(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	docs := make([]chromem.Document, len(fragments))
	for i, f := range fragments {
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("fragment-%d", f.Ordinal),
			Content:   f.Content,
			Metadata:  map[string]string{"ordinal": strconv.Itoa(f.Ordinal)},
			Embedding: vectors[i],
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("indexing fragments: %w", err)
	}

	base := &Base{
		collection: collection,
		fragments:  append([]models.Fragment(nil), fragments...),
		dimension:  dimension,
	}
	return base, nil
}

// Len returns the number of indexed fragments.
func (b *Base) Len() int { return len(b.fragments) }

// Dimension returns the vector width the base was built with.
func (b *Base) Dimension() int { return b.dimension }

// Search returns up to k fragments ranked by descending cosine
// similarity to queryVec. A k beyond the fragment count returns all
// fragments. Equal scores are ordered by ascending fragment ordinal so
// results are deterministic.
func (b *Base) Search(ctx context.Context, queryVec []float32, k int) ([]models.ScoredFragment, error) {
	if k <= 0 {
		return nil, fmt.Errorf("search k must be positive, got %d", k)
	}
	if len(queryVec) != b.dimension {
		return nil, &DimensionError{Want: b.dimension, Got: len(queryVec)}
	}
	if k > b.Len() {
		k = b.Len()
	}

	// Always rank the full set and cut to k afterwards. chromem's
	// top-n heap keeps an arbitrary member of an equal-score group, so
	// truncation has to happen after the ordinal tie-break, not inside
	// the store. chromem scores every document regardless of NResults;
	// this costs nothing extra.
	results, err := b.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryVec,
		NResults:       b.Len(),
	})
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	scored := make([]models.ScoredFragment, 0, len(results))
	for _, res := range results {
		ordinal, err := strconv.Atoi(res.Metadata["ordinal"])
		if err != nil || ordinal < 0 || ordinal >= len(b.fragments) {
			return nil, fmt.Errorf("corrupt index metadata for %s", res.ID)
		}
		scored = append(scored, models.ScoredFragment{
			Fragment: b.fragments[ordinal],
			Score:    res.Similarity,
		})
	}

	// chromem orders equal scores arbitrarily.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Fragment.Ordinal < scored[j].Fragment.Ordinal
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}
