package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/models"
)

func fragmentsOf(contents ...string) []models.Fragment {
	fragments := make([]models.Fragment, len(contents))
	for i, c := range contents {
		fragments[i] = models.Fragment{Content: c, Ordinal: i}
	}
	return fragments
}

func TestBuildCountMismatch(t *testing.T) {
	_, err := Build(context.Background(), fragmentsOf("a", "b"), [][]float32{{1, 0}})
	assert.ErrorIs(t, err, ErrCountMismatch)
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestBuildRaggedVectors(t *testing.T) {
	_, err := Build(context.Background(), fragmentsOf("a", "b"), [][]float32{{1, 0}, {1}})
	var dimErr *DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 2, dimErr.Want)
	assert.Equal(t, 1, dimErr.Got)
}

func TestBuildAndLen(t *testing.T) {
	base, err := Build(context.Background(), fragmentsOf("a", "b", "c"),
		[][]float32{{1, 0}, {0, 1}, {0.6, 0.8}})
	require.NoError(t, err)
	assert.Equal(t, 3, base.Len())
	assert.Equal(t, 2, base.Dimension())
}

func TestSearchRanking(t *testing.T) {
	ctx := context.Background()
	base, err := Build(ctx, fragmentsOf("a", "b", "c"),
		[][]float32{{1, 0}, {0, 1}, {0.6, 0.8}})
	require.NoError(t, err)

	results, err := base.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Cosine similarity to [1,0]: a=1.0, c=0.6, b=0.0.
	assert.Equal(t, "a", results[0].Fragment.Content)
	assert.Equal(t, "c", results[1].Fragment.Content)
	assert.Equal(t, "b", results[2].Fragment.Content)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestSearchKClampedToFragmentCount(t *testing.T) {
	ctx := context.Background()
	base, err := Build(ctx, fragmentsOf("a", "b"), [][]float32{{1, 0}, {0, 1}})
	require.NoError(t, err)

	results, err := base.Search(ctx, []float32{1, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchTopK(t *testing.T) {
	ctx := context.Background()
	base, err := Build(ctx, fragmentsOf("a", "b", "c"),
		[][]float32{{1, 0}, {0, 1}, {0.6, 0.8}})
	require.NoError(t, err)

	results, err := base.Search(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Fragment.Content)
}

func TestSearchTiesBrokenByOrdinal(t *testing.T) {
	ctx := context.Background()
	// Fragments 1 and 2 share a direction, so they tie exactly against
	// a [0,1] query; the tie must resolve by ascending ordinal.
	base, err := Build(ctx, fragmentsOf("a", "b", "c"),
		[][]float32{{1, 0}, {0, 1}, {0, 1}})
	require.NoError(t, err)

	results, err := base.Search(ctx, []float32{0, 1}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 1, results[0].Fragment.Ordinal)
	assert.Equal(t, 2, results[1].Fragment.Ordinal)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, 0, results[2].Fragment.Ordinal)
}

func TestSearchTieGroupLargerThanK(t *testing.T) {
	ctx := context.Background()

	// All eight fragments share one direction and tie exactly against
	// the query. When the tie group straddles the k boundary, which
	// fragments make the cut must still resolve by ascending ordinal,
	// on every query.
	fragments := fragmentsOf("a", "b", "c", "d", "e", "f", "g", "h")
	vectors := make([][]float32, len(fragments))
	for i := range vectors {
		vectors[i] = []float32{0, 1}
	}
	base, err := Build(ctx, fragments, vectors)
	require.NoError(t, err)

	for run := 0; run < 10; run++ {
		results, err := base.Search(ctx, []float32{0, 1}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 0, results[0].Fragment.Ordinal, "run %d", run)

		results, err = base.Search(ctx, []float32{0, 1}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		for i, want := range []int{0, 1, 2} {
			assert.Equal(t, want, results[i].Fragment.Ordinal, "run %d, rank %d", run, i)
		}
	}
}

func TestSearchInvalidInput(t *testing.T) {
	ctx := context.Background()
	base, err := Build(ctx, fragmentsOf("a"), [][]float32{{1, 0}})
	require.NoError(t, err)

	_, err = base.Search(ctx, []float32{1, 0}, 0)
	assert.Error(t, err)

	_, err = base.Search(ctx, []float32{1, 0, 0}, 1)
	var dimErr *DimensionError
	assert.ErrorAs(t, err, &dimErr)
}
