package vectorstore

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qatbot/internal/models"
)

const testDim = 64

// wordEmbedder hashes words into a fixed-dimension bag-of-words vector, so
// identical texts always embed identically and the index can be exercised
// without a live embedding service.
type wordEmbedder struct{}

func (wordEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, testDim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[int(h.Sum32()%testDim)]++
	}
	return vec, nil
}

func (e wordEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

type failingEmbedder struct{}

func (failingEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding service unreachable")
}

func (failingEmbedder) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embedding service unreachable")
}

func TestQueryWithoutIndex(t *testing.T) {
	s, err := New(t.TempDir(), "documents", wordEmbedder{})
	require.NoError(t, err)
	assert.False(t, s.HasIndex())

	_, err = s.Query(context.Background(), "anything", 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrIndexNotFound)
}

func TestBuildAndQuery(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir(), "documents", wordEmbedder{})
	require.NoError(t, err)

	chunks := []string{
		"cats hunt mice during quiet evenings",
		"airplanes cross oceans between continents",
		"rivers carve valleys over centuries",
	}
	require.NoError(t, s.Build(ctx, chunks))
	assert.True(t, s.HasIndex())

	got, err := s.Query(ctx, "cats hunt mice during quiet evenings", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, chunks[0], got[0])
}

func TestQueryClampsToIndexSize(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir(), "documents", wordEmbedder{})
	require.NoError(t, err)

	require.NoError(t, s.Build(ctx, []string{"alpha beta", "gamma delta"}))

	got, err := s.Query(ctx, "alpha", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestBuildEmptyChunks(t *testing.T) {
	s, err := New(t.TempDir(), "documents", wordEmbedder{})
	require.NoError(t, err)

	err = s.Build(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestBuildReplacesIndex(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir(), "documents", wordEmbedder{})
	require.NoError(t, err)

	require.NoError(t, s.Build(ctx, []string{"the first corpus about botany"}))
	require.NoError(t, s.Build(ctx, []string{"the second corpus about astronomy"}))

	got, err := s.Query(ctx, "the first corpus about botany", 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "the second corpus about astronomy", got[0])
}

// emptyVectorEmbedder yields vectors chromem refuses to store, so a build
// fails only after the replacement collection has been created.
type emptyVectorEmbedder struct{}

func (emptyVectorEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return nil, nil
}

func (emptyVectorEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}

func TestFailedRebuildKeepsDurableIndex(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := New(dir, "documents", wordEmbedder{})
	require.NoError(t, err)
	require.NoError(t, s.Build(ctx, []string{"durable chunk about geology"}))

	// a rebuild that dies while writing documents must not tear down the
	// previous index
	broken, err := New(dir, "documents", emptyVectorEmbedder{})
	require.NoError(t, err)
	err = broken.Build(ctx, []string{""})
	require.Error(t, err)

	reopened, err := New(dir, "documents", wordEmbedder{})
	require.NoError(t, err)
	assert.True(t, reopened.HasIndex())

	got, err := reopened.Query(ctx, "durable chunk about geology", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "durable chunk about geology", got[0])
}

func TestIndexSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := New(dir, "documents", wordEmbedder{})
	require.NoError(t, err)
	require.NoError(t, s.Build(ctx, []string{"persisted chunk about geology"}))

	reopened, err := New(dir, "documents", wordEmbedder{})
	require.NoError(t, err)
	assert.True(t, reopened.HasIndex())

	got, err := reopened.Query(ctx, "persisted chunk about geology", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "persisted chunk about geology", got[0])
}

func TestBuildEmbeddingFailure(t *testing.T) {
	s, err := New(t.TempDir(), "documents", failingEmbedder{})
	require.NoError(t, err)

	err = s.Build(context.Background(), []string{"a chunk"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmbeddingService)
}
