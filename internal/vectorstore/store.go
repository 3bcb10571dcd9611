// Package vectorstore maintains the similarity-searchable index over
// document chunks, backed by a persistent chromem-go database.
package vectorstore

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"qatbot/internal/models"
)

const (
	// DefaultTopK is the number of chunks a query returns.
	DefaultTopK = 4
	// fetchK is how many nearest neighbors are pulled before MMR re-ranking.
	fetchK = 20

	compress = false
)

// Store owns the active index. Build replaces it wholesale; Query reads it.
// Each build writes a fresh generation-named collection and the previous one
// is dropped only after the replacement is fully persisted, so neither
// readers nor the durable state ever observe a half-built index.
type Store struct {
	mu       sync.RWMutex
	db       *chromem.DB
	col      *chromem.Collection
	colName  string
	embedder embeddings.Embedder
	name     string
}

// New opens (or creates) the persistent database at path and loads the
// newest persisted generation of the collection if one exists. Empty or
// superseded generations left behind by an interrupted build are dropped.
func New(path, collectionName string, embedder embeddings.Embedder) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector database: %v", err)
	}

	s := &Store{db: db, embedder: embedder, name: collectionName}

	var names []string
	for name := range db.ListCollections() {
		if strings.HasPrefix(name, collectionName) {
			names = append(names, name)
		}
	}
	// generation suffixes are fixed-width nanosecond timestamps, so the
	// lexically greatest name is the newest build
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	for _, name := range names {
		if s.col == nil {
			if col := db.GetCollection(name, s.embedText); col != nil && col.Count() > 0 {
				s.col = col
				s.colName = name
				continue
			}
		}
		if err := db.DeleteCollection(name); err != nil {
			return nil, fmt.Errorf("failed to drop stale collection: %v", err)
		}
	}
	if s.col != nil {
		log.Info().Int("chunks", s.col.Count()).Msg("Loaded persisted index")
	}
	return s, nil
}

func (s *Store) embedText(ctx context.Context, text string) ([]float32, error) {
	return s.embedder.EmbedQuery(ctx, text)
}

// Build embeds every chunk and constructs a fresh collection in the durable
// location, then swaps it in as the active index and drops the previous
// generation. A failure mid-build discards only the new collection: the
// prior index keeps serving queries and stays on disk. There are no merge
// semantics: a new upload replaces the store.
func (s *Store) Build(ctx context.Context, chunks []string) error {
	if len(chunks) == 0 {
		return fmt.Errorf("%w: no chunks to index", models.ErrValidation)
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrEmbeddingService, err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("chunk-%d", i),
			Content:   chunk,
			Embedding: vectors[i],
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := fmt.Sprintf("%s-%d", s.name, time.Now().UnixNano())
	col, err := s.db.CreateCollection(name, nil, s.embedText)
	if err != nil {
		return fmt.Errorf("failed to create collection: %v", err)
	}
	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		_ = s.db.DeleteCollection(name)
		return fmt.Errorf("failed to add documents: %v", err)
	}

	if s.colName != "" {
		if err := s.db.DeleteCollection(s.colName); err != nil {
			log.Warn().Err(err).Str("collection", s.colName).Msg("Failed to drop replaced collection")
		}
	}
	s.col = col
	s.colName = name
	log.Info().Int("chunks", len(docs)).Msg("Index built and persisted")
	return nil
}

// Query embeds text and returns the k most relevant chunks, re-ranked with
// maximal marginal relevance, most-relevant-first. Fewer than k chunks come
// back only when the index holds fewer than k documents.
func (s *Store) Query(ctx context.Context, text string, k int) ([]string, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	s.mu.RLock()
	col := s.col
	s.mu.RUnlock()
	if col == nil || col.Count() == 0 {
		return nil, fmt.Errorf("%w: upload a document first", models.ErrIndexNotFound)
	}

	qv, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEmbeddingService, err)
	}

	n := fetchK
	if count := col.Count(); n > count {
		n = count
	}
	results, err := col.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: qv,
		NResults:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %v", err)
	}

	candidates := make([][]float32, len(results))
	for i, r := range results {
		candidates[i] = r.Embedding
	}
	if k > len(results) {
		k = len(results)
	}
	chunks := make([]string, 0, k)
	for _, idx := range maximalMarginalRelevance(qv, candidates, k, mmrLambda) {
		chunks = append(chunks, results[idx].Content)
	}
	return chunks, nil
}

// HasIndex reports whether an active index is available.
func (s *Store) HasIndex() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.col != nil && s.col.Count() > 0
}
