package chromemdb

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"supportbot/internal/embedding"
	"supportbot/internal/models"
)

const (
	collectionName = "passages"

	metaSource  = "source"
	metaPage    = "page"
	metaChunkID = "chunk_id"
)

// Index is a read-only similarity index over passages, held in an in-memory
// chromem-go collection. It is built once by Build and has no mutation API.
type Index struct {
	collection *chromem.Collection
	embedder   embeddings.Embedder
	sources    []string
}

// Build embeds every passage and loads it into a fresh in-memory collection.
func Build(ctx context.Context, embedder embeddings.Embedder, passages []models.Passage) (*Index, error) {
	db := chromem.NewDB()
	c, err := db.CreateCollection(collectionName, nil, embedFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	idx := &Index{collection: c, embedder: embedder, sources: uniqueSources(passages)}
	if len(passages) == 0 {
		log.Warn().Msg("Building an empty index")
		return idx, nil
	}

	vectors, err := embedding.EmbedPassages(ctx, embedder, passages)
	if err != nil {
		return nil, err
	}

	docs := make([]chromem.Document, len(passages))
	for i, p := range passages {
		docs[i] = chromem.Document{
			ID:      p.ID,
			Content: p.Content,
			Metadata: map[string]string{
				metaSource:  p.Source,
				metaPage:    strconv.Itoa(p.Page),
				metaChunkID: strconv.Itoa(p.ChunkID),
			},
			Embedding: vectors[i],
		}
	}

	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("failed to add documents: %w", err)
	}

	log.Info().Int("documents", c.Count()).Strs("sources", idx.sources).Msg("Built similarity index")
	return idx, nil
}

// Search returns up to k passages most similar to query, best first.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]models.Citation, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	count := idx.collection.Count()
	if count == 0 {
		return nil, nil
	}

	queryEmbedding, err := idx.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, models.NewError(models.KindBackendUnavailable, "embed query", err)
	}

	// chromem-go leaves equal similarities in arbitrary order, so rank every
	// document and break ties on the passage ID before cutting to k.
	results, err := idx.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       count,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].ID < results[j].ID
	})
	results = results[:min(k, len(results))]

	citations := make([]models.Citation, len(results))
	for i, r := range results {
		page, _ := strconv.Atoi(r.Metadata[metaPage])
		citations[i] = models.Citation{
			Source:     r.Metadata[metaSource],
			Page:       page,
			Content:    r.Content,
			Similarity: r.Similarity,
		}
	}
	return citations, nil
}

func (idx *Index) Count() int {
	return idx.collection.Count()
}

// Sources returns the distinct source filenames in the index, sorted.
func (idx *Index) Sources() []string {
	out := make([]string, len(idx.sources))
	copy(out, idx.sources)
	return out
}

func embedFunc(embedder embeddings.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}
}

func uniqueSources(passages []models.Passage) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range passages {
		if _, ok := seen[p.Source]; ok {
			continue
		}
		seen[p.Source] = struct{}{}
		out = append(out, p.Source)
	}
	sort.Strings(out)
	return out
}
