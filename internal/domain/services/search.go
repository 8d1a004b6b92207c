package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/ports"
)

// DefaultSearchLimit is the default number of results to return.
const DefaultSearchLimit = 10

// embedBatchSize caps the texts sent per embedding request.
const embedBatchSize = 100

// SearchResult is a person matched by semantic search.
type SearchResult struct {
	Person entities.Person `json:"person"`
	Score  float32         `json:"score"`
}

// SearchService handles semantic person search.
type SearchService struct {
	embedder ports.Embedder
	index    ports.PersonIndex
	source   GraphSource
}

// NewSearchService creates a new search service.
func NewSearchService(embedder ports.Embedder, index ports.PersonIndex, source GraphSource) *SearchService {
	return &SearchService{
		embedder: embedder,
		index:    index,
		source:   source,
	}
}

// PersonText is the text embedded for a person.
func PersonText(p entities.Person) string {
	parts := make([]string, 0, 6)
	for _, s := range []string{p.Name, p.Title, p.BirthPlace, p.Address, p.BuriedAt, p.Notes} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Index replaces the person index with embeddings of the current people.
// Returns the number of people indexed.
func (s *SearchService) Index(ctx context.Context) (int, error) {
	people := s.source.Graph().People()

	if err := s.index.DeleteAll(ctx); err != nil {
		return 0, fmt.Errorf("clearing person index: %w", err)
	}

	indexed := 0
	for start := 0; start < len(people); start += embedBatchSize {
		end := min(start+embedBatchSize, len(people))
		batch := people[start:end]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = PersonText(p)
		}

		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return indexed, fmt.Errorf("generating embeddings: %w", err)
		}
		if len(embeddings) != len(batch) {
			return indexed, fmt.Errorf("embedder returned %d vectors for %d people", len(embeddings), len(batch))
		}

		vectors := make([]ports.PersonVector, len(batch))
		for i, p := range batch {
			vectors[i] = ports.PersonVector{
				PersonID:  p.ID,
				Name:      p.Name,
				Text:      texts[i],
				Embedding: embeddings[i],
			}
		}
		if err := s.index.SaveBatch(ctx, vectors); err != nil {
			return indexed, fmt.Errorf("saving person vectors: %w", err)
		}
		indexed += len(batch)
	}

	return indexed, nil
}

// Search finds people semantically similar to the query. Hits for people no
// longer in the tree are dropped.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("generating query embedding: %w", err)
	}

	hits, err := s.index.Search(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("searching people: %w", err)
	}

	g := s.source.Graph()
	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		p, ok := g.Person(h.PersonID)
		if !ok {
			continue
		}
		results = append(results, SearchResult{Person: p, Score: h.Score})
	}
	return results, nil
}

// Remove drops a person's vector from the index.
func (s *SearchService) Remove(ctx context.Context, personID string) error {
	if err := s.index.Delete(ctx, personID); err != nil {
		return fmt.Errorf("removing person vector: %w", err)
	}
	return nil
}
