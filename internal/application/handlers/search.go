package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/famitree/internal/domain/ports"
	"github.com/ersonp/famitree/internal/domain/services"
	embedder "github.com/ersonp/famitree/internal/infrastructure/embedder/openai"
)

// SearchHandler handles indexing and semantic person search.
type SearchHandler struct {
	service           *services.SearchService
	collectionManager ports.CollectionManager
}

// NewSearchHandler creates a new search handler. collectionManager may be nil.
func NewSearchHandler(service *services.SearchService, collectionManager ports.CollectionManager) *SearchHandler {
	return &SearchHandler{
		service:           service,
		collectionManager: collectionManager,
	}
}

// SearchResult contains the result of a search.
type SearchResult struct {
	Query   string                  `json:"query"`
	Results []services.SearchResult `json:"results"`
}

// HandleIndex (re)builds the person index and returns the number indexed.
func (h *SearchHandler) HandleIndex(ctx context.Context) (int, error) {
	if h.collectionManager != nil {
		if err := h.collectionManager.EnsureCollection(ctx, embedder.VectorSize); err != nil {
			return 0, fmt.Errorf("creating collection: %w", err)
		}
	}
	n, err := h.service.Index(ctx)
	if err != nil {
		return 0, fmt.Errorf("indexing people: %w", err)
	}
	return n, nil
}

// HandleUnindex drops one person's vector, e.g. after they were deleted.
func (h *SearchHandler) HandleUnindex(ctx context.Context, personID string) error {
	return h.service.Remove(ctx, personID)
}

// HandleSearch finds people similar to query.
func (h *SearchHandler) HandleSearch(ctx context.Context, query string, limit int) (*SearchResult, error) {
	results, err := h.service.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching people: %w", err)
	}

	return &SearchResult{
		Query:   query,
		Results: results,
	}, nil
}
