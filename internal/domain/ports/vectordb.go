package ports

import "context"

// PersonVector is a person's embedding plus the payload needed to show a hit.
type PersonVector struct {
	PersonID  string
	Name      string
	Text      string
	Embedding []float32
}

// PersonHit is a scored search result.
type PersonHit struct {
	PersonID string
	Name     string
	Score    float32
}

// PersonIndex defines the interface for vector search over people.
type PersonIndex interface {
	// SaveBatch upserts person vectors.
	SaveBatch(ctx context.Context, vectors []PersonVector) error

	// Search performs a semantic search and returns the closest people.
	Search(ctx context.Context, embedding []float32, limit int) ([]PersonHit, error)

	// Delete removes a person's vector.
	Delete(ctx context.Context, personID string) error

	// DeleteAll removes every vector in the collection.
	DeleteAll(ctx context.Context) error
}
