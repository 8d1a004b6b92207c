// Package mocks provides mock implementations for testing.
package mocks

import "context"

// Embedder is a mock implementation of ports.Embedder. Every vector it
// returns is EmbeddingResult.
type Embedder struct {
	EmbeddingResult []float32
	Err             error

	// Texts records every text embedded, in call order.
	Texts      []string
	BatchCalls int
}

// Embed returns the configured embedding or error.
func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Texts = append(m.Texts, text)
	return m.EmbeddingResult, nil
}

// EmbedBatch returns one copy of EmbeddingResult per text.
func (m *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.BatchCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	m.Texts = append(m.Texts, texts...)
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.EmbeddingResult
	}
	return result, nil
}
