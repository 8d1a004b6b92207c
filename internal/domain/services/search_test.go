package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/famitree/internal/domain/entities"
	"github.com/ersonp/famitree/internal/domain/mocks"
	"github.com/ersonp/famitree/internal/domain/ports"
)

func TestPersonText(t *testing.T) {
	p := entities.Person{Name: "An", Title: "Ông", BirthPlace: "Huế", Notes: "  ", BuriedAt: "Đà Nẵng"}
	assert.Equal(t, "An, Ông, Huế, Đà Nẵng", PersonText(p))
}

func TestSearchService_Index(t *testing.T) {
	people := make([]entities.Person, 0, embedBatchSize+5)
	for i := range embedBatchSize + 5 {
		people = append(people, person(fmt.Sprintf("p%d", i), fmt.Sprintf("Person %d", i)))
	}
	index := &mocks.PersonIndex{}
	embedder := &mocks.Embedder{EmbeddingResult: []float32{0.1, 0.2}}
	svc := NewSearchService(embedder, index, staticSource{newTestGraph(people)})

	n, err := svc.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(people), n)
	assert.Equal(t, 1, index.DeleteAllCallCount)
	assert.Equal(t, 2, index.SaveBatchCallCount)
	require.Len(t, index.Vectors, len(people))
	assert.Equal(t, "p0", index.Vectors[0].PersonID)
	assert.Equal(t, "Person 0", index.Vectors[0].Text)
	assert.Equal(t, 2, embedder.BatchCalls)
	assert.Len(t, embedder.Texts, len(people))
}

func TestSearchService_IndexEmbedderError(t *testing.T) {
	index := &mocks.PersonIndex{}
	embedder := &mocks.Embedder{Err: errors.New("quota")}
	svc := NewSearchService(embedder, index, staticSource{newTestGraph([]entities.Person{person("a", "A")})})

	_, err := svc.Index(context.Background())
	assert.ErrorContains(t, err, "generating embeddings")
	assert.Empty(t, index.Vectors)
}

func TestSearchService_Search(t *testing.T) {
	g := newTestGraph([]entities.Person{person("a", "An"), person("b", "Binh")})
	index := &mocks.PersonIndex{Hits: []ports.PersonHit{
		{PersonID: "b", Name: "Binh", Score: 0.9},
		{PersonID: "deleted", Name: "Gone", Score: 0.8},
		{PersonID: "a", Name: "An", Score: 0.5},
	}}
	svc := NewSearchService(&mocks.Embedder{EmbeddingResult: []float32{1}}, index, staticSource{g})

	results, err := svc.Search(context.Background(), "binh", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"binh"}, svc.embedder.(*mocks.Embedder).Texts)
	require.Len(t, results, 2, "stale hit is dropped")
	assert.Equal(t, "Binh", results[0].Person.Name)
	assert.InDelta(t, 0.9, results[0].Score, 1e-6)

	results, err = svc.Search(context.Background(), "binh", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	require.NoError(t, svc.Remove(context.Background(), "a"))
	assert.Equal(t, []string{"a"}, index.DeletedIDs)
}

func TestSearchService_SearchErrors(t *testing.T) {
	g := newTestGraph(nil)

	svc := NewSearchService(&mocks.Embedder{Err: errors.New("down")}, &mocks.PersonIndex{}, staticSource{g})
	_, err := svc.Search(context.Background(), "x", 5)
	assert.ErrorContains(t, err, "generating query embedding")

	svc = NewSearchService(&mocks.Embedder{}, &mocks.PersonIndex{Err: errors.New("unavailable")}, staticSource{g})
	_, err = svc.Search(context.Background(), "x", 5)
	assert.ErrorContains(t, err, "searching people")
}
