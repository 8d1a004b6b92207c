package qdrant

import (
	"context"
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/famitree/internal/domain/ports"
	"github.com/ersonp/famitree/internal/infrastructure/config"
)

func TestPointID(t *testing.T) {
	a := PointID("p1")
	assert.Equal(t, a, PointID("p1"))
	assert.NotEqual(t, a, PointID("p2"))
	assert.Len(t, a, 36)
}

func TestToPoint(t *testing.T) {
	point := toPoint(ports.PersonVector{
		PersonID:  "p1",
		Name:      "Nguyen Van An",
		Text:      "Nguyen Van An, Hanoi",
		Embedding: []float32{0.1, 0.2},
	})

	assert.Equal(t, PointID("p1"), point.Id.GetUuid())
	assert.Equal(t, []float32{0.1, 0.2}, point.Vectors.GetVector().Data)
	assert.Equal(t, "p1", point.Payload["person_id"].GetStringValue())
	assert.Equal(t, "Nguyen Van An", point.Payload["name"].GetStringValue())
}

func TestScoredPointsToHits(t *testing.T) {
	str := func(s string) *pb.Value {
		return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
	}
	points := []*pb.ScoredPoint{
		{Payload: map[string]*pb.Value{"person_id": str("p1"), "name": str("An")}, Score: 0.9},
		{Payload: map[string]*pb.Value{"name": str("orphan")}, Score: 0.8},
		{Payload: map[string]*pb.Value{"person_id": str("p2")}, Score: 0.5},
	}

	hits := scoredPointsToHits(points)
	require.Len(t, hits, 2)
	assert.Equal(t, ports.PersonHit{PersonID: "p1", Name: "An", Score: 0.9}, hits[0])
	assert.Equal(t, "p2", hits[1].PersonID)
}

func TestAPIKeyCredentials(t *testing.T) {
	creds := apiKeyCredentials("secret")
	md, err := creds.GetRequestMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret", md["api-key"])
	assert.False(t, creds.RequireTransportSecurity())
}

func TestNewRepository(t *testing.T) {
	// grpc.NewClient connects lazily, so no server is needed.
	repo, err := NewRepository(config.QdrantConfig{Host: "localhost", Port: 6334, Collection: "famitree_test", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "famitree_test", repo.collection)
	require.NoError(t, repo.Close())
}
