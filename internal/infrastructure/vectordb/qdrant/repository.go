// Package qdrant provides a PersonIndex implementation using Qdrant.
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ersonp/famitree/internal/domain/ports"
	"github.com/ersonp/famitree/internal/infrastructure/config"
)

// pointNamespace derives stable point ids from person ids, which are not
// UUIDs in general.
var pointNamespace = uuid.MustParse("6f1d3c2e-8a4b-5e7f-9c0d-1b2a3e4f5a6b")

// Repository implements ports.PersonIndex and ports.CollectionManager.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if cfg.APIKey != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(apiKeyCredentials(cfg.APIKey)))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

// apiKeyCredentials sends the Qdrant api-key header on every call.
type apiKeyCredentials string

func (k apiKeyCredentials) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"api-key": string(k)}, nil
}

func (apiKeyCredentials) RequireTransportSecurity() bool {
	return false
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// EnsureCollection creates the collection if it doesn't exist.
func (r *Repository) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// DeleteCollection removes the collection and all its data.
func (r *Repository) DeleteCollection(ctx context.Context) error {
	_, err := r.client.Delete(ctx, &pb.DeleteCollection{
		CollectionName: r.collection,
	})
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// PointID maps a person id to its Qdrant point id.
func PointID(personID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(personID)).String()
}

// SaveBatch upserts person vectors.
func (r *Repository) SaveBatch(ctx context.Context, vectors []ports.PersonVector) error {
	if len(vectors) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, 0, len(vectors))
	for _, v := range vectors {
		points = append(points, toPoint(v))
	}

	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Wait:           pb.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	return nil
}

func toPoint(v ports.PersonVector) *pb.PointStruct {
	return &pb.PointStruct{
		Id: &pb.PointId{
			PointIdOptions: &pb.PointId_Uuid{
				Uuid: PointID(v.PersonID),
			},
		},
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{
					Data: v.Embedding,
				},
			},
		},
		Payload: map[string]*pb.Value{
			"person_id": {Kind: &pb.Value_StringValue{StringValue: v.PersonID}},
			"name":      {Kind: &pb.Value_StringValue{StringValue: v.Name}},
			"text":      {Kind: &pb.Value_StringValue{StringValue: v.Text}},
		},
	}
}

// Search performs a semantic search and returns the closest people.
func (r *Repository) Search(ctx context.Context, embedding []float32, limit int) ([]ports.PersonHit, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         embedding,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	return scoredPointsToHits(resp.Result), nil
}

// Delete removes a person's vector.
func (r *Repository) Delete(ctx context.Context, personID string) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Wait:           pb.PtrOf(true),
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(personID)}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting point: %w", err)
	}

	return nil
}

// DeleteAll removes every vector in the collection.
func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Wait:           pb.PtrOf(true),
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting all points: %w", err)
	}

	return nil
}

// Count returns the number of indexed people.
func (r *Repository) Count(ctx context.Context) (uint64, error) {
	resp, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("getting collection info: %w", err)
	}

	if resp.Result.PointsCount == nil {
		return 0, nil
	}

	return *resp.Result.PointsCount, nil
}

// scoredPointsToHits converts scored points to hits. Points without a
// person_id payload are skipped.
func scoredPointsToHits(points []*pb.ScoredPoint) []ports.PersonHit {
	hits := make([]ports.PersonHit, 0, len(points))
	for _, point := range points {
		id := getStringValue(point.Payload, "person_id")
		if id == "" {
			continue
		}
		hits = append(hits, ports.PersonHit{
			PersonID: id,
			Name:     getStringValue(point.Payload, "name"),
			Score:    point.Score,
		})
	}
	return hits
}

func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
