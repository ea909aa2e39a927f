package vectorindex

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"localbrain/internal/domain"
)

// QdrantIndex is a Vector Index backed by Qdrant over its gRPC API.
// Point ids are deterministic UUIDs derived from the logical chunk id,
// so re-ingesting a source overwrites its previous points.
type QdrantIndex struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	dimension   int
	timeout     time.Duration
}

// QdrantConfig holds connection details for a Qdrant instance.
type QdrantConfig struct {
	Host       string
	Port       int
	Collection string
	Dimension  int
	Timeout    time.Duration
}

// NewQdrantIndex connects to Qdrant and ensures the collection exists
// with the configured dimension. An existing collection with a
// different dimension is a configuration error.
func NewQdrantIndex(ctx context.Context, cfg QdrantConfig) (*QdrantIndex, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("%w: qdrant index needs a positive vector dimension", domain.ErrInvalidConfiguration)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	idx := &QdrantIndex{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  cfg.Collection,
		dimension:   cfg.Dimension,
		timeout:     timeout,
	}
	if err := idx.ensureCollection(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return idx, nil
}

func (q *QdrantIndex) ensureCollection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()
	exists, err := q.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{CollectionName: q.collection})
	if err != nil {
		return fmt.Errorf("qdrant collection check: %w", err)
	}
	if exists.GetResult().GetExists() {
		info, err := q.collections.Get(ctx, &pb.GetCollectionInfoRequest{CollectionName: q.collection})
		if err != nil {
			return fmt.Errorf("qdrant collection info: %w", err)
		}
		size := info.GetResult().GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != 0 && size != uint64(q.dimension) {
			return fmt.Errorf("%w: collection %q stores %d-dimensional vectors, configured dimension is %d",
				domain.ErrInvalidConfiguration, q.collection, size, q.dimension)
		}
		return nil
	}
	_, err = q.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{Size: uint64(q.dimension), Distance: pb.Distance_Cosine},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant collection create: %w", err)
	}
	return nil
}

// Upsert writes all points in one request and waits for them to become
// queryable.
func (q *QdrantIndex) Upsert(ctx context.Context, points []domain.Point) error {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()
	pts := make([]*pb.PointStruct, len(points))
	for i, p := range points {
		if len(p.Vector) != q.dimension {
			return fmt.Errorf("%w: vector dimension %d does not match collection dimension %d",
				domain.ErrInvalidConfiguration, len(p.Vector), q.dimension)
		}
		payload := map[string]*pb.Value{
			"chunk_id": {Kind: &pb.Value_StringValue{StringValue: p.ID}},
			"text":     {Kind: &pb.Value_StringValue{StringValue: p.Text}},
		}
		for k, v := range p.Metadata {
			payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
		}
		pts[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: pointUUID(p.ID)}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: p.Vector}}},
			Payload: payload,
		}
	}
	wait := true
	_, err := q.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points:         pts,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

// Query returns up to k nearest points. Qdrant reports a cosine
// similarity score (higher is closer); it is converted to a distance so
// results order ascending like every other index.
func (q *QdrantIndex) Query(ctx context.Context, vector []float32, k int) ([]domain.RetrievalResult, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()
	resp, err := q.points.Search(ctx, &pb.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector,
		Limit:          uint64(k),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}
	results := make([]domain.RetrievalResult, len(resp.Result))
	for i, pt := range resp.Result {
		res := domain.RetrievalResult{
			ChunkID:  pt.Id.GetUuid(),
			Distance: 1 - float64(pt.Score),
			Metadata: make(map[string]string, len(pt.Payload)),
		}
		for key, val := range pt.Payload {
			switch key {
			case "chunk_id":
				res.ChunkID = val.GetStringValue()
			case "text":
				res.Text = val.GetStringValue()
			default:
				res.Metadata[key] = val.GetStringValue()
			}
		}
		results[i] = res
	}
	return results, nil
}

// Count reports the exact number of stored points.
func (q *QdrantIndex) Count(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()
	exact := true
	resp, err := q.points.Count(ctx, &pb.CountPoints{CollectionName: q.collection, Exact: &exact})
	if err != nil {
		return 0, fmt.Errorf("qdrant count: %w", err)
	}
	return resp.GetResult().GetCount(), nil
}

// Close releases the gRPC connection.
func (q *QdrantIndex) Close() error { return q.conn.Close() }

func pointUUID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

var _ domain.VectorIndex = (*QdrantIndex)(nil)
