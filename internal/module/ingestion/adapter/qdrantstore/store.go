package qdrantstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
	search "github.com/jinford/dev-ingest/internal/module/search/domain"
)

// DefaultCollection はチャンクを格納するコレクション名のデフォルト値
const DefaultCollection = "dev_ingest_chunks"

// ペイロードのキー
const (
	fieldDocumentID   = "document_id"
	fieldDocumentName = "document_name"
	fieldSourceURI    = "source_uri"
	fieldContent      = "content"
	fieldChunkIndex   = "chunk_index"
	fieldTotalChunks  = "total_chunks"
	fieldRowStart     = "row_start"
	fieldRowEnd       = "row_end"
	fieldColumnCount  = "column_count"
	fieldHeaders      = "headers"
	fieldTokens       = "tokens"
)

// Store はQdrantをバックエンドとするチャンクストアです
type Store struct {
	client     *qdrant.Client
	collection string
	dimension  int
	log        *slog.Logger
}

var (
	_ domain.ChunkStore  = (*Store)(nil)
	_ search.VectorIndex = (*Store)(nil)
)

// StoreOption は Store のオプション
type StoreOption func(*Store)

// WithCollection はコレクション名を設定します
func WithCollection(name string) StoreOption {
	return func(s *Store) {
		if name != "" {
			s.collection = name
		}
	}
}

// WithStoreLogger はロガーを設定します
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.log = logger
	}
}

// NewClient はgRPCポートに接続するQdrantクライアントを作成します
func NewClient(host string, port int) (*qdrant.Client, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return client, nil
}

// NewStore は新しいStoreを作成します
func NewStore(client *qdrant.Client, dimension int, opts ...StoreOption) *Store {
	s := &Store{
		client:     client,
		collection: DefaultCollection,
		dimension:  dimension,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureCollection はコレクションとペイロードインデックスがなければ作成します
func (s *Store) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collection,
		FieldName:      fieldDocumentID,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("failed to create %s index: %w", fieldDocumentID, err)
	}

	s.log.Info("qdrant collection created", "collection", s.collection, "dimension", s.dimension)
	return nil
}

// Save はドキュメントの既存ポイントを削除してからチャンクを登録します
func (s *Store) Save(ctx context.Context, doc *domain.Document, chunks []domain.EmbeddedChunk) error {
	if err := s.DeleteDocument(ctx, doc.ID); err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, c := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(c.ID.String()),
			Vectors: qdrant.NewVectorsDense(c.Embedding),
			Payload: qdrant.NewValueMap(payload(doc, c)),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	s.log.Debug("document saved", "documentId", doc.ID, "path", doc.Path, "chunkCount", len(chunks))
	return nil
}

// DeleteDocument はドキュメントに属するポイントを削除します
func (s *Store) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(fieldDocumentID, id.String())},
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

// Search はクエリベクトルに近いチャンクを返します
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]search.Hit, error) {
	n := uint64(limit)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &n,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}

	hits := make([]search.Hit, len(points))
	for i, p := range points {
		hits[i] = hitFromPoint(p)
	}
	return hits, nil
}

func payload(doc *domain.Document, c domain.EmbeddedChunk) map[string]any {
	m := c.Chunk.Metadata
	headers := make([]any, len(m.Headers))
	for i, h := range m.Headers {
		headers[i] = h
	}
	return map[string]any{
		fieldDocumentID:   doc.ID.String(),
		fieldDocumentName: doc.Name,
		fieldSourceURI:    doc.SourceURI,
		fieldContent:      c.Chunk.Content,
		fieldChunkIndex:   int64(m.ChunkIndex),
		fieldTotalChunks:  int64(m.TotalChunks),
		fieldRowStart:     int64(m.RowStart),
		fieldRowEnd:       int64(m.RowEnd),
		fieldColumnCount:  int64(m.ColumnCount),
		fieldHeaders:      headers,
		fieldTokens:       int64(c.Tokens),
	}
}

func hitFromPoint(p *qdrant.ScoredPoint) search.Hit {
	pl := p.GetPayload()
	hit := search.Hit{
		ID:           p.GetId().GetUuid(),
		DocumentName: pl[fieldDocumentName].GetStringValue(),
		SourceURI:    pl[fieldSourceURI].GetStringValue(),
		Content:      pl[fieldContent].GetStringValue(),
		Score:        float64(p.GetScore()),
		ChunkIndex:   int(pl[fieldChunkIndex].GetIntegerValue()),
		TotalChunks:  int(pl[fieldTotalChunks].GetIntegerValue()),
		RowStart:     int(pl[fieldRowStart].GetIntegerValue()),
		RowEnd:       int(pl[fieldRowEnd].GetIntegerValue()),
		Headers:      []string{},
	}
	for _, v := range pl[fieldHeaders].GetListValue().GetValues() {
		hit.Headers = append(hit.Headers, v.GetStringValue())
	}
	return hit
}
