package pg

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
	search "github.com/jinford/dev-ingest/internal/module/search/domain"
)

//go:embed schema.sql
var schemaSQL string

// DBTX は *pgxpool.Pool と pgx.Tx の共通インターフェース
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// EnsureSchema はテーブルとインデックスを作成します（冪等）
func EnsureSchema(ctx context.Context, db DBTX, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension: %d", dimension)
	}
	sql := strings.ReplaceAll(schemaSQL, "{{dimension}}", strconv.Itoa(dimension))
	if _, err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Repository はドキュメントとチャンクの永続化アダプターです
type Repository struct {
	db DBTX
}

// NewRepository は新しいRepositoryを作成します
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// UpsertDocument はドキュメントを作成または更新します
func (r *Repository) UpsertDocument(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO documents (id, name, path, kind, content_type, source_uri)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			path = EXCLUDED.path,
			kind = EXCLUDED.kind,
			content_type = EXCLUDED.content_type,
			source_uri = EXCLUDED.source_uri,
			updated_at = NOW()`,
		UUIDToPgtype(doc.ID), doc.Name, doc.Path, string(doc.Kind), doc.ContentType, doc.SourceURI,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// DeleteChunksByDocument はドキュメントのチャンクをすべて削除します
func (r *Repository) DeleteChunksByDocument(ctx context.Context, documentID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM chunks WHERE document_id = $1`, UUIDToPgtype(documentID)); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

// InsertChunks はチャンクを一括挿入します
func (r *Repository) InsertChunks(ctx context.Context, chunks []domain.EmbeddedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		m := c.Chunk.Metadata
		headers := m.Headers
		if headers == nil {
			headers = []string{}
		}
		batch.Queue(`
			INSERT INTO chunks (id, document_id, chunk_index, total_chunks, row_start, row_end, column_count, headers, content, tokens, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			UUIDToPgtype(c.ID), UUIDToPgtype(c.DocumentID),
			int32(m.ChunkIndex), int32(m.TotalChunks), int32(m.RowStart), int32(m.RowEnd), int32(m.ColumnCount),
			headers, c.Chunk.Content, int32(c.Tokens), pgvector.NewVector(c.Embedding),
		)
	}

	results := r.db.SendBatch(ctx, batch)
	for i := range chunks {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}
	return nil
}

// DeleteDocument はドキュメントを削除します（チャンクはカスケード削除）
func (r *Repository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, UUIDToPgtype(id))
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document not found: %s", id)
	}
	return nil
}

// CountChunks はドキュメントのチャンク数を返します
func (r *Repository) CountChunks(ctx context.Context, documentID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM chunks WHERE document_id = $1`, UUIDToPgtype(documentID)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

// SearchChunks はコサイン距離が近い順にチャンクを返します
func (r *Repository) SearchChunks(ctx context.Context, vector []float32, limit int) ([]search.Hit, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, d.name, d.source_uri, c.content, c.chunk_index, c.total_chunks,
		       c.row_start, c.row_end, c.headers,
		       1 - (c.embedding <=> $1) AS score
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		ORDER BY c.embedding <=> $1
		LIMIT $2`,
		pgvector.NewVector(vector), int32(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var hits []search.Hit
	for rows.Next() {
		var (
			hit                                    search.Hit
			id                                     uuid.UUID
			chunkIndex, totalChunks, rowStart, end int32
		)
		if err := rows.Scan(&id, &hit.DocumentName, &hit.SourceURI, &hit.Content,
			&chunkIndex, &totalChunks, &rowStart, &end, &hit.Headers, &hit.Score); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		hit.ID = id.String()
		hit.ChunkIndex = int(chunkIndex)
		hit.TotalChunks = int(totalChunks)
		hit.RowStart = int(rowStart)
		hit.RowEnd = int(end)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunks: %w", err)
	}
	return hits, nil
}
