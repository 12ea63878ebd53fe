package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
	search "github.com/jinford/dev-ingest/internal/module/search/domain"
)

// Transactor は単一トランザクション内でRepositoryを使った処理を実行します
type Transactor interface {
	WithinTx(ctx context.Context, fn func(*Repository) error) error
}

// Store はPostgreSQL(pgvector)をバックエンドとするチャンクストアです
type Store struct {
	repo *Repository
	tx   Transactor
	log  *slog.Logger
}

var (
	_ domain.ChunkStore  = (*Store)(nil)
	_ search.VectorIndex = (*Store)(nil)
)

// StoreOption は Store のオプション
type StoreOption func(*Store)

// WithStoreLogger はロガーを設定します
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.log = logger
	}
}

// NewStore は新しいStoreを作成します
func NewStore(db DBTX, tx Transactor, opts ...StoreOption) *Store {
	s := &Store{
		repo: NewRepository(db),
		tx:   tx,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save はドキュメントを更新し、既存チャンクを置き換えます
func (s *Store) Save(ctx context.Context, doc *domain.Document, chunks []domain.EmbeddedChunk) error {
	err := s.tx.WithinTx(ctx, func(r *Repository) error {
		if err := r.LockDocument(ctx, doc.ID); err != nil {
			return err
		}
		if err := r.UpsertDocument(ctx, doc); err != nil {
			return err
		}
		if err := r.DeleteChunksByDocument(ctx, doc.ID); err != nil {
			return err
		}
		return r.InsertChunks(ctx, chunks)
	})
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", doc.Path, err)
	}

	s.log.Debug("document saved", "documentId", doc.ID, "path", doc.Path, "chunkCount", len(chunks))
	return nil
}

// DeleteDocument はドキュメントとそのチャンクを削除します
func (s *Store) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDocument(ctx, id)
}

// Search はクエリベクトルに近いチャンクを返します
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]search.Hit, error) {
	return s.repo.SearchChunks(ctx, vector, limit)
}
