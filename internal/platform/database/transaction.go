package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	ingestionpg "github.com/jinford/dev-ingest/internal/module/ingestion/adapter/pg"
)

// TransactionProvider follows the pattern described in https://threedots.tech/post/database-transactions-in-go/
// It hides pgx transactions behind a callback that receives data-access adapters.
type TransactionProvider struct {
	pool *pgxpool.Pool
}

// NewTransactionProvider は新しいTransactionProviderを作成します
func NewTransactionProvider(pool *pgxpool.Pool) *TransactionProvider {
	return &TransactionProvider{pool: pool}
}

// Adapter bundles repository adapters that operate inside a single transaction.
type Adapter struct {
	Chunks *ingestionpg.Repository
}

func newAdapter(tx pgx.Tx) *Adapter {
	return &Adapter{
		Chunks: ingestionpg.NewRepository(tx),
	}
}

// Transact opens a transaction, builds adapters, and passes them to fn.
func Transact[T any](ctx context.Context, p *TransactionProvider, fn func(*Adapter) (T, error)) (T, error) {
	var zero T
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return zero, fmt.Errorf("failed to begin transaction: %w", err)
	}

	result, err := fn(newAdapter(tx))
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return zero, fmt.Errorf("tx rollback failed: %v (original err: %w)", rbErr, err)
		}
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

var _ ingestionpg.Transactor = (*TransactionProvider)(nil)

// WithinTx は戻り値を持たない処理をトランザクション内で実行します
func (p *TransactionProvider) WithinTx(ctx context.Context, fn func(*ingestionpg.Repository) error) error {
	_, err := Transact(ctx, p, func(a *Adapter) (struct{}, error) {
		return struct{}{}, fn(a.Chunks)
	})
	return err
}
