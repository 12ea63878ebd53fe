package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectionParams はデータベース接続パラメータ
type ConnectionParams struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN は接続文字列を返します
func (p ConnectionParams) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// Database はコネクションプールを保持します
type Database struct {
	Pool *pgxpool.Pool
}

// New はコネクションプールを作成し、疎通を確認します
func New(ctx context.Context, params ConnectionParams) (*Database, error) {
	pool, err := pgxpool.New(ctx, params.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{Pool: pool}, nil
}

// Close はコネクションプールを閉じます
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
