package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	bolt "go.etcd.io/bbolt"

	"github.com/jinford/dev-ingest/internal/module/llm/domain"
)

var embeddingBucket = []byte("embeddings")

// CachedEmbedder はEmbedding結果をBoltDBに保存して再利用するEmbedder実装
// キーはモデル名・次元数・テキストのハッシュです
type CachedEmbedder struct {
	inner     domain.Embedder
	db        *bolt.DB
	namespace string
	log       *slog.Logger
}

// CacheOption は CachedEmbedder のオプション
type CacheOption func(*CachedEmbedder)

// WithCacheLogger はロガーを設定します
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachedEmbedder) {
		c.log = logger
	}
}

// WithCacheNamespace はキャッシュキーの名前空間（通常はモデル名）を設定します
func WithCacheNamespace(ns string) CacheOption {
	return func(c *CachedEmbedder) {
		c.namespace = ns
	}
}

// NewCachedEmbedder は path にBoltDBを開き、inner をラップします
func NewCachedEmbedder(inner domain.Embedder, path string, opts ...CacheOption) (*CachedEmbedder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for embedding cache: %w", err)
	}

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(embeddingBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	c := &CachedEmbedder{inner: inner, db: db, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close はBoltDBを閉じます
func (c *CachedEmbedder) Close() error {
	return c.db.Close()
}

// Dimension は内側のEmbedderの次元数を返します
func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

// Embed は単一テキストのEmbeddingを返します
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// BatchEmbed はキャッシュにないテキストだけを内側のEmbedderに問い合わせます
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts provided", domain.ErrInvalidRequest)
	}

	vectors := make([][]float32, len(texts))
	var missing []int

	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(embeddingBucket)
		for i, text := range texts {
			if v := b.Get(c.key(text)); v != nil {
				vectors[i] = decodeVector(v)
				continue
			}
			missing = append(missing, i)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding cache: %w", err)
	}

	c.log.Debug("embedding cache lookup", "hits", len(texts)-len(missing), "misses", len(missing))
	if len(missing) == 0 {
		return vectors, nil
	}

	pending := make([]string, len(missing))
	for i, idx := range missing {
		pending[i] = texts[idx]
	}
	fresh, err := c.inner.BatchEmbed(ctx, pending)
	if err != nil {
		return nil, err
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(embeddingBucket)
		for i, idx := range missing {
			vectors[idx] = fresh[i]
			if err := b.Put(c.key(texts[idx]), encodeVector(fresh[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write embedding cache: %w", err)
	}

	return vectors, nil
}

func (c *CachedEmbedder) key(text string) []byte {
	h := sha256.New()
	h.Write([]byte(c.namespace))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(c.inner.Dimension())))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return h.Sum(nil)
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

var _ domain.Embedder = (*CachedEmbedder)(nil)
