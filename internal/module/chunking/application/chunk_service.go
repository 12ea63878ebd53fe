package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/dev-ingest/internal/module/chunking/adapter/chunker"
	"github.com/jinford/dev-ingest/internal/module/chunking/adapter/tabular"
	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// ChunkService はドキュメントをチャンク列に変換するユースケースを提供します
type ChunkService struct {
	log *slog.Logger
}

// ChunkServiceOption は ChunkService のオプション
type ChunkServiceOption func(*ChunkService)

// WithChunkLogger はロガーを設定します
func WithChunkLogger(logger *slog.Logger) ChunkServiceOption {
	return func(s *ChunkService) {
		s.log = logger
	}
}

// NewChunkService は新しいChunkServiceを作成します
func NewChunkService(opts ...ChunkServiceOption) *ChunkService {
	s := &ChunkService{log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// ChunkTabular は区切り文字テキストを解析し、指定された戦略で分割します
func (s *ChunkService) ChunkTabular(ctx context.Context, raw []byte, opts domain.TabularOptions) (domain.ChunkSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := chunker.ForStrategy(opts)
	if err != nil {
		return nil, err
	}

	table, err := tabular.NewParser(tabular.WithDelimiter(opts.Delimiter)).Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tabular document: %w", err)
	}

	chunks, err := c.Chunk(table)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk tabular document: %w", err)
	}

	s.log.Debug("tabular document chunked",
		"strategy", string(opts.Strategy),
		"rows", table.RowCount(),
		"columns", table.ColumnCount(),
		"chunkCount", len(chunks),
	)
	return chunks, nil
}

// ChunkText は自由テキストを文単位で分割します
func (s *ChunkService) ChunkText(ctx context.Context, text string, opts domain.TextOptions) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chunks, err := chunker.NewSentenceChunker(opts).Split(text)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk text: %w", err)
	}

	s.log.Debug("text chunked", "chunkSize", opts.ChunkSize, "overlap", opts.Overlap, "chunkCount", len(chunks))
	return chunks, nil
}

// ChunkDocument は種別に応じた経路でドキュメントを ChunkSet に変換します
// テキスト系の種別では各チャンクを1行1列の位置情報として表現します
func (s *ChunkService) ChunkDocument(ctx context.Context, kind domain.DocumentKind, raw []byte, profile domain.Profile) (domain.ChunkSet, error) {
	if kind.IsTabular() {
		opts := profile.Tabular
		opts.Delimiter = kind.Delimiter()
		return s.ChunkTabular(ctx, raw, opts)
	}

	texts, err := s.ChunkText(ctx, string(raw), profile.Text)
	if err != nil {
		return nil, err
	}
	return TextChunkSet(texts), nil
}

// TextChunkSet は文字列チャンクを ChunkSet に変換します
func TextChunkSet(texts []string) domain.ChunkSet {
	chunks := make(domain.ChunkSet, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			Content: text,
			Metadata: domain.ChunkMetadata{
				ChunkIndex:  i,
				TotalChunks: len(texts),
				RowStart:    i,
				RowEnd:      i,
				ColumnCount: 1,
				Headers:     []string{},
			},
		}
	}
	return chunks
}
