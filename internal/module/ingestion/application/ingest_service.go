package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
	llm "github.com/jinford/dev-ingest/internal/module/llm/domain"
)

const (
	// DefaultConcurrency は同時に処理するドキュメント数のデフォルト値
	DefaultConcurrency = 4

	// MaxEmbeddingTokens はEmbeddingモデルが受け付ける1入力あたりの最大トークン数
	MaxEmbeddingTokens = 8191
)

// IngestService はファイルをチャンク化・Embeddingして保存するユースケースを提供します
type IngestService struct {
	detector     domain.Detector
	chunker      domain.Chunker
	embedder     llm.Embedder
	tokens       domain.TokenCounter
	store        domain.ChunkStore
	transformers []domain.Transformer
	profiles     chunking.ProfileSet
	concurrency  int
	log          *slog.Logger
}

// IngestServiceOption は IngestService のオプション
type IngestServiceOption func(*IngestService)

// WithIngestLogger はロガーを設定します
func WithIngestLogger(logger *slog.Logger) IngestServiceOption {
	return func(s *IngestService) {
		s.log = logger
	}
}

// WithConcurrency は同時処理数を設定します（1未満は無視）
func WithConcurrency(n int) IngestServiceOption {
	return func(s *IngestService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithProfiles はチャンク化設定を設定します
func WithProfiles(profiles chunking.ProfileSet) IngestServiceOption {
	return func(s *IngestService) {
		s.profiles = profiles
	}
}

// WithTransformers はチャンク化前に適用する変換を追加します
func WithTransformers(transformers ...domain.Transformer) IngestServiceOption {
	return func(s *IngestService) {
		s.transformers = append(s.transformers, transformers...)
	}
}

// NewIngestService は新しいIngestServiceを作成します
func NewIngestService(
	detector domain.Detector,
	chunker domain.Chunker,
	embedder llm.Embedder,
	tokens domain.TokenCounter,
	store domain.ChunkStore,
	opts ...IngestServiceOption,
) *IngestService {
	s := &IngestService{
		detector:    detector,
		chunker:     chunker,
		embedder:    embedder,
		tokens:      tokens,
		store:       store,
		profiles:    chunking.NewProfileSet(chunking.DefaultProfile()),
		concurrency: DefaultConcurrency,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestSource はソースの全ファイルを取り込みます
func (s *IngestService) IngestSource(ctx context.Context, src domain.Source) (*domain.Report, error) {
	files, err := src.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list source files: %w", err)
	}
	return s.IngestFiles(ctx, files)
}

// IngestFiles はファイル群を並行に取り込みます
// 失敗はドキュメントごとに記録し、全件失敗した場合のみエラーを返します
func (s *IngestService) IngestFiles(ctx context.Context, files []domain.File) (*domain.Report, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoDocuments
	}

	s.log.Info("starting ingestion", "documentCount", len(files), "concurrency", s.concurrency)

	results := make([]domain.DocumentResult, len(files))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, f := range files {
		g.Go(func() error {
			results[i] = s.ingestOne(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := domain.NewReport(results)
	s.log.Info("ingestion completed",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"chunkCount", report.Chunks,
	)

	if report.Succeeded == 0 {
		return report, fmt.Errorf("%w: %d documents, first error: %w", domain.ErrAllDocumentsFailed, report.Failed, report.FirstError())
	}
	return report, nil
}

func (s *IngestService) ingestOne(ctx context.Context, f domain.File) domain.DocumentResult {
	result := domain.DocumentResult{Name: f.Path}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	doc, chunks, err := s.prepare(ctx, f)
	if err != nil {
		s.log.Warn("failed to ingest document", "path", f.Path, "error", err)
		result.Err = err
		return result
	}

	embedded, err := s.embed(ctx, doc, chunks)
	if err != nil {
		s.log.Warn("failed to embed document", "path", f.Path, "error", err)
		result.Err = err
		return result
	}

	if err := s.store.Save(ctx, doc, embedded); err != nil {
		s.log.Warn("failed to save document", "path", f.Path, "error", err)
		result.Err = fmt.Errorf("failed to save chunks: %w", err)
		return result
	}

	result.Chunks = len(embedded)
	for _, c := range embedded {
		result.Tokens += c.Tokens
	}
	s.log.Debug("document ingested", "path", f.Path, "chunkCount", result.Chunks, "tokens", result.Tokens)
	return result
}

func (s *IngestService) prepare(ctx context.Context, f domain.File) (*domain.Document, chunking.ChunkSet, error) {
	kind, contentType, err := s.detector.Detect(f.Path, f.Content)
	if err != nil {
		return nil, nil, err
	}

	doc := &domain.Document{
		ID:          domain.DocumentID(f.SourceURI, f.Path),
		Name:        filepath.Base(f.Path),
		Path:        f.Path,
		Kind:        kind,
		ContentType: contentType,
		Content:     f.Content,
		SourceURI:   f.SourceURI,
	}

	for _, t := range s.transformers {
		if err := t.Transform(doc); err != nil {
			return nil, nil, err
		}
	}

	chunks, err := s.chunker.ChunkDocument(ctx, doc.Kind, doc.Content, s.profiles.For(f.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to chunk document: %w", err)
	}
	return doc, chunks, nil
}

func (s *IngestService) embed(ctx context.Context, doc *domain.Document, chunks chunking.ChunkSet) ([]domain.EmbeddedChunk, error) {
	embedded := make([]domain.EmbeddedChunk, len(chunks))
	for i, c := range chunks {
		tokens := s.tokens.Count(c.Content)
		if tokens > MaxEmbeddingTokens {
			s.log.Warn("chunk exceeds embedding token limit",
				"path", doc.Path,
				"chunkIndex", c.Metadata.ChunkIndex,
				"tokens", tokens,
				"limit", MaxEmbeddingTokens,
			)
		}
		embedded[i] = domain.EmbeddedChunk{
			ID:         domain.ChunkID(doc.ID, c.Metadata.ChunkIndex),
			DocumentID: doc.ID,
			Chunk:      c,
			Tokens:     tokens,
		}
	}

	contents := chunks.Contents()
	for start := 0; start < len(contents); start += llm.MaxBatchSize {
		end := min(start+llm.MaxBatchSize, len(contents))
		vectors, err := s.embedder.BatchEmbed(ctx, contents[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks %d-%d: %w", start, end-1, err)
		}
		for j, v := range vectors {
			embedded[start+j].Embedding = v
		}
	}
	return embedded, nil
}
