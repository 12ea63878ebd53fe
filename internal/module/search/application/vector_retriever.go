package application

import (
	"context"
	"fmt"
	"log/slog"

	llm "github.com/jinford/dev-ingest/internal/module/llm/domain"
	"github.com/jinford/dev-ingest/internal/module/search/domain"
)

const (
	// rerankCandidateFactor は再ランキング時に取得する候補数の倍率
	rerankCandidateFactor = 3
	// maxRerankCandidates は再ランキング候補数の上限
	maxRerankCandidates = 300
)

// VectorRetriever はクエリを埋め込み、ローカルのベクトルインデックスから検索します
type VectorRetriever struct {
	embedder llm.Embedder
	index    domain.VectorIndex
	reranker domain.Reranker
	log      *slog.Logger
}

var _ domain.Retriever = (*VectorRetriever)(nil)

// VectorRetrieverOption は VectorRetriever のオプション
type VectorRetrieverOption func(*VectorRetriever)

// WithReranker は Rerank 指定時に使う Reranker を設定します
func WithReranker(r domain.Reranker) VectorRetrieverOption {
	return func(v *VectorRetriever) {
		v.reranker = r
	}
}

// WithRetrieverLogger は VectorRetriever にロガーを設定します
func WithRetrieverLogger(logger *slog.Logger) VectorRetrieverOption {
	return func(v *VectorRetriever) {
		v.log = logger
	}
}

// NewVectorRetriever は新しいVectorRetrieverを作成します
func NewVectorRetriever(embedder llm.Embedder, index domain.VectorIndex, opts ...VectorRetrieverOption) *VectorRetriever {
	v := &VectorRetriever{
		embedder: embedder,
		index:    index,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.log == nil {
		v.log = slog.Default()
	}
	return v
}

// Retrieve はクエリに近いチャンクを返します
// AverageRelevancy はヒットのスコア平均で、NDCG は常に0です
func (v *VectorRetriever) Retrieve(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params = params.WithDefaults(domain.DefaultNumResults)

	vector, err := v.embedder.Embed(ctx, params.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rerank := params.Rerank && v.reranker != nil
	limit := params.NumResults
	if rerank {
		limit = min(max(params.NumResults*rerankCandidateFactor, params.NumResults), maxRerankCandidates)
	}

	hits, err := v.index.Search(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	if rerank {
		v.log.Debug("reranking hits", "candidates", len(hits))
		hits = v.reranker.Rerank(params.Query, hits)
	}
	if len(hits) > params.NumResults {
		hits = hits[:params.NumResults]
	}

	return &domain.SearchResult{
		Hits:             hits,
		AverageRelevancy: averageScore(hits),
	}, nil
}

func averageScore(hits []domain.Hit) float64 {
	if len(hits) == 0 {
		return 0
	}
	var sum float64
	for _, h := range hits {
		sum += h.Score
	}
	return sum / float64(len(hits))
}
