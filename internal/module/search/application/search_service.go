package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/dev-ingest/internal/module/search/domain"
)

// SearchService は検索のユースケースを提供します
type SearchService struct {
	retriever         domain.Retriever
	defaultNumResults int
	log               *slog.Logger
}

// SearchServiceOption は SearchService のオプション
type SearchServiceOption func(*SearchService)

// WithSearchLogger は SearchService にロガーを設定します
func WithSearchLogger(logger *slog.Logger) SearchServiceOption {
	return func(s *SearchService) {
		s.log = logger
	}
}

// WithDefaultNumResults は NumResults 未指定時の件数を設定します
func WithDefaultNumResults(n int) SearchServiceOption {
	return func(s *SearchService) {
		if n > 0 {
			s.defaultNumResults = n
		}
	}
}

// NewSearchService は新しいSearchServiceを作成します
func NewSearchService(retriever domain.Retriever, opts ...SearchServiceOption) *SearchService {
	svc := &SearchService{
		retriever:         retriever,
		defaultNumResults: domain.DefaultNumResults,
		log:               slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.log == nil {
		svc.log = slog.Default()
	}
	return svc
}

// Search はクエリを検証して Retriever に委譲します
func (s *SearchService) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params = params.WithDefaults(s.defaultNumResults)

	s.log.Info("executing search",
		"query", params.Query,
		"numResults", params.NumResults,
		"rerank", params.Rerank,
	)

	result, err := s.retriever.Retrieve(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	s.log.Info("search completed",
		"hits", len(result.Hits),
		"averageRelevancy", result.AverageRelevancy,
	)
	return result, nil
}
