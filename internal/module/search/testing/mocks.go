package testing

import (
	"context"
	"sync"

	"github.com/jinford/dev-ingest/internal/module/search/domain"
)

// MockRetriever はテスト用のモックRetrieverです
type MockRetriever struct {
	RetrieveFunc func(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error)

	mu    sync.Mutex
	Calls []domain.SearchParams
}

func (m *MockRetriever) Retrieve(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, params)
	m.mu.Unlock()

	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, params)
	}
	return &domain.SearchResult{}, nil
}

// MockVectorIndex はテスト用のモックVectorIndexです
type MockVectorIndex struct {
	SearchFunc func(ctx context.Context, vector []float32, limit int) ([]domain.Hit, error)

	mu     sync.Mutex
	Limits []int
}

func (m *MockVectorIndex) Search(ctx context.Context, vector []float32, limit int) ([]domain.Hit, error) {
	m.mu.Lock()
	m.Limits = append(m.Limits, limit)
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, vector, limit)
	}
	return nil, nil
}

// Hits は score 降順の n 件のヒットを生成します
func Hits(n int) []domain.Hit {
	hits := make([]domain.Hit, n)
	for i := range hits {
		hits[i] = domain.Hit{
			DocumentName: "doc.csv",
			Content:      "Row " + string(rune('A'+i%26)),
			Score:        1 - float64(i)/float64(n+1),
			ChunkIndex:   i,
			TotalChunks:  n,
		}
	}
	return hits
}
