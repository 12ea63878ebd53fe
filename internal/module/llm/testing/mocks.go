package testing

import (
	"context"
	"sync"

	"github.com/jinford/dev-ingest/internal/module/llm/domain"
)

// MockEmbedder はテスト用のモックEmbedderです
// BatchEmbedFunc が未設定の場合はテキスト長に基づく決定的なベクトルを返します
type MockEmbedder struct {
	BatchEmbedFunc func(ctx context.Context, texts []string) ([][]float32, error)
	Dim            int

	mu    sync.Mutex
	Calls [][]string
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *MockEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, append([]string(nil), texts...))
	m.mu.Unlock()

	if m.BatchEmbedFunc != nil {
		return m.BatchEmbedFunc(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = FakeVector(text, m.Dimension())
	}
	return vectors, nil
}

func (m *MockEmbedder) Dimension() int {
	if m.Dim == 0 {
		return 3
	}
	return m.Dim
}

// CallCount はBatchEmbedの呼び出し回数を返します
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// FakeVector はテキストから決定的なベクトルを生成します
func FakeVector(text string, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(len(text)+i) / 100
	}
	return v
}

// MockClient はテスト用のモックLLMクライアントです
type MockClient struct {
	GenerateCompletionFunc func(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResponse, error)

	mu       sync.Mutex
	Requests []domain.CompletionRequest
}

func (m *MockClient) GenerateCompletion(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResponse, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.GenerateCompletionFunc != nil {
		return m.GenerateCompletionFunc(ctx, req)
	}
	return domain.CompletionResponse{Content: "mock response"}, nil
}

var (
	_ domain.Embedder = (*MockEmbedder)(nil)
	_ domain.Client   = (*MockClient)(nil)
)
