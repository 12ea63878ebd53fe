package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

// MockSource はテスト用のモックSourceです
type MockSource struct {
	FilesFunc func(ctx context.Context) ([]domain.File, error)
}

func (m *MockSource) Files(ctx context.Context) ([]domain.File, error) {
	if m.FilesFunc != nil {
		return m.FilesFunc(ctx)
	}
	return nil, nil
}

// MockDetector はテスト用のモックDetectorです
// DetectFunc が未設定の場合はすべてCSVとして扱います
type MockDetector struct {
	DetectFunc func(path string, content []byte) (chunking.DocumentKind, string, error)
}

func (m *MockDetector) Detect(path string, content []byte) (chunking.DocumentKind, string, error) {
	if m.DetectFunc != nil {
		return m.DetectFunc(path, content)
	}
	return chunking.KindCSV, "text/csv", nil
}

// MockTokenCounter は空白区切りの単語数をトークン数として返します
type MockTokenCounter struct {
	CountFunc func(text string) int
}

func (m *MockTokenCounter) Count(text string) int {
	if m.CountFunc != nil {
		return m.CountFunc(text)
	}
	return len(strings.Fields(text))
}

// MockChunkStore は保存内容をメモリに記録するモックChunkStoreです
type MockChunkStore struct {
	SaveFunc           func(ctx context.Context, doc *domain.Document, chunks []domain.EmbeddedChunk) error
	DeleteDocumentFunc func(ctx context.Context, id uuid.UUID) error

	mu    sync.Mutex
	Saved map[string][]domain.EmbeddedChunk
}

func (m *MockChunkStore) Save(ctx context.Context, doc *domain.Document, chunks []domain.EmbeddedChunk) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, doc, chunks); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Saved == nil {
		m.Saved = make(map[string][]domain.EmbeddedChunk)
	}
	m.Saved[doc.Path] = chunks
	return nil
}

func (m *MockChunkStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	if m.DeleteDocumentFunc != nil {
		return m.DeleteDocumentFunc(ctx, id)
	}
	return nil
}

// SavedChunks は指定パスで保存されたチャンクを返します
func (m *MockChunkStore) SavedChunks(path string) []domain.EmbeddedChunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saved[path]
}

// MockUploader はアップロードされたファイル名を記録するモックUploaderです
type MockUploader struct {
	UploadFunc func(ctx context.Context, name, contentType string, content []byte) error

	mu       sync.Mutex
	Uploaded []string
}

func (m *MockUploader) Upload(ctx context.Context, name, contentType string, content []byte) error {
	if m.UploadFunc != nil {
		if err := m.UploadFunc(ctx, name, contentType, content); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploaded = append(m.Uploaded, name)
	return nil
}
