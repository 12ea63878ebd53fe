package vectorize_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/dev-ingest/internal/module/ingestion/adapter/vectorize"
	search "github.com/jinford/dev-ingest/internal/module/search/domain"
)

func newTestClient(t *testing.T, baseURL string, mutate func(*vectorize.Config)) *vectorize.Client {
	t.Helper()
	cfg := vectorize.Config{
		APIKey:      "test-key",
		OrgID:       "org-1",
		PipelineID:  "pipe-1",
		ConnectorID: "conn-1",
		BaseURL:     baseURL,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client, err := vectorize.NewClient(cfg, vectorize.WithLogger(log))
	require.NoError(t, err)
	return client
}

func TestNewClient_NotConfigured(t *testing.T) {
	_, err := vectorize.NewClient(vectorize.Config{APIKey: "key"})

	assert.ErrorIs(t, err, vectorize.ErrNotConfigured)
}

func TestClient_Upload(t *testing.T) {
	// Setup
	var (
		mu       sync.Mutex
		uploaded []byte
		initBody map[string]string
	)
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("PUT /org/org-1/uploads/conn-1/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		mu.Lock()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&initBody))
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"uploadUrl": srv.URL + "/storage/sales.csv"})
	})
	mux.HandleFunc("PUT /storage/sales.csv", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/csv", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		mu.Lock()
		uploaded = body
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, srv.URL, nil)

	// Execute
	err := client.Upload(context.Background(), "sales.csv", "text/csv", []byte("a,b\n1,2\n"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "sales.csv", "contentType": "text/csv"}, initBody)
	assert.Equal(t, "a,b\n1,2\n", string(uploaded))
}

func TestClient_Upload_InitiateError(t *testing.T) {
	// Setup
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer srv.Close()
	client := newTestClient(t, srv.URL, nil)

	// Execute
	err := client.Upload(context.Background(), "sales.csv", "text/csv", []byte("a\n1\n"))

	// Assert
	require.Error(t, err)
	var apiErr *vectorize.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "invalid token", apiErr.Message)
}

func TestClient_Upload_MissingUploadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	client := newTestClient(t, srv.URL, nil)

	err := client.Upload(context.Background(), "sales.csv", "text/csv", []byte("a\n1\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no upload URL")
}

func TestClient_Upload_StorageError(t *testing.T) {
	// Setup
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("PUT /org/org-1/uploads/conn-1/files", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"uploadUrl": srv.URL + "/storage"})
	})
	mux.HandleFunc("PUT /storage", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	})
	client := newTestClient(t, srv.URL, nil)

	// Execute
	err := client.Upload(context.Background(), "sales.csv", "text/csv", []byte("a\n1\n"))

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload file content to storage")
}

func TestClient_Upload_NoConnector(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1", func(c *vectorize.Config) { c.ConnectorID = "" })

	err := client.Upload(context.Background(), "a.csv", "text/csv", nil)

	assert.ErrorIs(t, err, vectorize.ErrNotConfigured)
}

func TestClient_Retrieve(t *testing.T) {
	// Setup
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/org/org-1/pipelines/pipe-1/retrieval", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{
			"documents": [
				{"id": "d1", "text": "Row 1: year: 2022", "source_display_name": "uploads/conn-1/sales%202022.csv", "relevancy": 0.91,
				 "metadata": {"chunkIndex": 3, "totalChunks": 7, "rowStart": 24, "rowEnd": 33, "headers": ["year"]}},
				{"id": "d2", "content": "fallback content", "similarity": 0.5}
			],
			"average_relevancy": 0.7,
			"ndcg": 0.85
		}`))
	}))
	defer srv.Close()
	client := newTestClient(t, srv.URL, nil)

	// Execute
	result, err := client.Retrieve(context.Background(), search.SearchParams{Query: "2022", NumResults: 5, Rerank: true})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2022", got["question"])
	assert.Equal(t, float64(5), got["numResults"])
	assert.Equal(t, true, got["rerank"])
	assert.Equal(t, map[string]any{"mode": "text", "match-type": "match"}, got["advanced-query"])

	require.Len(t, result.Hits, 2)
	first := result.Hits[0]
	assert.Equal(t, "sales 2022.csv", first.DocumentName)
	assert.Equal(t, "Row 1: year: 2022", first.Content)
	assert.InDelta(t, 0.91, first.Score, 1e-9)
	assert.Equal(t, 3, first.ChunkIndex)
	assert.Equal(t, 7, first.TotalChunks)
	assert.Equal(t, 24, first.RowStart)
	assert.Equal(t, 33, first.RowEnd)
	assert.Equal(t, []string{"year"}, first.Headers)

	second := result.Hits[1]
	assert.Equal(t, "Document 2", second.DocumentName)
	assert.Equal(t, "fallback content", second.Content)
	assert.InDelta(t, 0.5, second.Score, 1e-9)

	assert.InDelta(t, 0.7, result.AverageRelevancy, 1e-9)
	assert.InDelta(t, 0.85, result.NDCG, 1e-9)
}

func TestClient_Retrieve_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	t.Run("empty query", func(t *testing.T) {
		client := newTestClient(t, srv.URL, nil)
		_, err := client.Retrieve(context.Background(), search.SearchParams{})
		assert.ErrorIs(t, err, search.ErrQueryRequired)
	})

	t.Run("no pipeline", func(t *testing.T) {
		client := newTestClient(t, srv.URL, func(c *vectorize.Config) { c.PipelineID = "" })
		_, err := client.Retrieve(context.Background(), search.SearchParams{Query: "q"})
		assert.ErrorIs(t, err, vectorize.ErrNotConfigured)
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, srv.URL, nil)
		_, err := client.Retrieve(context.Background(), search.SearchParams{Query: "q"})
		assert.ErrorIs(t, err, search.ErrRetrievalFailed)
		var apiErr *vectorize.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Internal Server Error", apiErr.Message)
	})
}
