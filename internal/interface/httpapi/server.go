package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
	ingestion "github.com/jinford/dev-ingest/internal/module/ingestion/domain"
	searchapp "github.com/jinford/dev-ingest/internal/module/search/application"
	search "github.com/jinford/dev-ingest/internal/module/search/domain"
)

const (
	// DefaultShutdownTimeout はグレースフルシャットダウンの待機時間
	DefaultShutdownTimeout = 10 * time.Second

	// MaxUploadMemory はマルチパートのメモリ上限。超えた分は一時ファイルになります
	MaxUploadMemory = 32 << 20
)

// Ingester はアップロードされたファイルを取り込みます
type Ingester interface {
	IngestFiles(ctx context.Context, files []ingestion.File) (*ingestion.Report, error)
}

// Uploader はファイルをリモートサービスへ送信します
type Uploader interface {
	UploadAll(ctx context.Context, files []ingestion.File) (*ingestion.Report, error)
}

// Searcher は検索を行います
type Searcher interface {
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
}

// Asker は質問に回答します
type Asker interface {
	Ask(ctx context.Context, params searchapp.AskParams) (*searchapp.AskResult, error)
}

// Server はチャンク化・取り込み・検索・質問応答のHTTP APIです
// Chunker 以外のサービスは任意で、未設定のエンドポイントは 503 を返します
type Server struct {
	chunker      ingestion.Chunker
	profiles     chunking.ProfileSet
	ingester     Ingester
	uploader     Uploader
	searcher     Searcher
	remoteSearch Searcher
	asker        Asker
	log          *slog.Logger
}

// ServerOption は Server のオプション
type ServerOption func(*Server)

// WithServerLogger は Server にロガーを設定します
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.log = logger
	}
}

// WithProfiles はチャンク化のデフォルト設定を指定します
func WithProfiles(p chunking.ProfileSet) ServerOption {
	return func(s *Server) {
		s.profiles = p
	}
}

// WithIngester はローカル取り込みを有効にします
func WithIngester(i Ingester) ServerOption {
	return func(s *Server) {
		s.ingester = i
	}
}

// WithUploader はリモートへのアップロードを有効にします
func WithUploader(u Uploader) ServerOption {
	return func(s *Server) {
		s.uploader = u
	}
}

// WithSearcher はローカル検索を有効にします
func WithSearcher(sr Searcher) ServerOption {
	return func(s *Server) {
		s.searcher = sr
	}
}

// WithRemoteSearcher はリモート検索を有効にします
func WithRemoteSearcher(sr Searcher) ServerOption {
	return func(s *Server) {
		s.remoteSearch = sr
	}
}

// WithAsker は質問応答を有効にします
func WithAsker(a Asker) ServerOption {
	return func(s *Server) {
		s.asker = a
	}
}

// NewServer は新しいServerを作成します
func NewServer(chunker ingestion.Chunker, opts ...ServerOption) *Server {
	s := &Server{
		chunker:  chunker,
		profiles: chunking.NewProfileSet(chunking.DefaultProfile()),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Handler はルーティング済みの http.Handler を返します
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chunk", s.handleChunk)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.logRequests(mux)
}

// ListenAndServe は addr で待ち受け、ctx のキャンセルでグレースフルに停止します
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"durationMs", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
