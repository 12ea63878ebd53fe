package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	chunkingapp "github.com/jinford/dev-ingest/internal/module/chunking/application"
	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
	"github.com/jinford/dev-ingest/internal/module/ingestion/adapter/detector"
	"github.com/jinford/dev-ingest/internal/module/ingestion/adapter/htmlconv"
	ingestionpg "github.com/jinford/dev-ingest/internal/module/ingestion/adapter/pg"
	"github.com/jinford/dev-ingest/internal/module/ingestion/adapter/qdrantstore"
	"github.com/jinford/dev-ingest/internal/module/ingestion/adapter/source"
	"github.com/jinford/dev-ingest/internal/module/ingestion/adapter/tokens"
	"github.com/jinford/dev-ingest/internal/module/ingestion/adapter/vectorize"
	ingestionapp "github.com/jinford/dev-ingest/internal/module/ingestion/application"
	ingestion "github.com/jinford/dev-ingest/internal/module/ingestion/domain"
	llmadapter "github.com/jinford/dev-ingest/internal/module/llm/adapter"
	llm "github.com/jinford/dev-ingest/internal/module/llm/domain"
	"github.com/jinford/dev-ingest/internal/module/search/adapter/rerank"
	searchapp "github.com/jinford/dev-ingest/internal/module/search/application"
	search "github.com/jinford/dev-ingest/internal/module/search/domain"
	"github.com/jinford/dev-ingest/internal/platform/config"
	"github.com/jinford/dev-ingest/internal/platform/database"
)

// ErrUnknownStore は VECTOR_STORE に未対応の値が指定された場合のエラー
var ErrUnknownStore = errors.New("unknown vector store")

// Store はチャンクの保存と検索を兼ねるベクトルストア
type Store interface {
	ingestion.ChunkStore
	search.VectorIndex
}

// ServiceContainer はアプリケーションの依存関係を保持します
// 外部サービスに依存するコンポーネントは初回利用時に生成します
type ServiceContainer struct {
	ChunkService *chunkingapp.ChunkService
	Detector     ingestion.Detector
	Profiles     chunking.ProfileSet

	cfg    *config.Config
	logger *slog.Logger

	mu       sync.Mutex
	embedder llm.Embedder
	llm      llm.Client
	store    Store
	remote   *vectorize.Client
	closers  []func() error
}

// New は設定とロガーからコンテナを生成します
func New(cfg *config.Config, logger *slog.Logger) (*ServiceContainer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	profiles, err := cfg.Chunking.Profiles()
	if err != nil {
		return nil, fmt.Errorf("チャンク設定の読み込みに失敗しました: %w", err)
	}

	return &ServiceContainer{
		ChunkService: chunkingapp.NewChunkService(chunkingapp.WithChunkLogger(logger)),
		Detector:     detector.NewDetector(),
		Profiles:     profiles,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// Logger はロガーを返します
func (c *ServiceContainer) Logger() *slog.Logger {
	if c == nil || c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Config は設定を返します
func (c *ServiceContainer) Config() *config.Config {
	return c.cfg
}

// RemoteEnabled はリモート取り込み・検索サービスが設定されているかを返します
func (c *ServiceContainer) RemoteEnabled() bool {
	return c.cfg.Vectorize.Enabled()
}

// IngestService はローカルの埋め込み・保存パイプラインを返します
func (c *ServiceContainer) IngestService(ctx context.Context) (*ingestionapp.IngestService, error) {
	embedder, err := c.Embedder()
	if err != nil {
		return nil, err
	}
	store, err := c.Store(ctx)
	if err != nil {
		return nil, err
	}

	counter, err := tokens.NewCounter(tokens.DefaultEncoding)
	if err != nil {
		c.logger.Warn("tiktoken unavailable, falling back to estimated token counts", "error", err)
		counter = &tokens.Counter{}
	}

	return ingestionapp.NewIngestService(
		c.Detector,
		c.ChunkService,
		embedder,
		counter,
		store,
		ingestionapp.WithIngestLogger(c.logger),
		ingestionapp.WithProfiles(c.Profiles),
		ingestionapp.WithTransformers(htmlconv.NewConverter()),
	), nil
}

// UploadService はリモートサービスへのアップロードを返します
func (c *ServiceContainer) UploadService() (*ingestionapp.UploadService, error) {
	remote, err := c.Remote()
	if err != nil {
		return nil, err
	}
	return ingestionapp.NewUploadService(remote, c.Detector, ingestionapp.WithUploadLogger(c.logger)), nil
}

// SearchService は検索サービスを返します。remote が true の場合はリモートの検索パイプラインを使います
func (c *ServiceContainer) SearchService(ctx context.Context, remote bool, defaultNumResults int) (*searchapp.SearchService, error) {
	retriever, err := c.Retriever(ctx, remote)
	if err != nil {
		return nil, err
	}
	return searchapp.NewSearchService(retriever,
		searchapp.WithSearchLogger(c.logger),
		searchapp.WithDefaultNumResults(defaultNumResults),
	), nil
}

// AskService は質問応答サービスを返します
func (c *ServiceContainer) AskService(ctx context.Context, remote bool) (*searchapp.AskService, error) {
	client, err := c.LLM()
	if err != nil {
		return nil, err
	}
	retriever, err := c.Retriever(ctx, remote)
	if err != nil {
		return nil, err
	}
	return searchapp.NewAskService(client, retriever, searchapp.WithAskLogger(c.logger)), nil
}

// Retriever は検索に使う Retriever を返します
func (c *ServiceContainer) Retriever(ctx context.Context, remote bool) (search.Retriever, error) {
	if remote {
		client, err := c.Remote()
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	embedder, err := c.Embedder()
	if err != nil {
		return nil, err
	}
	store, err := c.Store(ctx)
	if err != nil {
		return nil, err
	}
	return searchapp.NewVectorRetriever(embedder, store,
		searchapp.WithReranker(rerank.NewKeywordReranker(rerank.DefaultKeywordWeight)),
		searchapp.WithRetrieverLogger(c.logger),
	), nil
}

// LocalSource はファイルまたはディレクトリのソースを返します
func (c *ServiceContainer) LocalSource(path string) ingestion.Source {
	return source.NewLocalSource(path, source.WithLocalLogger(c.logger))
}

// GitSource はGitリポジトリのソースを返します。ref が空の場合は GIT_DEFAULT_BRANCH を使います
func (c *ServiceContainer) GitSource(url, ref string) ingestion.Source {
	if ref == "" {
		ref = c.cfg.Git.DefaultBranch
	}
	client := source.NewGitClient(c.cfg.Git.SSHKeyPath, c.cfg.Git.SSHPassword)
	return source.NewGitSource(client, url, ref, c.cfg.Git.CloneDir, source.WithGitLogger(c.logger))
}

// Embedder はEmbedderを返します。EMBEDDING_CACHE_PATH が設定されていればBoltDBキャッシュで包みます
func (c *ServiceContainer) Embedder() (llm.Embedder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.embedder != nil {
		return c.embedder, nil
	}

	oa := c.cfg.OpenAI
	embedder, err := llmadapter.NewOpenAIEmbedder(oa.APIKey, oa.EmbeddingModel, oa.EmbeddingDimension)
	if err != nil {
		return nil, fmt.Errorf("Embedder 初期化に失敗しました: %w", err)
	}

	if c.cfg.Cache.Path == "" {
		c.embedder = embedder
		return c.embedder, nil
	}

	cached, err := llmadapter.NewCachedEmbedder(embedder, c.cfg.Cache.Path,
		llmadapter.WithCacheNamespace(embedder.GetModelName()),
		llmadapter.WithCacheLogger(c.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("Embeddingキャッシュの初期化に失敗しました: %w", err)
	}
	c.closers = append(c.closers, cached.Close)
	c.embedder = cached
	return c.embedder, nil
}

// LLM はテキスト生成クライアントを返します
func (c *ServiceContainer) LLM() (llm.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.llm != nil {
		return c.llm, nil
	}

	oa := c.cfg.OpenAI
	client, err := llmadapter.NewOpenAIClient(oa.APIKey, oa.LLMModel,
		llmadapter.WithTemperature(oa.LLMTemperature),
		llmadapter.WithMaxTokens(oa.LLMMaxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("LLMクライアント初期化に失敗しました: %w", err)
	}
	c.llm = client
	return c.llm, nil
}

// Store は VECTOR_STORE に応じたベクトルストアを返します
func (c *ServiceContainer) Store(ctx context.Context) (Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store != nil {
		return c.store, nil
	}

	var (
		store Store
		err   error
	)
	switch c.cfg.Store.Backend {
	case "", "pg", "postgres":
		store, err = c.newPostgresStore(ctx)
	case "qdrant":
		store, err = c.newQdrantStore(ctx)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownStore, c.cfg.Store.Backend)
	}
	if err != nil {
		return nil, err
	}

	c.store = store
	return c.store, nil
}

// Remote はリモート取り込み・検索サービスのクライアントを返します
func (c *ServiceContainer) Remote() (*vectorize.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.remote != nil {
		return c.remote, nil
	}

	v := c.cfg.Vectorize
	client, err := vectorize.NewClient(vectorize.Config{
		APIKey:      v.APIKey,
		OrgID:       v.OrgID,
		PipelineID:  v.PipelineID,
		ConnectorID: v.ConnectorID,
		BaseURL:     v.BaseURL,
	}, vectorize.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}
	c.remote = client
	return c.remote, nil
}

// Close は内部リソースを解放します
func (c *ServiceContainer) Close() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.logger.Warn("failed to close resource", "error", err)
		}
	}
	c.closers = nil
}

func (c *ServiceContainer) newPostgresStore(ctx context.Context) (Store, error) {
	db, err := database.New(ctx, database.ConnectionParams{
		Host:     c.cfg.Database.Host,
		Port:     c.cfg.Database.Port,
		User:     c.cfg.Database.User,
		Password: c.cfg.Database.Password,
		DBName:   c.cfg.Database.DBName,
		SSLMode:  c.cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("データベース初期化に失敗しました: %w", err)
	}
	c.closers = append(c.closers, func() error {
		db.Close()
		return nil
	})

	if err := ingestionpg.EnsureSchema(ctx, db.Pool, c.cfg.OpenAI.EmbeddingDimension); err != nil {
		return nil, fmt.Errorf("スキーマの初期化に失敗しました: %w", err)
	}

	return ingestionpg.NewStore(db.Pool, database.NewTransactionProvider(db.Pool),
		ingestionpg.WithStoreLogger(c.logger),
	), nil
}

func (c *ServiceContainer) newQdrantStore(ctx context.Context) (Store, error) {
	client, err := qdrantstore.NewClient(c.cfg.Store.QdrantHost, c.cfg.Store.QdrantPort)
	if err != nil {
		return nil, fmt.Errorf("Qdrant クライアント初期化に失敗しました: %w", err)
	}
	c.closers = append(c.closers, client.Close)

	store := qdrantstore.NewStore(client, c.cfg.OpenAI.EmbeddingDimension,
		qdrantstore.WithCollection(c.cfg.Store.QdrantCollection),
		qdrantstore.WithStoreLogger(c.logger),
	)
	if err := store.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("コレクションの初期化に失敗しました: %w", err)
	}
	return store, nil
}
