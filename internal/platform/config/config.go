package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	Database  DatabaseConfig
	OpenAI    OpenAIConfig
	Chunking  ChunkingConfig
	Store     StoreConfig
	Cache     CacheConfig
	Vectorize VectorizeConfig
	Git       GitConfig
	Server    ServerConfig
	Log       LogConfig
}

// DatabaseConfig はデータベース接続設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// OpenAIConfig はOpenAI API設定（Embeddings + LLM）
type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
}

// ChunkingConfig はチャンク化のデフォルト設定
type ChunkingConfig struct {
	Strategy              string
	RowsPerChunk          int
	OverlapRows           int
	ColumnsPerChunk       int
	HybridColumnsPerChunk int
	IncludeHeaders        bool
	TextChunkSize         int
	TextOverlap           int
	// ProfilePath は拡張子ごとの上書き設定を記述したYAMLファイル（任意）
	ProfilePath string
}

// StoreConfig はベクトルストアの選択
type StoreConfig struct {
	// Backend は "pg" または "qdrant"
	Backend          string
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string
}

// CacheConfig はEmbeddingキャッシュ設定。Path が空の場合は無効です
type CacheConfig struct {
	Path string
}

// VectorizeConfig はリモート取り込み・検索サービスの設定
type VectorizeConfig struct {
	APIKey      string
	OrgID       string
	PipelineID  string
	ConnectorID string
	BaseURL     string
}

// GitConfig はGit操作設定
type GitConfig struct {
	CloneDir      string
	SSHKeyPath    string
	SSHPassword   string // SSH秘密鍵のパスフレーズ
	DefaultBranch string
}

// ServerConfig はHTTPサーバー設定
type ServerConfig struct {
	Addr string
}

// LogConfig はログ出力設定
type LogConfig struct {
	Level  string
	Format string
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合は環境変数のみで動作する
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	defaults := chunking.DefaultProfile()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "devingest"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "devingest"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", 1536),
			LLMModel:           getEnv("OPENAI_LLM_MODEL", "gpt-4o-mini"),
			LLMTemperature:     getEnvAsFloat("OPENAI_LLM_TEMPERATURE", 0.2),
			LLMMaxTokens:       getEnvAsInt("OPENAI_LLM_MAX_TOKENS", 2048),
		},
		Chunking: ChunkingConfig{
			Strategy:              getEnv("CHUNK_STRATEGY", string(chunking.StrategyRow)),
			RowsPerChunk:          getEnvAsInt("CHUNK_ROWS", defaults.Tabular.Row.RowsPerChunk),
			OverlapRows:           getEnvAsInt("CHUNK_OVERLAP_ROWS", defaults.Tabular.Row.OverlapRows),
			ColumnsPerChunk:       getEnvAsInt("CHUNK_COLUMNS", defaults.Tabular.Column.ColumnsPerChunk),
			HybridColumnsPerChunk: getEnvAsInt("CHUNK_HYBRID_COLUMNS", defaults.Tabular.Hybrid.ColumnsPerChunk),
			IncludeHeaders:        getEnvAsBool("CHUNK_INCLUDE_HEADERS", defaults.Tabular.Row.IncludeHeaders),
			TextChunkSize:         getEnvAsInt("TEXT_CHUNK_SIZE", defaults.Text.ChunkSize),
			TextOverlap:           getEnvAsInt("TEXT_CHUNK_OVERLAP", defaults.Text.Overlap),
			ProfilePath:           getEnv("CHUNK_PROFILE_PATH", ""),
		},
		Store: StoreConfig{
			Backend:          strings.ToLower(getEnv("VECTOR_STORE", "pg")),
			QdrantHost:       getEnv("QDRANT_HOST", "localhost"),
			QdrantPort:       getEnvAsInt("QDRANT_PORT", 6334),
			QdrantCollection: getEnv("QDRANT_COLLECTION", "dev_ingest_chunks"),
		},
		Cache: CacheConfig{
			Path: getEnv("EMBEDDING_CACHE_PATH", ""),
		},
		Vectorize: VectorizeConfig{
			APIKey:      getEnv("VECTORIZE_API_KEY", ""),
			OrgID:       getEnv("VECTORIZE_ORG_ID", ""),
			PipelineID:  getEnv("VECTORIZE_PIPELINE_ID", ""),
			ConnectorID: getEnv("VECTORIZE_CONNECTOR_ID", ""),
			BaseURL:     getEnv("VECTORIZE_BASE_URL", "https://api.vectorize.io/v1"),
		},
		Git: GitConfig{
			CloneDir:      getEnv("GIT_CLONE_DIR", "/var/lib/dev-ingest/repos"),
			SSHKeyPath:    getEnv("GIT_SSH_KEY_PATH", ""),
			SSHPassword:   getEnv("GIT_SSH_PASSWORD", ""),
			DefaultBranch: getEnv("GIT_DEFAULT_BRANCH", ""),
		},
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8080"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Profile は環境変数の値からデフォルトのチャンク化設定を組み立てます
func (c ChunkingConfig) Profile() (chunking.Profile, error) {
	strategy, err := chunking.ParseStrategy(c.Strategy)
	if err != nil {
		return chunking.Profile{}, err
	}

	p := chunking.DefaultProfile()
	p.Tabular.Strategy = strategy
	p.Tabular.Row = chunking.RowOptions{
		RowsPerChunk:   c.RowsPerChunk,
		OverlapRows:    c.OverlapRows,
		IncludeHeaders: c.IncludeHeaders,
	}
	p.Tabular.Column = chunking.ColumnOptions{ColumnsPerChunk: c.ColumnsPerChunk}
	p.Tabular.Hybrid = chunking.HybridOptions{
		RowsPerChunk:    c.RowsPerChunk,
		ColumnsPerChunk: c.HybridColumnsPerChunk,
	}
	p.Text = chunking.TextOptions{
		ChunkSize: c.TextChunkSize,
		Overlap:   c.TextOverlap,
	}
	return p, nil
}

// Profiles はデフォルト設定に ProfilePath の上書きを適用した ProfileSet を返します
func (c ChunkingConfig) Profiles() (chunking.ProfileSet, error) {
	def, err := c.Profile()
	if err != nil {
		return chunking.ProfileSet{}, err
	}
	if c.ProfilePath == "" {
		return chunking.NewProfileSet(def), nil
	}
	return LoadProfiles(c.ProfilePath, def)
}

// Enabled はリモートサービスの認証情報が揃っているかを返します
func (c VectorizeConfig) Enabled() bool {
	return c.APIKey != "" && c.OrgID != ""
}

// SlogLevel はログレベル文字列を slog.Level に変換します。不明な値は info になります
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat は環境変数を浮動小数点数として取得します
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool は環境変数を真偽値として取得します
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
