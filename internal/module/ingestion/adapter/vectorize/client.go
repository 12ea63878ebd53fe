package vectorize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL はVectorize APIのベースURL
	DefaultBaseURL = "https://api.vectorize.io/v1"

	// DefaultTimeout はHTTPリクエストのタイムアウト
	DefaultTimeout = 60 * time.Second
)

// ErrNotConfigured は必要な認証情報が設定されていない場合のエラー
var ErrNotConfigured = errors.New("vectorize is not configured")

// Config はVectorize APIの接続設定
type Config struct {
	APIKey      string
	OrgID       string
	PipelineID  string
	ConnectorID string
	BaseURL     string
}

// Enabled はAPIキーと組織IDが設定されているかを返します
func (c Config) Enabled() bool {
	return c.APIKey != "" && c.OrgID != ""
}

// Client はVectorize APIのクライアントです
// アップロード（コネクタ）と検索（パイプライン）の両方を扱います
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

// Option は Client のオプション
type Option func(*Client)

// WithHTTPClient はHTTPクライアントを差し替えます
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger はロガーを設定します
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// NewClient は新しいClientを作成します
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: api key and organization id are required", ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: DefaultTimeout},
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// doJSON はJSONリクエストを送信し、成功時にレスポンスを out にデコードします
func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vectorize request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// APIError はVectorize APIが返したエラー
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vectorize API error (status %d): %s", e.StatusCode, e.Message)
}

func apiError(resp *http.Response, raw []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	msg := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		msg = body.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
