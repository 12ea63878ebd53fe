package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/jinford/dev-ingest/internal/module/llm/domain"
)

const (
	// DefaultModel はデフォルトで使用するOpenAIモデル
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout はAPI呼び出しのデフォルトタイムアウト
	DefaultTimeout = 60 * time.Second
)

// OpenAIClient はOpenAI Chat Completions APIを使用したLLMクライアント実装
type OpenAIClient struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	retry       retryPolicy
	requestOpts []option.RequestOption
}

// ClientOption は OpenAIClient のオプション
type ClientOption func(*OpenAIClient)

// WithTemperature はデフォルトの温度を設定します
func WithTemperature(t float64) ClientOption {
	return func(c *OpenAIClient) {
		c.temperature = t
	}
}

// WithMaxTokens はデフォルトの最大トークン数を設定します
func WithMaxTokens(n int) ClientOption {
	return func(c *OpenAIClient) {
		c.maxTokens = n
	}
}

// WithTimeout はAPIコールのタイムアウトを設定します
func WithTimeout(d time.Duration) ClientOption {
	return func(c *OpenAIClient) {
		c.timeout = d
	}
}

// WithRequestOptions はSDKのリクエストオプション（ベースURLなど）を追加します
func WithRequestOptions(opts ...option.RequestOption) ClientOption {
	return func(c *OpenAIClient) {
		c.requestOpts = append(c.requestOpts, opts...)
	}
}

// NewOpenAIClient はAPIキーとモデルを指定してOpenAIClientを作成する
func NewOpenAIClient(apiKey, model string, opts ...ClientOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, domain.ErrAPIKeyNotSet
	}
	if model == "" {
		model = DefaultModel
	}

	c := &OpenAIClient{
		model:   model,
		timeout: DefaultTimeout,
		retry:   defaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, c.requestOpts...)...)
	return c, nil
}

// GetModelName はモデル名を返す
func (c *OpenAIClient) GetModelName() string {
	return c.model
}

// GenerateCompletion はOpenAI APIを使用してテキストを生成する
func (c *OpenAIClient) GenerateCompletion(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResponse, error) {
	messages := buildMessages(req)
	if len(messages) == 0 {
		return domain.CompletionResponse{}, fmt.Errorf("%w: no messages", domain.ErrInvalidRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.model
	if req.Model != "" {
		model = req.Model
	}
	temperature := c.temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	maxTokens := c.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(temperature),
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	completion, err := withRetry(ctx, c.retry, func(ctx context.Context) (*openai.ChatCompletion, error) {
		return c.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return domain.CompletionResponse{}, err
	}

	if len(completion.Choices) == 0 {
		return domain.CompletionResponse{}, fmt.Errorf("no completion choices returned")
	}

	return domain.CompletionResponse{
		Content:    completion.Choices[0].Message.Content,
		TokensUsed: int(completion.Usage.TotalTokens),
		Model:      string(completion.Model),
	}, nil
}

// buildMessages はリクエストをSDKのメッセージ列に変換する
func buildMessages(req domain.CompletionRequest) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case domain.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	if req.Prompt != "" {
		messages = append(messages, openai.UserMessage(req.Prompt))
	}
	return messages
}

var _ domain.Client = (*OpenAIClient)(nil)

// WithRetryBackoff はレート制限時の待機時間を設定します
func WithRetryBackoff(base, max time.Duration) ClientOption {
	return func(c *OpenAIClient) {
		c.retry.base = base
		c.retry.max = max
	}
}
