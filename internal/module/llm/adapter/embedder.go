package adapter

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jinford/dev-ingest/internal/module/llm/domain"
)

// DefaultEmbeddingModel はデフォルトのEmbeddingモデル
const DefaultEmbeddingModel = "text-embedding-3-small"

// OpenAIEmbedder はOpenAI Embeddings APIを使用したEmbedder実装
type OpenAIEmbedder struct {
	client    openai.Client
	model     string
	dimension int
	retry     retryPolicy
}

// NewOpenAIEmbedder は新しいOpenAIEmbedderを作成します
// requestOpts はベースURLの差し替えなどSDKへ追加で渡すオプションです
func NewOpenAIEmbedder(apiKey, model string, dimension int, requestOpts ...option.RequestOption) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, domain.ErrAPIKeyNotSet
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}

	opts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, requestOpts...)
	return &OpenAIEmbedder{
		client:    openai.NewClient(opts...),
		model:     model,
		dimension: dimension,
		retry:     defaultRetryPolicy(),
	}, nil
}

// Embed はテキストからEmbeddingベクトルを生成する
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// Dimension はEmbeddingベクトルの次元数を返す
func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

// GetModelName はモデル名を取得します
func (e *OpenAIEmbedder) GetModelName() string {
	return e.model
}

// BatchEmbed はバッチでEmbeddingを生成します（最大100件）
func (e *OpenAIEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts provided", domain.ErrInvalidRequest)
	}
	if len(texts) > domain.MaxBatchSize {
		return nil, fmt.Errorf("%w: batch size %d exceeds maximum of %d", domain.ErrInvalidRequest, len(texts), domain.MaxBatchSize)
	}

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
	}
	if len(texts) == 1 {
		params.Input = openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(texts[0]),
		}
	} else {
		params.Input = openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		}
	}
	// text-embedding-3 系のみ次元の指定が有効
	if e.dimension > 0 {
		params.Dimensions = openai.Int(int64(e.dimension))
	}

	resp, err := withRetry(ctx, e.retry, func(ctx context.Context) (*openai.CreateEmbeddingResponse, error) {
		return e.client.Embeddings.New(ctx, params)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", domain.ErrEmptyEmbedding, len(texts), len(resp.Data))
	}

	embeddings := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || int(data.Index) >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", data.Index)
		}
		vector := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			vector[i] = float32(v)
		}
		embeddings[data.Index] = vector
	}

	return embeddings, nil
}

var _ domain.Embedder = (*OpenAIEmbedder)(nil)
