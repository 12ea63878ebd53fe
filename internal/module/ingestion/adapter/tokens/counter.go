package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

// DefaultEncoding はOpenAIのEmbeddingモデルが使うエンコーディング
const DefaultEncoding = "cl100k_base"

// Counter はtiktokenでトークン数を数えます
type Counter struct {
	encoding *tiktoken.Tiktoken
}

var _ domain.TokenCounter = (*Counter)(nil)

// NewCounter は指定エンコーディングのCounterを作成します。空文字は DefaultEncoding になります
func NewCounter(encoding string) (*Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
	}
	return &Counter{encoding: enc}, nil
}

// Count はテキストのトークン数を返します
func (c *Counter) Count(text string) int {
	if c.encoding == nil {
		return EstimateTokens(text)
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// EstimateTokens はエンコーディングなしで使う概算トークン数（3文字で1トークン）を返します
func EstimateTokens(text string) int {
	return len([]rune(text)) / 3
}
