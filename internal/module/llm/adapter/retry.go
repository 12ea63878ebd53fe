package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"

	"github.com/jinford/dev-ingest/internal/module/llm/domain"
)

const (
	// MaxRetries はレート制限エラー時の最大リトライ回数
	MaxRetries = 3

	// BaseBackoff はExponential Backoffの基底時間
	BaseBackoff = 2 * time.Second

	// MaxBackoff はExponential Backoffの最大待機時間
	MaxBackoff = 32 * time.Second
)

// retryPolicy はレート制限時の再試行設定
type retryPolicy struct {
	maxRetries int
	base       time.Duration
	max        time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{maxRetries: MaxRetries, base: BaseBackoff, max: MaxBackoff}
}

// backoff は attempt 回目（1始まり）の待機時間を返す
func (p retryPolicy) backoff(attempt int) time.Duration {
	d := p.base << (attempt - 1)
	if d > p.max || d <= 0 {
		d = p.max
	}
	return d
}

// withRetry はレート制限エラーの間だけ fn を再試行する
func withRetry[T any](ctx context.Context, p retryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(p.backoff(attempt)):
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRateLimitError(err) {
			return zero, classify(err)
		}
	}

	return zero, fmt.Errorf("%w: %w: %v", domain.ErrMaxRetriesExceeded, domain.ErrRateLimitExceeded, lastErr)
}

// isRateLimitError はエラーがレート制限エラーかどうかを判定する
func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// classify はAPIエラーをドメインエラーに対応付ける
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return fmt.Errorf("OpenAI API call failed: %w", err)
}
