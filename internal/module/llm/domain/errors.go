package domain

import "errors"

var (
	// ErrRateLimitExceeded はレート制限を超えた場合のエラー
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidRequest はリクエストが不正な場合のエラー
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMaxRetriesExceeded は最大リトライ回数を超えた場合のエラー
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrAPIKeyNotSet はAPIキーが設定されていない場合のエラー
	ErrAPIKeyNotSet = errors.New("OpenAI API key not set")

	// ErrEmptyEmbedding はEmbeddingが返されなかった場合のエラー
	ErrEmptyEmbedding = errors.New("no embeddings generated")
)
