package domain

import "errors"

var (
	// ErrEmptyDocument はヘッダーのみでデータ行がない場合のエラー
	ErrEmptyDocument = errors.New("document has no data rows")

	// ErrMalformedDocument は列数の不一致など構造的な解析エラー
	ErrMalformedDocument = errors.New("malformed document")

	// ErrInvalidConfiguration はチャンク設定が不正な場合のエラー
	ErrInvalidConfiguration = errors.New("invalid chunking configuration")
)
