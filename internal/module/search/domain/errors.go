package domain

import "errors"

var (
	// ErrQueryRequired はクエリが空の場合のエラー
	ErrQueryRequired = errors.New("query is required")

	// ErrRetrievalFailed はリモート検索が失敗した場合のエラー
	ErrRetrievalFailed = errors.New("retrieval failed")
)
