package domain

import "errors"

var (
	// ErrUnsupportedDocument は取り込めない種別のファイルの場合のエラー
	ErrUnsupportedDocument = errors.New("unsupported document type")

	// ErrNoDocuments は取り込み対象が1件もない場合のエラー
	ErrNoDocuments = errors.New("no documents provided")

	// ErrAllDocumentsFailed はすべてのドキュメントの取り込みに失敗した場合のエラー
	ErrAllDocumentsFailed = errors.New("all documents failed")
)
