package domain

import (
	"context"

	"github.com/google/uuid"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// Source は取り込み対象のファイルを列挙するインターフェース
type Source interface {
	// Files はソース内の取り込み対象ファイルを返します
	Files(ctx context.Context) ([]File, error)
}

// Detector はファイルの種別を判定するインターフェース
type Detector interface {
	// Detect はパスと内容からドキュメント種別とMIMEタイプを判定します
	// 取り込めない種別の場合は ErrUnsupportedDocument を返します
	Detect(path string, content []byte) (chunking.DocumentKind, string, error)
}

// Chunker はドキュメントをチャンク列に変換するインターフェース
type Chunker interface {
	ChunkDocument(ctx context.Context, kind chunking.DocumentKind, raw []byte, profile chunking.Profile) (chunking.ChunkSet, error)
}

// TokenCounter はテキストのトークン数を数えるインターフェース
type TokenCounter interface {
	Count(text string) int
}

// ChunkStore はEmbedding済みチャンクの永続化インターフェース
type ChunkStore interface {
	// Save はドキュメントの既存チャンクを置き換えて保存します
	Save(ctx context.Context, doc *Document, chunks []EmbeddedChunk) error

	// DeleteDocument はドキュメントとそのチャンクを削除します
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

// Uploader はファイルを外部パイプラインへそのまま送るインターフェース
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, content []byte) error
}

// Transformer はチャンク化の前にドキュメント内容を変換するインターフェース
type Transformer interface {
	// Transform は対象のドキュメントであれば内容と種別を書き換えます
	Transform(doc *Document) error
}
