package domain

import (
	"github.com/google/uuid"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// documentNamespace はドキュメントIDを導出するためのUUID名前空間
var documentNamespace = uuid.MustParse("5b1e4a3c-7d2f-4c8e-9a61-2f0d8c3b6e14")

// File はソースから読み込んだ生ファイル
type File struct {
	// Path はソース内での相対パス（表示名として使用）
	Path string
	// Content はファイル内容
	Content []byte
	// SourceURI はファイルの取得元（file:// パスやGit URL）
	SourceURI string
}

// Document は種別判定済みの取り込み対象ドキュメント
// Name は表示用のファイル名、Path はソース内での相対パス
type Document struct {
	ID          uuid.UUID
	Name        string
	Path        string
	Kind        chunking.DocumentKind
	ContentType string
	Content     []byte
	SourceURI   string
}

// DocumentID は取得元とパスから決定的なIDを導出します
// 同じファイルを再取り込みすると同じIDになり、既存のチャンクが置き換えられます
func DocumentID(sourceURI, path string) uuid.UUID {
	return uuid.NewSHA1(documentNamespace, []byte(sourceURI+"\x00"+path))
}

// EmbeddedChunk はEmbedding済みのチャンク
type EmbeddedChunk struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Chunk      chunking.Chunk
	Tokens     int
	Embedding  []float32
}

// ChunkID はドキュメントIDとチャンク番号から決定的なIDを導出します
func ChunkID(documentID uuid.UUID, index int) uuid.UUID {
	return uuid.NewSHA1(documentID, []byte{byte(index >> 24), byte(index >> 16), byte(index >> 8), byte(index)})
}
