package domain

// TabularParser は区切り文字テキストを Table に変換するインターフェース
type TabularParser interface {
	// Parse は生データを解析します
	Parse(raw []byte) (Table, error)
}

// TabularChunker は Table を ChunkSet に分割する戦略インターフェース
type TabularChunker interface {
	// Chunk は Table をチャンク列に分割します
	Chunk(table Table) (ChunkSet, error)
}

// TextChunker は自由テキストを文字列チャンクに分割するインターフェース
type TextChunker interface {
	// Split はテキストを分割します。空テキストは空スライスを返します
	Split(text string) ([]string, error)
}
