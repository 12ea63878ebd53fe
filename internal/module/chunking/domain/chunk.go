package domain

// ChunkMetadata はチャンクの位置情報です
type ChunkMetadata struct {
	ChunkIndex  int      `json:"chunkIndex" yaml:"chunkIndex"`
	TotalChunks int      `json:"totalChunks" yaml:"totalChunks"`
	RowStart    int      `json:"rowStart" yaml:"rowStart"`
	RowEnd      int      `json:"rowEnd" yaml:"rowEnd"`
	ColumnCount int      `json:"columnCount" yaml:"columnCount"`
	Headers     []string `json:"headers" yaml:"headers"`
}

// Chunk は埋め込み対象のテキストと位置メタデータの組です
// Content は他のチャンクを参照しなくても解釈できる内容になっています
type Chunk struct {
	Content  string        `json:"content" yaml:"content"`
	Metadata ChunkMetadata `json:"metadata" yaml:"metadata"`
}

// ChunkSet は1回のチャンク化で生成されたチャンク列です（ドキュメント順）
type ChunkSet []Chunk

// Contents は各チャンクの本文を順に返します
func (s ChunkSet) Contents() []string {
	contents := make([]string, len(s))
	for i, c := range s {
		contents[i] = c.Content
	}
	return contents
}
