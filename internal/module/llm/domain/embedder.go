package domain

import "context"

// MaxBatchSize は1回のバッチEmbeddingで扱える最大件数
const MaxBatchSize = 100

// Embedder はテキストをベクトル表現に変換するインターフェース
type Embedder interface {
	// Embed はテキストからEmbeddingベクトルを生成する
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed は複数テキストのEmbeddingを入力順に生成する（最大 MaxBatchSize 件）
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension はEmbeddingベクトルの次元数を返す
	Dimension() int
}
