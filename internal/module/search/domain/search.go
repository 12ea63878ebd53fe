package domain

import "context"

const (
	// DefaultNumResults はローカル検索のデフォルト件数
	DefaultNumResults = 10

	// DefaultRemoteNumResults はHTTP経由の検索のデフォルト件数
	DefaultRemoteNumResults = 1000
)

// Hit は検索でヒットした1チャンク
// チャンクのメタデータは保存時の値をそのまま保持します
type Hit struct {
	ID           string   `json:"id,omitempty"`
	DocumentName string   `json:"documentName"`
	SourceURI    string   `json:"sourceUri,omitempty"`
	Content      string   `json:"content"`
	Score        float64  `json:"score"`
	ChunkIndex   int      `json:"chunkIndex"`
	TotalChunks  int      `json:"totalChunks"`
	RowStart     int      `json:"rowStart"`
	RowEnd       int      `json:"rowEnd"`
	Headers      []string `json:"headers"`
}

// SearchParams は検索パラメータ
type SearchParams struct {
	Query      string
	NumResults int
	Rerank     bool
}

// Validate はクエリの必須チェックを行います
func (p SearchParams) Validate() error {
	if p.Query == "" {
		return ErrQueryRequired
	}
	return nil
}

// WithDefaults は NumResults が0以下の場合に def を設定したコピーを返します
func (p SearchParams) WithDefaults(def int) SearchParams {
	if p.NumResults <= 0 {
		p.NumResults = def
	}
	return p
}

// SearchResult は検索結果
// AverageRelevancy と NDCG はリモート検索の場合のみ設定されます
type SearchResult struct {
	Hits             []Hit   `json:"hits"`
	AverageRelevancy float64 `json:"averageRelevancy"`
	NDCG             float64 `json:"ndcg"`
}

// Retriever はクエリからチャンクを取得するインターフェース
type Retriever interface {
	Retrieve(ctx context.Context, params SearchParams) (*SearchResult, error)
}

// VectorIndex はベクトル類似度でチャンクを検索するインターフェース
type VectorIndex interface {
	// Search はクエリベクトルに近い順に最大 limit 件のチャンクを返します
	Search(ctx context.Context, vector []float32, limit int) ([]Hit, error)
}

// Reranker はクエリに対してヒットを並べ替えるインターフェース
type Reranker interface {
	Rerank(query string, hits []Hit) []Hit
}
