package vectorize

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	search "github.com/jinford/dev-ingest/internal/module/search/domain"
)

var _ search.Retriever = (*Client)(nil)

type advancedQuery struct {
	Mode      string `json:"mode"`
	MatchType string `json:"match-type"`
}

type retrievalRequest struct {
	Question      string        `json:"question"`
	NumResults    int           `json:"numResults"`
	Rerank        bool          `json:"rerank"`
	AdvancedQuery advancedQuery `json:"advanced-query"`
}

type retrievalDocument struct {
	ID                string         `json:"id"`
	Text              string         `json:"text"`
	Content           string         `json:"content"`
	Source            string         `json:"source"`
	SourceDisplayName string         `json:"source_display_name"`
	Relevancy         *float64       `json:"relevancy"`
	Similarity        *float64       `json:"similarity"`
	Score             *float64       `json:"score"`
	Metadata          map[string]any `json:"metadata"`
}

type retrievalResponse struct {
	Documents        []retrievalDocument `json:"documents"`
	AverageRelevancy float64             `json:"average_relevancy"`
	NDCG             float64             `json:"ndcg"`
}

// Retrieve はパイプラインに対してテキスト検索を実行します
func (c *Client) Retrieve(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if c.cfg.PipelineID == "" {
		return nil, fmt.Errorf("%w: pipeline id is required", ErrNotConfigured)
	}
	params = params.WithDefaults(search.DefaultNumResults)

	endpoint := fmt.Sprintf("%s/org/%s/pipelines/%s/retrieval", c.cfg.BaseURL, c.cfg.OrgID, c.cfg.PipelineID)
	body := retrievalRequest{
		Question:      params.Query,
		NumResults:    params.NumResults,
		Rerank:        params.Rerank,
		AdvancedQuery: advancedQuery{Mode: "text", MatchType: "match"},
	}

	var resp retrievalResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", search.ErrRetrievalFailed, err)
	}

	hits := make([]search.Hit, len(resp.Documents))
	for i, d := range resp.Documents {
		hits[i] = d.hit(i)
	}

	c.log.Debug("vectorize retrieval completed", "query", params.Query, "hitCount", len(hits))
	return &search.SearchResult{
		Hits:             hits,
		AverageRelevancy: resp.AverageRelevancy,
		NDCG:             resp.NDCG,
	}, nil
}

func (d retrievalDocument) hit(i int) search.Hit {
	h := search.Hit{
		ID:           d.ID,
		DocumentName: displayName(d.SourceDisplayName, i),
		SourceURI:    d.Source,
		Content:      d.Text,
		Headers:      []string{},
	}
	if h.Content == "" {
		h.Content = d.Content
	}
	for _, s := range []*float64{d.Relevancy, d.Similarity, d.Score} {
		if s != nil {
			h.Score = *s
			break
		}
	}

	// チャンク化時のメタデータが含まれていればそのまま引き継ぐ
	h.ChunkIndex = intField(d.Metadata, "chunkIndex")
	h.TotalChunks = intField(d.Metadata, "totalChunks")
	h.RowStart = intField(d.Metadata, "rowStart")
	h.RowEnd = intField(d.Metadata, "rowEnd")
	if headers, ok := d.Metadata["headers"].([]any); ok {
		for _, v := range headers {
			if s, ok := v.(string); ok {
				h.Headers = append(h.Headers, s)
			}
		}
	}
	return h
}

// displayName はソース表示名の末尾のファイル名を返します。取れない場合は連番の名前になります
func displayName(source string, i int) string {
	if source != "" {
		name := source[strings.LastIndex(source, "/")+1:]
		if decoded, err := url.PathUnescape(name); err == nil {
			name = decoded
		}
		if name != "" {
			return name
		}
	}
	return fmt.Sprintf("Document %d", i+1)
}

func intField(m map[string]any, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}
