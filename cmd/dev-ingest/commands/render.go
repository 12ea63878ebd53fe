package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	ingestion "github.com/jinford/dev-ingest/internal/module/ingestion/domain"
	searchapp "github.com/jinford/dev-ingest/internal/module/search/application"
	search "github.com/jinford/dev-ingest/internal/module/search/domain"
)

// renderReport は取り込み結果をテーブル形式で表示します
func renderReport(w io.Writer, report *ingestion.Report) {
	table := tablewriter.NewWriter(w)
	table.Header("Document", "Chunks", "Tokens", "Status")

	for _, res := range report.Results {
		status := "ok"
		if res.Err != nil {
			status = truncateString(res.Err.Error(), 60)
		}
		table.Append(res.Name, fmt.Sprintf("%d", res.Chunks), fmt.Sprintf("%d", res.Tokens), status)
	}

	table.Render()
	fmt.Fprintf(w, "\n✓ 成功 %d件 / 失敗 %d件 / チャンク %d件\n", report.Succeeded, report.Failed, report.Chunks)
}

// renderSearchResult は検索結果をテーブル形式で表示します
func renderSearchResult(w io.Writer, result *search.SearchResult) {
	if len(result.Hits) == 0 {
		fmt.Fprintln(w, "該当するチャンクはありません")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("Score", "Document", "Chunk", "Rows", "Content")

	for _, hit := range result.Hits {
		table.Append(
			fmt.Sprintf("%.3f", hit.Score),
			hit.DocumentName,
			fmt.Sprintf("%d/%d", hit.ChunkIndex+1, hit.TotalChunks),
			fmt.Sprintf("%d-%d", hit.RowStart, hit.RowEnd),
			truncateString(hit.Content, 80),
		)
	}

	table.Render()
	if result.NDCG > 0 {
		fmt.Fprintf(w, "\naverage relevancy: %.3f, ndcg: %.3f\n", result.AverageRelevancy, result.NDCG)
	}
}

// renderAnswer は回答と参照元を表示します
func renderAnswer(w io.Writer, result *searchapp.AskResult) {
	fmt.Fprintf(w, "%s\n", result.Answer)
	fmt.Fprintf(w, "\n=== 参照元 (query: %s) ===\n", result.SearchQuery)
	if len(result.Sources) == 0 {
		fmt.Fprintln(w, "(なし)")
		return
	}
	for i, src := range result.Sources {
		fmt.Fprintf(w, "[%d] %s (chunk %d, score %.3f)\n", i+1, src.DocumentName, src.ChunkIndex, src.Score)
	}
}

// truncateString は改行を空白に置き換え、max 文字を超える部分を省略します
func truncateString(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
