package testing

import (
	"fmt"
	"strings"

	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// Headers は col1..colN のヘッダーを生成します
func Headers(cols int) []string {
	headers := make([]string, cols)
	for i := range headers {
		headers[i] = fmt.Sprintf("col%d", i+1)
	}
	return headers
}

// NewTable は rows 行 cols 列のテスト用 Table を生成します
// セル値は "r<行>c<列>" 形式の文字列です（行・列とも1始まり）
func NewTable(rows, cols int) domain.Table {
	headers := Headers(cols)
	records := make([]domain.Record, rows)
	for r := range records {
		record := make(domain.Record, cols)
		for c, h := range headers {
			record[h] = domain.StringValue(fmt.Sprintf("r%dc%d", r+1, c+1))
		}
		records[r] = record
	}
	return domain.Table{Headers: headers, Records: records}
}

// NewCSV は NewTable と同じ内容のCSVテキストを生成します
func NewCSV(rows, cols int) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(Headers(cols), ","))
	sb.WriteString("\n")
	for r := 0; r < rows; r++ {
		cells := make([]string, cols)
		for c := range cells {
			cells[c] = fmt.Sprintf("r%dc%d", r+1, c+1)
		}
		sb.WriteString(strings.Join(cells, ","))
		sb.WriteString("\n")
	}
	return sb.String()
}
