package chunker

import (
	"fmt"
	"strings"

	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

const separatorLine = "---"

// renderer はチャンク本文を組み立てる
type renderer struct {
	lines []string
}

// header はヘッダー行と区切り行を追加する
func (r *renderer) header(label string, headers []string) {
	r.lines = append(r.lines, fmt.Sprintf("%s: %s", label, strings.Join(headers, ", ")), separatorLine)
}

// row は1行分を追加する。空でない値が1つもない行は出力しない
func (r *renderer) row(number int, headers []string, record domain.Record) {
	line, ok := renderRow(number, headers, record)
	if ok {
		r.lines = append(r.lines, line)
	}
}

func (r *renderer) String() string {
	return strings.Join(r.lines, "\n")
}

// renderRow は `Row <n>: h: v, h: v` 形式の行を生成します
// Nullおよび空文字列の値は出力から除外されます
func renderRow(number int, headers []string, record domain.Record) (string, bool) {
	parts := make([]string, 0, len(headers))
	for _, h := range headers {
		v := record.Get(h)
		if v.IsEmpty() {
			continue
		}
		parts = append(parts, h+": "+v.String())
	}
	if len(parts) == 0 {
		return "", false
	}
	return fmt.Sprintf("Row %d: %s", number, strings.Join(parts, ", ")), true
}

// withTotal は TotalChunks を確定させた新しい ChunkSet を返します
// 元のスライスとチャンクは変更しません
func withTotal(chunks []domain.Chunk) domain.ChunkSet {
	total := len(chunks)
	out := make(domain.ChunkSet, total)
	for i, c := range chunks {
		md := c.Metadata
		md.TotalChunks = total
		out[i] = domain.Chunk{Content: c.Content, Metadata: md}
	}
	return out
}

// columnGroups はヘッダーを size 件ずつの連続したグループに分割します
func columnGroups(headers []string, size int) [][]string {
	groups := make([][]string, 0, (len(headers)+size-1)/size)
	for start := 0; start < len(headers); start += size {
		end := min(start+size, len(headers))
		groups = append(groups, cloneStrings(headers[start:end]))
	}
	return groups
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// checkTable はチャンク化可能な Table かを確認します
func checkTable(table domain.Table) error {
	if table.RowCount() == 0 || table.ColumnCount() == 0 {
		return domain.ErrEmptyDocument
	}
	return nil
}
