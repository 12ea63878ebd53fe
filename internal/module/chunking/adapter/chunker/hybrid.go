package chunker

import (
	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// HybridChunker は列グループごとに重複なしの行ウィンドウで Table を分割します
// チャンク順は列グループ優先、グループ内は行ウィンドウ順です
type HybridChunker struct {
	opts domain.HybridOptions
}

// NewHybridChunker は新しいHybridChunkerを作成します
func NewHybridChunker(opts domain.HybridOptions) *HybridChunker {
	return &HybridChunker{opts: opts}
}

// Chunk は Table を列グループ×行ウィンドウのチャンクに分割します
// TotalChunks は全チャンク生成後に確定させます
func (c *HybridChunker) Chunk(table domain.Table) (domain.ChunkSet, error) {
	if err := c.opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkTable(table); err != nil {
		return nil, err
	}

	total := table.RowCount()
	var chunks []domain.Chunk
	for _, group := range columnGroups(table.Headers, c.opts.ColumnsPerChunk) {
		for start := 0; start < total; start += c.opts.RowsPerChunk {
			end := min(start+c.opts.RowsPerChunk, total)

			var r renderer
			r.header("Columns", group)
			for i, record := range table.Records[start:end] {
				r.row(start+i+1, group, record)
			}

			chunks = append(chunks, domain.Chunk{
				Content: r.String(),
				Metadata: domain.ChunkMetadata{
					ChunkIndex:  len(chunks),
					RowStart:    start,
					RowEnd:      end - 1,
					ColumnCount: len(group),
					Headers:     cloneStrings(group),
				},
			})
		}
	}

	return withTotal(chunks), nil
}

var _ domain.TabularChunker = (*HybridChunker)(nil)
