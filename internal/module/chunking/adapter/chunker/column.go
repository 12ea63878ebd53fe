package chunker

import (
	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// ColumnChunker は列グループ単位で Table を分割します
// 各チャンクは全行を対象とし、グループ間で列は重複しません
type ColumnChunker struct {
	opts domain.ColumnOptions
}

// NewColumnChunker は新しいColumnChunkerを作成します
func NewColumnChunker(opts domain.ColumnOptions) *ColumnChunker {
	return &ColumnChunker{opts: opts}
}

// Chunk は Table を列グループごとのチャンクに分割します
func (c *ColumnChunker) Chunk(table domain.Table) (domain.ChunkSet, error) {
	if err := c.opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkTable(table); err != nil {
		return nil, err
	}

	groups := columnGroups(table.Headers, c.opts.ColumnsPerChunk)
	chunks := make([]domain.Chunk, 0, len(groups))
	for i, group := range groups {
		var r renderer
		r.header("Columns", group)
		for rowIndex, record := range table.Records {
			r.row(rowIndex+1, group, record)
		}

		chunks = append(chunks, domain.Chunk{
			Content: r.String(),
			Metadata: domain.ChunkMetadata{
				ChunkIndex:  i,
				RowStart:    0,
				RowEnd:      table.RowCount() - 1,
				ColumnCount: len(group),
				Headers:     group,
			},
		})
	}

	return withTotal(chunks), nil
}

var _ domain.TabularChunker = (*ColumnChunker)(nil)
