package chunker

import (
	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// RowChunker は行ウィンドウ単位で Table を分割します
// 隣接するウィンドウは OverlapRows 行ずつ重複します
type RowChunker struct {
	opts domain.RowOptions
}

// NewRowChunker は新しいRowChunkerを作成します
func NewRowChunker(opts domain.RowOptions) *RowChunker {
	return &RowChunker{opts: opts}
}

// Chunk は Table を行ウィンドウごとのチャンクに分割します
func (c *RowChunker) Chunk(table domain.Table) (domain.ChunkSet, error) {
	if err := c.opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkTable(table); err != nil {
		return nil, err
	}

	total := table.RowCount()
	step := c.opts.Step()

	var chunks []domain.Chunk
	for start := 0; start < total; start += step {
		end := min(start+c.opts.RowsPerChunk, total)

		var r renderer
		if c.opts.IncludeHeaders {
			r.header("Data columns", table.Headers)
		}
		for i, record := range table.Records[start:end] {
			r.row(i+1, table.Headers, record)
		}

		chunks = append(chunks, domain.Chunk{
			Content: r.String(),
			Metadata: domain.ChunkMetadata{
				ChunkIndex:  len(chunks),
				RowStart:    start,
				RowEnd:      end - 1,
				ColumnCount: table.ColumnCount(),
				Headers:     cloneStrings(table.Headers),
			},
		})

		if end >= total {
			break
		}
	}

	return withTotal(chunks), nil
}

var _ domain.TabularChunker = (*RowChunker)(nil)
