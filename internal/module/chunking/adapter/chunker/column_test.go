package chunker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/dev-ingest/internal/module/chunking/adapter/chunker"
	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
	chunkingtesting "github.com/jinford/dev-ingest/internal/module/chunking/testing"
)

func TestColumnChunker_Groups(t *testing.T) {
	// Setup
	table := chunkingtesting.NewTable(4, 12)

	// Execute
	chunks, err := chunker.NewColumnChunker(domain.ColumnOptions{ColumnsPerChunk: 5}).Chunk(table)

	// Assert
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	wantSizes := []int{5, 5, 2}
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Metadata.ChunkIndex)
		assert.Equal(t, 3, chunk.Metadata.TotalChunks)
		assert.Equal(t, wantSizes[i], chunk.Metadata.ColumnCount)
		assert.Len(t, chunk.Metadata.Headers, wantSizes[i])
		assert.Equal(t, 0, chunk.Metadata.RowStart)
		assert.Equal(t, 3, chunk.Metadata.RowEnd)
	}
	assert.Equal(t, []string{"col11", "col12"}, chunks[2].Metadata.Headers)
}

func TestColumnChunker_Content(t *testing.T) {
	table := chunkingtesting.NewTable(2, 3)

	chunks, err := chunker.NewColumnChunker(domain.ColumnOptions{ColumnsPerChunk: 2}).Chunk(table)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "Columns: col1, col2\n---\nRow 1: col1: r1c1, col2: r1c2\nRow 2: col1: r2c1, col2: r2c2", chunks[0].Content)
	assert.Equal(t, "Columns: col3\n---\nRow 1: col3: r1c3\nRow 2: col3: r2c3", chunks[1].Content)
}

func TestColumnChunker_SkipsRowsEmptyInGroup(t *testing.T) {
	table := domain.Table{
		Headers: []string{"a", "b"},
		Records: []domain.Record{
			{"a": domain.StringValue("x"), "b": domain.NullValue()},
			{"a": domain.NullValue(), "b": domain.StringValue("y")},
		},
	}

	chunks, err := chunker.NewColumnChunker(domain.ColumnOptions{ColumnsPerChunk: 1}).Chunk(table)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// 行番号はドキュメント全体での位置を保持する
	assert.Equal(t, "Columns: a\n---\nRow 1: a: x", chunks[0].Content)
	assert.Equal(t, "Columns: b\n---\nRow 2: b: y", chunks[1].Content)
}

func TestColumnChunker_InvalidConfiguration(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := chunker.NewColumnChunker(domain.ColumnOptions{ColumnsPerChunk: n}).Chunk(chunkingtesting.NewTable(2, 2))
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	}
}

func TestColumnChunker_GroupLargerThanHeaders(t *testing.T) {
	chunks, err := chunker.NewColumnChunker(domain.DefaultColumnOptions()).Chunk(chunkingtesting.NewTable(1, 2))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 2, chunks[0].Metadata.ColumnCount)
	assert.Equal(t, 1, chunks[0].Metadata.TotalChunks)
}
