package chunker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/dev-ingest/internal/module/chunking/adapter/chunker"
	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
	chunkingtesting "github.com/jinford/dev-ingest/internal/module/chunking/testing"
)

func TestRowChunker_Windows(t *testing.T) {
	// Setup
	table := chunkingtesting.NewTable(25, 3)
	c := chunker.NewRowChunker(domain.RowOptions{RowsPerChunk: 10, OverlapRows: 2, IncludeHeaders: true})

	// Execute
	chunks, err := c.Chunk(table)

	// Assert
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	wantRanges := [][2]int{{0, 9}, {8, 17}, {16, 24}}
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Metadata.ChunkIndex)
		assert.Equal(t, 3, chunk.Metadata.TotalChunks)
		assert.Equal(t, wantRanges[i][0], chunk.Metadata.RowStart)
		assert.Equal(t, wantRanges[i][1], chunk.Metadata.RowEnd)
		assert.Equal(t, 3, chunk.Metadata.ColumnCount)
		assert.Equal(t, []string{"col1", "col2", "col3"}, chunk.Metadata.Headers)
	}
}

func TestRowChunker_Content(t *testing.T) {
	table := chunkingtesting.NewTable(3, 2)

	t.Run("with headers", func(t *testing.T) {
		chunks, err := chunker.NewRowChunker(domain.RowOptions{RowsPerChunk: 2, OverlapRows: 1, IncludeHeaders: true}).Chunk(table)
		require.NoError(t, err)
		require.Len(t, chunks, 2)

		assert.Equal(t, "Data columns: col1, col2\n---\nRow 1: col1: r1c1, col2: r1c2\nRow 2: col1: r2c1, col2: r2c2", chunks[0].Content)
		assert.Equal(t, "Data columns: col1, col2\n---\nRow 1: col1: r2c1, col2: r2c2\nRow 2: col1: r3c1, col2: r3c2", chunks[1].Content)
	})

	t.Run("without headers", func(t *testing.T) {
		chunks, err := chunker.NewRowChunker(domain.RowOptions{RowsPerChunk: 5, OverlapRows: 0}).Chunk(table)
		require.NoError(t, err)
		require.Len(t, chunks, 1)

		assert.Equal(t, "Row 1: col1: r1c1, col2: r1c2\nRow 2: col1: r2c1, col2: r2c2\nRow 3: col1: r3c1, col2: r3c2", chunks[0].Content)
		assert.Equal(t, 0, chunks[0].Metadata.RowStart)
		assert.Equal(t, 2, chunks[0].Metadata.RowEnd)
	})
}

func TestRowChunker_OmitsEmptyValues(t *testing.T) {
	// Setup
	table := domain.Table{
		Headers: []string{"a", "b", "c"},
		Records: []domain.Record{
			{"a": domain.NumberValue(1), "b": domain.NullValue(), "c": domain.StringValue("")},
			{"a": domain.NullValue(), "b": domain.StringValue(""), "c": domain.NullValue()},
			{"a": domain.BoolValue(false), "c": domain.NumberValue(0)},
		},
	}

	// Execute
	chunks, err := chunker.NewRowChunker(domain.DefaultRowOptions()).Chunk(table)

	// Assert
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Data columns: a, b, c\n---\nRow 1: a: 1\nRow 3: a: false, c: 0", chunks[0].Content)
}

func TestRowChunker_InvalidConfiguration(t *testing.T) {
	table := chunkingtesting.NewTable(5, 2)

	tests := []struct {
		name string
		opts domain.RowOptions
	}{
		{name: "overlap equals rows", opts: domain.RowOptions{RowsPerChunk: 10, OverlapRows: 10}},
		{name: "overlap exceeds rows", opts: domain.RowOptions{RowsPerChunk: 3, OverlapRows: 4}},
		{name: "zero rows", opts: domain.RowOptions{RowsPerChunk: 0, OverlapRows: 0}},
		{name: "negative rows", opts: domain.RowOptions{RowsPerChunk: -1, OverlapRows: 0}},
		{name: "negative overlap", opts: domain.RowOptions{RowsPerChunk: 3, OverlapRows: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := chunker.NewRowChunker(tt.opts).Chunk(table)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
			assert.Empty(t, chunks)
		})
	}
}

func TestRowChunker_EmptyTable(t *testing.T) {
	_, err := chunker.NewRowChunker(domain.DefaultRowOptions()).Chunk(domain.Table{Headers: []string{"a"}})
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestRowChunker_ExactFit(t *testing.T) {
	// 20行・10行・重複2: 0-9, 8-17, 16-19 の3ウィンドウ（ceil(20/8)=3）
	chunks, err := chunker.NewRowChunker(domain.DefaultRowOptions()).Chunk(chunkingtesting.NewTable(20, 1))
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, 19, chunks[2].Metadata.RowEnd)

	// 10行ちょうど: 1ウィンドウで終了し、空の末尾チャンクを作らない
	chunks, err = chunker.NewRowChunker(domain.DefaultRowOptions()).Chunk(chunkingtesting.NewTable(10, 1))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].Metadata.TotalChunks)

	// 18行: 0-9, 8-17 の2ウィンドウ（事前計算式 ceil(18/8)=3 とは一致しない）
	chunks, err = chunker.NewRowChunker(domain.DefaultRowOptions()).Chunk(chunkingtesting.NewTable(18, 1))
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.Equal(t, 2, c.Metadata.TotalChunks)
	}
}
