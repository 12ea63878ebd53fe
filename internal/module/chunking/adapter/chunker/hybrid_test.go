package chunker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/dev-ingest/internal/module/chunking/adapter/chunker"
	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
	chunkingtesting "github.com/jinford/dev-ingest/internal/module/chunking/testing"
)

func TestHybridChunker_Order(t *testing.T) {
	// Setup
	table := chunkingtesting.NewTable(25, 12)

	// Execute
	chunks, err := chunker.NewHybridChunker(domain.HybridOptions{RowsPerChunk: 10, ColumnsPerChunk: 5}).Chunk(table)

	// Assert: 列グループ3 × 行ウィンドウ3
	require.NoError(t, err)
	require.Len(t, chunks, 9)

	type window struct {
		firstHeader string
		rowStart    int
		rowEnd      int
	}
	want := []window{
		{"col1", 0, 9}, {"col1", 10, 19}, {"col1", 20, 24},
		{"col6", 0, 9}, {"col6", 10, 19}, {"col6", 20, 24},
		{"col11", 0, 9}, {"col11", 10, 19}, {"col11", 20, 24},
	}
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Metadata.ChunkIndex)
		assert.Equal(t, 9, chunk.Metadata.TotalChunks)
		assert.Equal(t, want[i].firstHeader, chunk.Metadata.Headers[0])
		assert.Equal(t, want[i].rowStart, chunk.Metadata.RowStart)
		assert.Equal(t, want[i].rowEnd, chunk.Metadata.RowEnd)
	}
}

func TestHybridChunker_Content(t *testing.T) {
	table := chunkingtesting.NewTable(3, 2)

	chunks, err := chunker.NewHybridChunker(domain.HybridOptions{RowsPerChunk: 2, ColumnsPerChunk: 1}).Chunk(table)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	assert.Equal(t, "Columns: col1\n---\nRow 1: col1: r1c1\nRow 2: col1: r2c1", chunks[0].Content)
	// 行番号はウィンドウ内ではなく全体の位置
	assert.Equal(t, "Columns: col1\n---\nRow 3: col1: r3c1", chunks[1].Content)
	assert.Equal(t, "Columns: col2\n---\nRow 1: col2: r1c2\nRow 2: col2: r2c2", chunks[2].Content)
	assert.Equal(t, "Columns: col2\n---\nRow 3: col2: r3c2", chunks[3].Content)
}

func TestHybridChunker_InvalidConfiguration(t *testing.T) {
	tests := []domain.HybridOptions{
		{RowsPerChunk: 0, ColumnsPerChunk: 1},
		{RowsPerChunk: 1, ColumnsPerChunk: 0},
		{RowsPerChunk: -2, ColumnsPerChunk: -2},
	}
	for _, opts := range tests {
		_, err := chunker.NewHybridChunker(opts).Chunk(chunkingtesting.NewTable(2, 2))
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	}
}
