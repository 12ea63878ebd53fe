package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jinford/dev-ingest/internal/module/chunking/adapter/export"
	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

func sampleChunks() domain.ChunkSet {
	return domain.ChunkSet{
		{Content: "Row 1: a: 1", Metadata: domain.ChunkMetadata{ChunkIndex: 0, TotalChunks: 2, RowStart: 0, RowEnd: 0, ColumnCount: 1, Headers: []string{"a"}}},
		{Content: "Row 1: a: 2", Metadata: domain.ChunkMetadata{ChunkIndex: 1, TotalChunks: 2, RowStart: 1, RowEnd: 1, ColumnCount: 1, Headers: []string{"a"}}},
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatJSON, sampleChunks()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	metadata := decoded[1]["metadata"].(map[string]any)
	assert.Equal(t, float64(1), metadata["chunkIndex"])
	assert.Equal(t, float64(2), metadata["totalChunks"])
}

func TestWrite_JSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatJSONL, sampleChunks()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"content":"Row 1: a: 1"`)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatYAML, sampleChunks()))

	var decoded domain.ChunkSet
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleChunks(), decoded)
}

func TestWrite_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, export.FormatYAML, f)

	_, err = export.ParseFormat("xml")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}
