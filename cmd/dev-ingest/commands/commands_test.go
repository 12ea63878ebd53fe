package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
	ingestion "github.com/jinford/dev-ingest/internal/module/ingestion/domain"
	search "github.com/jinford/dev-ingest/internal/module/search/domain"
)

// runChunk は単一のアクションを持つコマンドを実行し、出力を返します
func runChunk(t *testing.T, action cli.ActionFunc, flags []cli.Flag, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cli.Command{
		Name:   "test",
		Writer: &out,
		Flags:  append(flags, &cli.StringFlag{Name: "env", Value: filepath.Join(t.TempDir(), "none.env")}),
		Action: action,
	}
	err := cmd.Run(context.Background(), append([]string{"test"}, args...))
	return out.String(), err
}

func chunkCSVFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "file"},
		&cli.StringFlag{Name: "strategy"},
		&cli.IntFlag{Name: "rows"},
		&cli.IntFlag{Name: "overlap"},
		&cli.IntFlag{Name: "columns"},
		&cli.BoolFlag{Name: "no-headers"},
		&cli.StringFlag{Name: "format", Value: "json"},
	}
}

func TestChunkCSVAction(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("region,amount\nnorth,100\nsouth,200\neast,300\n"), 0o644))

	// Execute
	out, err := runChunk(t, ChunkCSVAction, chunkCSVFlags(), "--file", path, "--rows", "2", "--overlap", "0")

	// Assert
	require.NoError(t, err)
	var chunks chunking.ChunkSet
	require.NoError(t, json.Unmarshal([]byte(out), &chunks))
	require.Len(t, chunks, 2)
	assert.Equal(t, 2, chunks[0].Metadata.TotalChunks)
	assert.Equal(t, []string{"region", "amount"}, chunks[0].Metadata.Headers)
}

func TestChunkCSVAction_TSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.tsv")
	require.NoError(t, os.WriteFile(path, []byte("region\tamount\nnorth\t100\n"), 0o644))

	out, err := runChunk(t, ChunkCSVAction, chunkCSVFlags(), "--file", path)

	require.NoError(t, err)
	var chunks chunking.ChunkSet
	require.NoError(t, json.Unmarshal([]byte(out), &chunks))
	require.Len(t, chunks, 1)
	assert.Equal(t, 2, chunks[0].Metadata.ColumnCount)
}

func TestChunkCSVAction_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("a,b\n"), 0o644))

	_, err := runChunk(t, ChunkCSVAction, chunkCSVFlags(), "--file", empty)
	assert.ErrorIs(t, err, chunking.ErrEmptyDocument)

	_, err = runChunk(t, ChunkCSVAction, chunkCSVFlags(), "--file", empty, "--strategy", "diagonal")
	assert.ErrorIs(t, err, chunking.ErrInvalidConfiguration)

	_, err = runChunk(t, ChunkCSVAction, chunkCSVFlags(), "--file", filepath.Join(dir, "missing.csv"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestChunkTextAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("One. Two. Three."), 0o644))
	flags := []cli.Flag{
		&cli.StringFlag{Name: "file"},
		&cli.IntFlag{Name: "size"},
		&cli.IntFlag{Name: "overlap"},
		&cli.StringFlag{Name: "format", Value: "jsonl"},
	}

	out, err := runChunk(t, ChunkTextAction, flags, "--file", path, "--size", "5", "--overlap", "0")

	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	assert.Len(t, lines, 3)
}

func TestCheckPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(file, []byte("a\n1\n"), 0o644))

	assert.NoError(t, checkPath(dir, true))
	assert.NoError(t, checkPath(file, false))
	assert.Error(t, checkPath(dir, false))
	assert.Error(t, checkPath(file, true))
	assert.Error(t, checkPath(filepath.Join(dir, "missing"), false))
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	report := ingestion.NewReport([]ingestion.DocumentResult{
		{Name: "a.csv", Chunks: 3, Tokens: 120},
		{Name: "b.png", Err: ingestion.ErrUnsupportedDocument},
	})

	renderReport(&buf, report)

	assert.Contains(t, buf.String(), "a.csv")
	assert.Contains(t, buf.String(), "unsupported document type")
	assert.Contains(t, buf.String(), "成功 1件 / 失敗 1件 / チャンク 3件")
}

func TestRenderSearchResult_Empty(t *testing.T) {
	var buf bytes.Buffer

	renderSearchResult(&buf, &search.SearchResult{})

	assert.Equal(t, "該当するチャンクはありません\n", buf.String())
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "a b", truncateString("a\n b", 10))
	assert.Equal(t, "abcd...", truncateString("abcdefghij", 7))
}
