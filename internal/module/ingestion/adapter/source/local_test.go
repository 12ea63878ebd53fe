package source_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/dev-ingest/internal/module/ingestion/adapter/source"
	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func paths(files []domain.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	sort.Strings(out)
	return out
}

func TestLocalSource_Files_Directory(t *testing.T) {
	// Setup
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"sales.csv":                 "a,b\n1,2\n",
		"docs/guide.md":             "# Guide",
		"docs/draft/notes.txt":      "draft",
		"node_modules/pkg/data.csv": "x\n1\n",
		"secret.env.csv":            "k\nv\n",
		".env":                      "KEY=value",
		"logo.png":                  "png",
		".gitignore":                "*.env.csv\n",
		".ingestignore":             "# 下書きは除外\ndocs/draft/\n",
	})

	src := source.NewLocalSource(root, source.WithLocalLogger(newTestLogger()))

	// Execute
	files, err := src.Files(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/guide.md", "sales.csv"}, paths(files))
	for _, f := range files {
		assert.Contains(t, f.SourceURI, "file://")
	}
}

func TestLocalSource_Files_SingleFile(t *testing.T) {
	// Setup
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"data/sales.csv": "a,b\n1,2\n"})
	src := source.NewLocalSource(filepath.Join(root, "data", "sales.csv"))

	// Execute
	files, err := src.Files(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "sales.csv", files[0].Path)
	assert.Equal(t, "a,b\n1,2\n", string(files[0].Content))
}

func TestLocalSource_Files_Options(t *testing.T) {
	// Setup
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"small.csv":  "a\n1\n",
		"large.csv":  "a\n1234567890\n",
		"skip/x.csv": "a\n1\n",
	})
	src := source.NewLocalSource(root,
		source.WithMaxFileSize(8),
		source.WithIgnorePatterns("skip/"),
		source.WithSourceURI("s3://bucket/prefix"),
		source.WithLocalLogger(newTestLogger()),
	)

	// Execute
	files, err := src.Files(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "small.csv", files[0].Path)
	assert.Equal(t, "s3://bucket/prefix", files[0].SourceURI)
}

func TestLocalSource_Files_NotFound(t *testing.T) {
	src := source.NewLocalSource(filepath.Join(t.TempDir(), "missing"))

	_, err := src.Files(context.Background())

	assert.Error(t, err)
}

func TestIgnoreFilter_ShouldIgnore(t *testing.T) {
	// Setup
	root := t.TempDir()
	writeFiles(t, root, map[string]string{".ingestignore": "reports/*.tsv\n!reports/keep.tsv\n"})
	filter, err := source.NewIgnoreFilter(root)
	require.NoError(t, err)

	tests := []struct {
		path   string
		ignore bool
	}{
		{path: "reports/q1.tsv", ignore: true},
		{path: "reports/keep.tsv", ignore: false},
		{path: "reports/q1.csv", ignore: false},
		{path: "vendor/lib/data.csv", ignore: true},
		{path: ".git/config", ignore: true},
		{path: "data/photo.JPG", ignore: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.ignore, filter.ShouldIgnore(tt.path))
		})
	}
}
