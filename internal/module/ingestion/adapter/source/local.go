package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

// DefaultMaxFileSize は取り込むファイルサイズの上限（10MiB）
const DefaultMaxFileSize = 10 << 20

// LocalSource はローカルのファイルまたはディレクトリを取り込み対象とするSourceです
type LocalSource struct {
	path        string
	sourceURI   string
	maxFileSize int64
	extra       []string
	log         *slog.Logger
}

var _ domain.Source = (*LocalSource)(nil)

// LocalOption は LocalSource のオプション
type LocalOption func(*LocalSource)

// WithMaxFileSize はファイルサイズ上限を設定します
func WithMaxFileSize(n int64) LocalOption {
	return func(s *LocalSource) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// WithIgnorePatterns は追加の除外パターンを設定します
func WithIgnorePatterns(patterns ...string) LocalOption {
	return func(s *LocalSource) {
		s.extra = append(s.extra, patterns...)
	}
}

// WithSourceURI は取得元URIを上書きします
func WithSourceURI(uri string) LocalOption {
	return func(s *LocalSource) {
		s.sourceURI = uri
	}
}

// WithLocalLogger はロガーを設定します
func WithLocalLogger(logger *slog.Logger) LocalOption {
	return func(s *LocalSource) {
		s.log = logger
	}
}

// NewLocalSource は新しいLocalSourceを作成します
func NewLocalSource(path string, opts ...LocalOption) *LocalSource {
	s := &LocalSource{
		path:        path,
		maxFileSize: DefaultMaxFileSize,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Files はファイルならそのファイルを、ディレクトリなら除外パターンに従って配下のファイルを返します
func (s *LocalSource) Files(ctx context.Context) ([]domain.File, error) {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	uri := s.sourceURI
	if uri == "" {
		uri = "file://" + filepath.ToSlash(abs)
	}

	if !info.IsDir() {
		content, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return []domain.File{{Path: filepath.Base(abs), Content: content, SourceURI: uri}}, nil
	}

	filter, err := NewIgnoreFilter(abs, s.extra...)
	if err != nil {
		return nil, err
	}

	var files []domain.File
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == abs {
			return nil
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if filter.ShouldIgnore(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		if fi.Size() > s.maxFileSize {
			s.log.Warn("skipping large file", "path", rel, "size", fi.Size(), "limit", s.maxFileSize)
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}
		files = append(files, domain.File{Path: rel, Content: content, SourceURI: uri})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}
