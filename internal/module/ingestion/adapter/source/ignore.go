package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileNames はルートから読み込む除外パターンファイル
var IgnoreFileNames = []string{".gitignore", ".ingestignore"}

// IgnoreFilter は .gitignore と .ingestignore のパターンマッチングを提供します
type IgnoreFilter struct {
	patterns *gitignore.GitIgnore
}

// NewIgnoreFilter は root 配下の除外パターンファイルとデフォルトパターンからIgnoreFilterを作成します
func NewIgnoreFilter(root string, extra ...string) (*IgnoreFilter, error) {
	var patterns []string
	for _, name := range IgnoreFileNames {
		lines, err := readIgnoreFile(filepath.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		patterns = append(patterns, lines...)
	}
	patterns = append(patterns, extra...)
	patterns = append(patterns, defaultIgnorePatterns...)

	return &IgnoreFilter{patterns: gitignore.CompileIgnoreLines(patterns...)}, nil
}

// ShouldIgnore はスラッシュ区切りの相対パスが除外対象かどうかを判定します
func (f *IgnoreFilter) ShouldIgnore(path string) bool {
	if f == nil || f.patterns == nil {
		return false
	}
	return f.patterns.MatchesPath(path)
}

// readIgnoreFile は空行とコメント行を除いたパターンを返します。ファイルがなければ空です
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

var defaultIgnorePatterns = []string{
	// Git関連
	".git",
	".gitignore",
	".gitattributes",
	".ingestignore",

	// 依存関係・ビルド成果物
	"node_modules",
	"vendor",
	"dist",
	"build",
	"target",

	// IDE/エディタ関連
	".vscode",
	".idea",
	".DS_Store",
	"*.swp",
	"*~",

	// 環境変数・機密情報
	".env",
	".env.*",
	"*.pem",
	"*.key",
	"*.p12",

	// アーカイブ・バイナリ
	"*.exe",
	"*.so",
	"*.dylib",
	"*.zip",
	"*.tar",
	"*.gz",
	"*.7z",

	// 画像・メディア
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.ico",
	"*.mp4",
	"*.mp3",

	// データベースファイル
	"*.db",
	"*.sqlite",
	"*.sqlite3",
}
