package detector

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

// ContentTypeHTML はHTMLのMIMEタイプ
// HTMLはMarkdownに変換してから取り込むため、種別は KindMarkdown になります
const ContentTypeHTML = "text/html"

// documentDetector はファイルのドキュメント種別とMIMEタイプを判定します
type documentDetector struct{}

var _ domain.Detector = (*documentDetector)(nil)

// NewDetector は新しいDetectorを作成します
func NewDetector() domain.Detector {
	return &documentDetector{}
}

// Detect はファイルパスと内容から種別を判定します
// 表形式とテキスト以外（ソースコードやバイナリなど）は ErrUnsupportedDocument になります
func (d *documentDetector) Detect(path string, content []byte) (chunking.DocumentKind, string, error) {
	filename := filepath.Base(path)

	// 拡張子が明示されているものは内容より優先
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return chunking.KindCSV, "text/csv", nil
	case ".tsv", ".tab":
		return chunking.KindTSV, "text/tab-separated-values", nil
	case ".md", ".markdown":
		return chunking.KindMarkdown, "text/markdown", nil
	case ".txt", ".text":
		return chunking.KindText, "text/plain", nil
	case ".html", ".htm":
		return chunking.KindMarkdown, ContentTypeHTML, nil
	}

	if enry.IsBinary(content) {
		return "", "", fmt.Errorf("%w: %s is binary", domain.ErrUnsupportedDocument, filename)
	}

	// go-enryで言語を判定（ファイル名と内容の両方を使用）
	language := enry.GetLanguage(filename, content)
	switch language {
	case "CSV":
		return chunking.KindCSV, "text/csv", nil
	case "TSV":
		return chunking.KindTSV, "text/tab-separated-values", nil
	case "Markdown":
		return chunking.KindMarkdown, "text/markdown", nil
	case "HTML":
		return chunking.KindMarkdown, ContentTypeHTML, nil
	case "Text", "":
	default:
		return "", "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedDocument, filename, language)
	}

	// 言語が判定できない場合は内容から判定
	contentType := "text/plain"
	if len(content) > 0 {
		contentType = http.DetectContentType(content)
		if idx := strings.Index(contentType, ";"); idx != -1 {
			contentType = contentType[:idx]
		}
	}
	if contentType == ContentTypeHTML {
		return chunking.KindMarkdown, contentType, nil
	}
	if contentType != "text/plain" {
		return "", "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedDocument, filename, contentType)
	}
	return chunking.KindText, contentType, nil
}
