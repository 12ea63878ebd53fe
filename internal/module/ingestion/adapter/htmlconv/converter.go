package htmlconv

import (
	"bytes"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
	"github.com/jinford/dev-ingest/internal/module/ingestion/adapter/detector"
	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

// removedSelectors は本文として扱わない要素
const removedSelectors = "script, style, noscript, iframe, svg"

// Converter はHTMLドキュメントをMarkdownに変換します
type Converter struct{}

var _ domain.Transformer = (*Converter)(nil)

// NewConverter は新しいConverterを作成します
func NewConverter() *Converter {
	return &Converter{}
}

// Transform はHTMLであれば本文をMarkdownに変換し、種別を KindMarkdown にします
func (c *Converter) Transform(doc *domain.Document) error {
	if doc.ContentType != detector.ContentTypeHTML {
		return nil
	}

	md, err := ToMarkdown(doc.Content)
	if err != nil {
		return fmt.Errorf("failed to convert %s to markdown: %w", doc.Path, err)
	}

	doc.Content = []byte(md)
	doc.Kind = chunking.KindMarkdown
	return nil
}

// ToMarkdown はスクリプトなどを除いたHTMLをMarkdownに変換します
func ToMarkdown(content []byte) (string, error) {
	page, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	page.Find(removedSelectors).Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	body := page.Find("body")
	if body.Length() == 0 {
		body = page.Selection
	}
	html, err := goquery.OuterHtml(body)
	if err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
