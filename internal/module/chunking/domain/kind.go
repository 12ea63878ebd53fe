package domain

import "fmt"

// DocumentKind はチャンク化の経路を決めるドキュメント種別です
type DocumentKind string

const (
	KindCSV      DocumentKind = "csv"
	KindTSV      DocumentKind = "tsv"
	KindText     DocumentKind = "text"
	KindMarkdown DocumentKind = "markdown"
)

// IsTabular は表形式として解析する種別かを返します
func (k DocumentKind) IsTabular() bool {
	return k == KindCSV || k == KindTSV
}

// Delimiter は表形式種別の区切り文字を返します
func (k DocumentKind) Delimiter() rune {
	if k == KindTSV {
		return '\t'
	}
	return ','
}

// ParseDocumentKind は文字列を DocumentKind に変換します
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch k := DocumentKind(s); k {
	case KindCSV, KindTSV, KindText, KindMarkdown:
		return k, nil
	case "txt":
		return KindText, nil
	case "md":
		return KindMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown document kind %q", ErrInvalidConfiguration, s)
	}
}
