package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// Format はチャンク列の出力形式
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatText  Format = "text"
)

// ErrUnknownFormat は未対応の出力形式が指定された場合のエラー
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat は文字列を Format に変換します
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatJSONL, FormatYAML, FormatText:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

// Write はチャンク列を指定形式で書き出します
func Write(w io.Writer, format Format, chunks domain.ChunkSet) error {
	if chunks == nil {
		chunks = domain.ChunkSet{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(chunks); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case FormatJSONL:
		enc := json.NewEncoder(w)
		for _, c := range chunks {
			if err := enc.Encode(c); err != nil {
				return fmt.Errorf("failed to encode jsonl: %w", err)
			}
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(chunks); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
	case FormatText:
		for _, c := range chunks {
			if _, err := fmt.Fprintf(w, "=== chunk %d/%d (rows %d-%d) ===\n%s\n\n",
				c.Metadata.ChunkIndex+1, c.Metadata.TotalChunks, c.Metadata.RowStart, c.Metadata.RowEnd, c.Content); err != nil {
				return fmt.Errorf("failed to write text: %w", err)
			}
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return nil
}
