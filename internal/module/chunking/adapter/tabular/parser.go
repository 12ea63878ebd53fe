package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// numberPattern は数値として推論するセルの形式
var numberPattern = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// maxSafeInteger を超える整数は精度を失うため文字列のまま保持する
const maxSafeInteger = 1<<53 - 1

// Parser は区切り文字テキストを解析する domain.TabularParser 実装
type Parser struct {
	delimiter rune
}

// Option は Parser のオプション
type Option func(*Parser)

// WithDelimiter は区切り文字を設定します（デフォルトはカンマ）
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		if d != 0 {
			p.delimiter = d
		}
	}
}

// NewParser は新しいParserを作成します
func NewParser(opts ...Option) *Parser {
	p := &Parser{delimiter: ','}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse は生データを Table に変換します
// 構造エラー（列数不一致、クォート不正、不正なエンコーディング）は ErrMalformedDocument、
// データ行が0件の場合は ErrEmptyDocument を返します
func (p *Parser) Parse(raw []byte) (domain.Table, error) {
	text, err := decode(raw)
	if err != nil {
		return domain.Table{}, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = p.delimiter
	reader.FieldsPerRecord = 0
	reader.ReuseRecord = false

	headerRow, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, fmt.Errorf("%w: header row is missing", domain.ErrEmptyDocument)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}
	headers := normalizeHeaders(headerRow)

	var records []domain.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
		}

		record := make(domain.Record, len(headers))
		for i, h := range headers {
			record[h] = inferValue(row[i])
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return domain.Table{}, domain.ErrEmptyDocument
	}

	return domain.Table{Headers: headers, Records: records}, nil
}

// normalizeHeaders はヘッダーをトリムし、重複した名前に連番サフィックスを付けます
// 例: [id, name, name] -> [id, name, name_1]
func normalizeHeaders(row []string) []string {
	headers := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, h := range row {
		name := strings.TrimSpace(h)
		if n, ok := seen[name]; ok {
			candidate := fmt.Sprintf("%s_%d", name, n)
			for {
				if _, taken := seen[candidate]; !taken {
					break
				}
				n++
				candidate = fmt.Sprintf("%s_%d", name, n)
			}
			seen[name] = n + 1
			seen[candidate] = 1
			name = candidate
		} else {
			seen[name] = 1
		}
		headers[i] = name
	}
	return headers
}

// inferValue はセル文字列から型を推論します
// 推論に失敗したセルは元の文字列のまま保持されます
func inferValue(cell string) domain.Value {
	if cell == "" {
		return domain.NullValue()
	}

	switch strings.ToLower(cell) {
	case "true":
		return domain.BoolValue(true)
	case "false":
		return domain.BoolValue(false)
	}

	if numberPattern.MatchString(cell) {
		n, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err == nil && !(math.Trunc(n) == n && math.Abs(n) > maxSafeInteger) {
			return domain.NumberValue(n)
		}
	}

	return domain.StringValue(cell)
}
