package tabular

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// decode はBOMに従ってUTF-8/UTF-16をUTF-8へ変換します
// BOMがない場合はUTF-8として検証し、不正なバイト列は ErrMalformedDocument とします
func decode(raw []byte) ([]byte, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), raw)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode input: %v", domain.ErrMalformedDocument, err)
	}
	if !utf8.Valid(decoded) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", domain.ErrMalformedDocument)
	}
	return decoded, nil
}
