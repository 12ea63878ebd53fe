package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// SentenceChunker は文を文字数上限まで詰めてテキストを分割します
// 新しいチャンクは直前のチャンク末尾の Overlap/5 語から始まります
type SentenceChunker struct {
	opts domain.TextOptions
}

// NewSentenceChunker は新しいSentenceChunkerを作成します
func NewSentenceChunker(opts domain.TextOptions) *SentenceChunker {
	return &SentenceChunker{opts: opts}
}

// Split はテキストをチャンクに分割します
// 空（空白のみを含む）テキストは空スライスを返します
func (c *SentenceChunker) Split(text string) ([]string, error) {
	if err := c.opts.Validate(); err != nil {
		return nil, err
	}

	sentences := Sentences(Normalize(text))
	chunks := make([]string, 0)
	if len(sentences) == 0 {
		return chunks, nil
	}

	overlapWords := c.opts.OverlapWords()
	current := ""
	for _, sentence := range sentences {
		if utf8.RuneCountInString(current)+utf8.RuneCountInString(sentence) > c.opts.ChunkSize && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))

			tail := lastWords(current, overlapWords)
			if tail == "" {
				current = sentence
			} else {
				current = tail + " " + sentence
			}
			continue
		}

		if current == "" {
			current = sentence
		} else {
			current += " " + sentence
		}
	}

	if last := strings.TrimSpace(current); last != "" {
		chunks = append(chunks, last)
	}

	return chunks, nil
}

// lastWords は空白区切りで末尾 n 語を返します。n が0の場合は空文字列です
func lastWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Split(s, " ")
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}

var _ domain.TextChunker = (*SentenceChunker)(nil)
