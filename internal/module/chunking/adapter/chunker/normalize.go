package chunker

import (
	"regexp"
	"strings"
)

// sentencePattern は終端記号（. ! ?）までを1文とみなす
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

var lineEndingReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize は改行コードを \n に揃え、前後の空白を除去します
func Normalize(text string) string {
	return strings.TrimSpace(lineEndingReplacer.Replace(text))
}

// Sentences は正規化済みテキストを文単位に分割します
// 終端記号が見つからない場合はテキスト全体を1文とし、
// 最後の終端記号以降に残った文字列も1文として扱います
func Sentences(text string) []string {
	if text == "" {
		return nil
	}

	locs := sentencePattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	sentences := make([]string, 0, len(locs)+1)
	for _, loc := range locs {
		if s := strings.TrimSpace(text[loc[0]:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
	}
	if tail := strings.TrimSpace(text[locs[len(locs)-1][1]:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
