package rerank

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"

	"github.com/jinford/dev-ingest/internal/module/search/domain"
)

// DefaultKeywordWeight はキーワード一致スコアの重み
const DefaultKeywordWeight = 0.3

// KeywordReranker はベクトル類似度にステミング済みキーワードの一致率を加味して並べ替えます
type KeywordReranker struct {
	weight   float64
	language string
}

var _ domain.Reranker = (*KeywordReranker)(nil)

// NewKeywordReranker は新しいKeywordRerankerを作成します
// weight は0から1の範囲で、範囲外は DefaultKeywordWeight になります
func NewKeywordReranker(weight float64) *KeywordReranker {
	if weight < 0 || weight > 1 {
		weight = DefaultKeywordWeight
	}
	return &KeywordReranker{weight: weight, language: "english"}
}

// Rerank はスコアを (1-weight)*ベクトルスコア + weight*一致率 に置き換えて降順に並べます
// 同点の場合は元の順序を保ちます
func (r *KeywordReranker) Rerank(query string, hits []domain.Hit) []domain.Hit {
	terms := r.terms(query)
	if len(terms) == 0 || len(hits) == 0 {
		return hits
	}

	out := make([]domain.Hit, len(hits))
	copy(out, hits)
	for i := range out {
		content := r.terms(out[i].Content)
		matched := 0
		for t := range terms {
			if _, ok := content[t]; ok {
				matched++
			}
		}
		overlap := float64(matched) / float64(len(terms))
		out[i].Score = (1-r.weight)*out[i].Score + r.weight*overlap
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// terms はテキストを単語に分割し、ステミングした集合を返します
func (r *KeywordReranker) terms(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[r.stem(w)] = struct{}{}
	}
	return set
}

func (r *KeywordReranker) stem(word string) string {
	stem, err := snowball.Stem(word, r.language, true)
	if err != nil || stem == "" {
		return word
	}
	return stem
}
