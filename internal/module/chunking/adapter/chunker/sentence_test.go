package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/dev-ingest/internal/module/chunking/adapter/chunker"
	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

func TestSentenceChunker_Split(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts domain.TextOptions
		want []string
	}{
		{
			name: "fits in one chunk",
			text: "A. B. C.",
			opts: domain.TextOptions{ChunkSize: 100, Overlap: 200},
			want: []string{"A. B. C."},
		},
		{
			name: "empty text",
			text: "",
			opts: domain.DefaultTextOptions(),
			want: []string{},
		},
		{
			name: "whitespace only",
			text: " \r\n\t ",
			opts: domain.DefaultTextOptions(),
			want: []string{},
		},
		{
			name: "single character",
			text: "x",
			opts: domain.DefaultTextOptions(),
			want: []string{"x"},
		},
		{
			name: "terminator only",
			text: ".",
			opts: domain.DefaultTextOptions(),
			want: []string{"."},
		},
		{
			name: "no punctuation",
			text: "  just some words  ",
			opts: domain.DefaultTextOptions(),
			want: []string{"just some words"},
		},
		{
			name: "line endings normalized",
			text: "Hello world.\r\nNext line!\rLast?",
			opts: domain.DefaultTextOptions(),
			want: []string{"Hello world. Next line! Last?"},
		},
		{
			name: "trailing fragment kept",
			text: "First. trailing words",
			opts: domain.DefaultTextOptions(),
			want: []string{"First. trailing words"},
		},
		{
			name: "word overlap carried forward",
			text: "One two three. Four five six. Seven eight nine.",
			opts: domain.TextOptions{ChunkSize: 20, Overlap: 10},
			want: []string{"One two three.", "two three. Four five six.", "five six. Seven eight nine."},
		},
		{
			name: "no overlap when overlap words is zero",
			text: "One two three. Four five six. Seven eight nine.",
			opts: domain.TextOptions{ChunkSize: 20, Overlap: 4},
			want: []string{"One two three.", "Four five six.", "Seven eight nine."},
		},
		{
			name: "sentence longer than chunk size",
			text: "This single sentence is longer than the budget.",
			opts: domain.TextOptions{ChunkSize: 5, Overlap: 0},
			want: []string{"This single sentence is longer than the budget."},
		},
		{
			name: "size counted in characters",
			text: "ééé. ààà.",
			opts: domain.TextOptions{ChunkSize: 8, Overlap: 0},
			want: []string{"ééé. ààà."},
		},
		{
			name: "repeated terminators",
			text: "Really?! Yes...",
			opts: domain.DefaultTextOptions(),
			want: []string{"Really?! Yes..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chunker.NewSentenceChunker(tt.opts).Split(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSentenceChunker_InvalidConfiguration(t *testing.T) {
	for _, opts := range []domain.TextOptions{{ChunkSize: 0}, {ChunkSize: -1}, {ChunkSize: 10, Overlap: -1}} {
		_, err := chunker.NewSentenceChunker(opts).Split("A.")
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	}
}

func TestSentenceChunker_PreservesOrder(t *testing.T) {
	// Setup
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("Sentence number ")
		sb.WriteString(strings.Repeat("x", i%7+1))
		sb.WriteString(". ")
	}
	text := sb.String()
	sentences := chunker.Sentences(chunker.Normalize(text))

	// Execute: 重複語なしで分割する
	chunks, err := chunker.NewSentenceChunker(domain.TextOptions{ChunkSize: 120, Overlap: 0}).Split(text)

	// Assert
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, strings.Join(sentences, " "), strings.Join(chunks, " "))
}

func TestSentences(t *testing.T) {
	assert.Nil(t, chunker.Sentences(""))
	assert.Equal(t, []string{"a.", "b!", "c?"}, chunker.Sentences("a. b! c?"))
	assert.Equal(t, []string{"no terminator"}, chunker.Sentences("no terminator"))
	assert.Equal(t, []string{"a.", "tail"}, chunker.Sentences("a. tail"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\nb\nc", chunker.Normalize("  a\r\nb\rc \n"))
}
