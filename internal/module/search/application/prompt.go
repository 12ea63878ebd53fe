package application

import (
	"fmt"
	"strings"

	"github.com/jinford/dev-ingest/internal/module/search/domain"
)

// noContextText はコンテキストが得られなかった場合の本文
const noContextText = "No relevant documents found."

// BuildSearchQueryPrompt はユーザーメッセージから検索クエリを生成するためのプロンプトを構築します
func BuildSearchQueryPrompt(message string) string {
	var sb strings.Builder

	sb.WriteString("Given the user's message, generate a concise search query to find relevant documents in a vector database.\n")
	sb.WriteString("The documents are mostly rows of tabular data, so prefer literal keywords such as numbers, dates, names and codes (e.g. \"2022\").\n")
	sb.WriteString("Output ONLY the query, nothing else.\n\n")
	sb.WriteString(fmt.Sprintf("User Message: %q\n", message))

	return sb.String()
}

// BuildContext は検索ヒットを [Source: 名前] 付きのブロックに整形して連結します
func BuildContext(hits []domain.Hit) string {
	if len(hits) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(hits))
	for i, hit := range hits {
		name := hit.DocumentName
		if name == "" {
			name = fmt.Sprintf("Document %d", i+1)
		}
		blocks = append(blocks, fmt.Sprintf("[Source: %s]\n%s", name, hit.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// BuildAskSystemPrompt は回答生成用のシステムプロンプトを構築します
func BuildAskSystemPrompt(context string) string {
	if context == "" {
		context = noContextText
	}

	var sb strings.Builder

	sb.WriteString("You are a helpful AI assistant with access to a knowledge base.\n\n")

	sb.WriteString("Relevant Context from Knowledge Base:\n")
	sb.WriteString(context)
	sb.WriteString("\n\n")

	sb.WriteString("Instructions:\n")
	sb.WriteString("1. Use the provided context to answer the user's question.\n")
	sb.WriteString("2. If the answer is found in the context, cite the source (e.g., \"[Source: filename]\").\n")
	sb.WriteString("3. If the answer is NOT in the context, use your general knowledge but mention that the info didn't come from the knowledge base.\n")
	sb.WriteString("4. Be concise and helpful.\n")
	sb.WriteString("5. If the user asks for a total number, compute it from the data in the context.\n")

	return sb.String()
}
