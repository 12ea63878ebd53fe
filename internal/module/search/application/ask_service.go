package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	llm "github.com/jinford/dev-ingest/internal/module/llm/domain"
	"github.com/jinford/dev-ingest/internal/module/search/domain"
)

// AskParams は質問応答のパラメータ
type AskParams struct {
	Messages   []llm.Message
	NumResults int
}

// AskResult は質問応答の結果
type AskResult struct {
	Answer      string
	SearchQuery string
	Sources     []domain.Hit
}

// AskService は検索結果をコンテキストとして質問に回答します
type AskService struct {
	llm       llm.Client
	retriever domain.Retriever
	log       *slog.Logger
}

// AskServiceOption は AskService のオプション
type AskServiceOption func(*AskService)

// WithAskLogger は AskService にロガーを設定します
func WithAskLogger(logger *slog.Logger) AskServiceOption {
	return func(s *AskService) {
		s.log = logger
	}
}

// NewAskService は新しいAskServiceを作成します
func NewAskService(client llm.Client, retriever domain.Retriever, opts ...AskServiceOption) *AskService {
	svc := &AskService{
		llm:       client,
		retriever: retriever,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.log == nil {
		svc.log = slog.Default()
	}
	return svc
}

// Ask は会話の最後のユーザーメッセージに回答します
// 検索に失敗した場合はコンテキストなしで回答を生成します
func (s *AskService) Ask(ctx context.Context, params AskParams) (*AskResult, error) {
	message := lastUserMessage(params.Messages)
	if message == "" {
		return nil, domain.ErrQueryRequired
	}

	query := s.searchQuery(ctx, message)

	s.log.Info("executing search", "query", query, "numResults", params.NumResults)

	var hits []domain.Hit
	result, err := s.retriever.Retrieve(ctx, domain.SearchParams{
		Query:      query,
		NumResults: params.NumResults,
		Rerank:     true,
	}.WithDefaults(domain.DefaultNumResults))
	if err != nil {
		s.log.Warn("search failed, answering without context", "error", err)
	} else {
		hits = result.Hits
	}

	s.log.Info("generating answer with LLM", "sources", len(hits))
	resp, err := s.llm.GenerateCompletion(ctx, llm.CompletionRequest{
		System:   BuildAskSystemPrompt(BuildContext(hits)),
		Messages: params.Messages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	s.log.Info("ask completed successfully",
		"answerLength", len(resp.Content),
		"sources", len(hits),
	)

	return &AskResult{
		Answer:      resp.Content,
		SearchQuery: query,
		Sources:     hits,
	}, nil
}

// searchQuery はLLMで検索クエリを生成します。失敗時や空の場合は元のメッセージを使います
func (s *AskService) searchQuery(ctx context.Context, message string) string {
	resp, err := s.llm.GenerateCompletion(ctx, llm.CompletionRequest{
		Prompt: BuildSearchQueryPrompt(message),
	})
	if err != nil {
		s.log.Warn("failed to generate search query", "error", err)
		return message
	}

	query := strings.Trim(strings.TrimSpace(resp.Content), "\"")
	if query == "" {
		return message
	}
	return query
}

func lastUserMessage(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}
