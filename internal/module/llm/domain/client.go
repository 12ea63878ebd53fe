package domain

import "context"

// Role は会話メッセージの話者
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message は会話の1メッセージ
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest はテキスト生成リクエスト
type CompletionRequest struct {
	// System はシステムプロンプト（任意）
	System string
	// Messages は会話履歴（任意）
	Messages []Message
	// Prompt は末尾に追加するユーザーメッセージ（任意）
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// CompletionResponse はテキスト生成結果
type CompletionResponse struct {
	Content    string
	TokensUsed int
	Model      string
}

// Client はLLMとの通信インターフェース
type Client interface {
	GenerateCompletion(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}
