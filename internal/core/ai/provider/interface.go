package provider

import (
	"context"
	"errors"
	"time"
)

// 對話角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyCompletion 模型沒有回傳內容
var ErrEmptyCompletion = errors.New("empty completion")

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示發送到 AI 提供者的請求
type Request struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature,omitempty"`
}

// Usage token 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response 表示從 AI 提供者收到的響應
type Response struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Completer 定義文字補全提供者介面，每次呼叫只送出一次請求
type Completer interface {
	// Complete 送出對話並取得單一回覆
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Name 提供者名稱，用於日誌
	Name() string

	// GetModel 獲取當前使用的模型名稱
	GetModel() string
}

// Config 定義 AI 提供者配置
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}
