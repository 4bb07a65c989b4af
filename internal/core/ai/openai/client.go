package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"cooking-assistant/internal/core/ai/provider"
)

// Client OpenAI 補全客戶端
type Client struct {
	client *goopenai.Client
	model  string
}

// NewClient 創建 OpenAI 客戶端，BaseURL 可指向相容的服務
func NewClient(cfg provider.Config) *Client {
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	model := cfg.Model
	if model == "" {
		model = goopenai.GPT3Dot5Turbo
	}

	return &Client{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Name 提供者名稱
func (c *Client) Name() string {
	return "openai"
}

// GetModel 模型名稱
func (c *Client) GetModel() string {
	return c.model
}

// Complete 呼叫 Chat Completions API
func (c *Client) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI: %w", provider.ErrEmptyCompletion)
	}

	return &provider.Response{
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:   resp.Model,
		Usage: provider.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
