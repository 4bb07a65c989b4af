package service

import (
	"cooking-assistant/internal/core/ai/openai"
	"cooking-assistant/internal/core/ai/openrouter"
	"cooking-assistant/internal/core/ai/provider"
	"cooking-assistant/internal/infrastructure/config"
	"cooking-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// NewCompleter 依設定選擇提供者，缺少金鑰時回傳 nil
func NewCompleter(cfg *config.Config) provider.Completer {
	if !cfg.HasAICredentials() {
		return nil
	}

	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		common.LogDebug("使用 OpenAI", zap.String("key", common.MaskSecret(cfg.OpenAI.APIKey)))
		return openai.NewClient(provider.Config{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
			Timeout: cfg.AI.Timeout,
		})
	case config.ProviderOpenRouter:
		common.LogDebug("使用 OpenRouter", zap.String("key", common.MaskSecret(cfg.OpenRouter.APIKey)))
		return openrouter.NewClient(provider.Config{
			APIKey:  cfg.OpenRouter.APIKey,
			Model:   cfg.OpenRouter.Model,
			BaseURL: cfg.OpenRouter.BaseURL,
			Timeout: cfg.AI.Timeout,
		})
	default:
		return nil
	}
}
