package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cooking-assistant/internal/core/ai/cache"
	"cooking-assistant/internal/core/ai/provider"
	"cooking-assistant/internal/core/assistant"
	"cooking-assistant/internal/infrastructure/config"
	"cooking-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// 固定的提示與回應文字
const (
	SystemPersona = "You are a helpful and friendly voice-controlled cooking assistant. " +
		"Provide concise, helpful answers. Keep cooking safety in mind. " +
		"If the user asks about a step or ingredient, refer to the current recipe details provided. " +
		"Do not invent recipe steps or ingredients."
	NoRecipeContext = "No specific recipe is currently loaded. " +
		"You can ask general cooking questions or ask to 'load recipe [name]'."
	TextTrouble = "I'm sorry, I'm having trouble thinking right now. Please try again or rephrase your question."
)

// Options 生成參數
type Options struct {
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
}

// Service 生成式備援，無法理解的指令交給語言模型回答
type Service struct {
	completer provider.Completer
	cache     cache.Cache
	opts      Options
}

// NewService 創建備援服務，completer 為 nil 時整個生命週期都是離線模式
func NewService(completer provider.Completer, c cache.Cache, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 150
	}

	if completer == nil {
		common.LogWarn("AI 提供者未設定金鑰，備援回答停用")
	} else {
		common.LogInfo("AI 備援已啟用",
			zap.String("provider", completer.Name()),
			zap.String("model", completer.GetModel()),
		)
	}

	return &Service{completer: completer, cache: c, opts: opts}
}

// NewFromConfig 依設定建立提供者與備援服務
func NewFromConfig(cfg *config.Config, c cache.Cache) *Service {
	return NewService(NewCompleter(cfg), c, Options{
		Timeout:     cfg.AI.Timeout,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	})
}

// Offline 是否為離線模式
func (s *Service) Offline() bool {
	return s.completer == nil
}

// Ask 回答指令，永遠回傳文字
func (s *Service) Ask(ctx context.Context, command string, recipe *common.Recipe, stepIndex int) string {
	if s.completer == nil {
		return assistant.TextOffline
	}

	messages := BuildMessages(command, recipe, stepIndex)
	key := cache.Key(s.completer.GetModel(), messages)

	if s.cache != nil {
		if answer, ok := s.cache.Get(ctx, key); ok {
			common.LogCacheHit("fallback")
			return answer
		}
		common.LogCacheMiss("fallback")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.completer.Complete(ctx, &provider.Request{
		Messages:    messages,
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	})
	if err == nil && strings.TrimSpace(resp.Content) == "" {
		err = provider.ErrEmptyCompletion
	}
	common.LogAICall(s.completer.Name(), time.Since(start), err)
	if err != nil {
		return TextTrouble
	}

	answer := strings.TrimSpace(resp.Content)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, answer); err != nil {
			common.LogWarn("寫入快取失敗", zap.Error(err))
		}
	}

	return answer
}

// BuildMessages 組合系統提示、食譜上下文與使用者指令
func BuildMessages(command string, recipe *common.Recipe, stepIndex int) []provider.Message {
	return []provider.Message{
		{Role: provider.RoleSystem, Content: SystemPersona},
		{Role: provider.RoleSystem, Content: RecipeContext(recipe, stepIndex)},
		{Role: provider.RoleUser, Content: command},
	}
}

// RecipeContext 描述目前的食譜與步驟
func RecipeContext(recipe *common.Recipe, stepIndex int) string {
	if recipe == nil {
		return NoRecipeContext
	}

	var sb strings.Builder
	sb.WriteString("Here's the context about the recipe you are working on:\n")
	fmt.Fprintf(&sb, "Current Recipe: %s.\n", recipe.Name)
	if len(recipe.Ingredients) > 0 {
		sb.WriteString("Ingredients:\n")
		sb.WriteString(common.FormatIngredientList(recipe.Ingredients))
		sb.WriteString("\n")
	}
	if stepIndex >= 0 && stepIndex < len(recipe.Instructions) {
		fmt.Fprintf(&sb, "Current Step (%d of %d): %s\n",
			stepIndex+1, len(recipe.Instructions), recipe.Instructions[stepIndex])
	}
	return sb.String()
}
