package assistant

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"cooking-assistant/internal/pkg/common"
)

// TextOffline 未設定金鑰時的固定回應
const TextOffline = "My advanced AI brain is offline due to missing API key."

// Assistant 處理一次指令：判斷意圖、產生回應，必要時交給生成式備援
type Assistant struct {
	recipes    Recipes
	classifier *Classifier
	resolver   *Resolver
	fallback   Fallback
}

// New 創建助理
func New(recipes Recipes, classifier *Classifier, fallback Fallback) *Assistant {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Assistant{
		recipes:    recipes,
		classifier: classifier,
		resolver:   NewResolver(recipes),
		fallback:   fallback,
	}
}

// Handle 處理指令，永遠回傳非空的回應文字
func (a *Assistant) Handle(ctx context.Context, cmd Command) (resp Response) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			common.LogError("處理指令時發生 panic",
				zap.Any("panic", r),
				zap.String("command", cmd.Text),
			)
			resp = failureResponse()
		}
	}()

	session := a.session(ctx, cmd)

	cls, err := a.classifier.Classify(ctx, cmd.Text, session)
	if err != nil {
		common.LogError("意圖判斷失敗", zap.String("command", cmd.Text), zap.Error(err))
		return failureResponse()
	}

	if cls.Intent != IntentUnknown {
		resp = a.resolver.Resolve(ctx, cls, session)
		resp.Source = SourceNLU
	} else {
		resp = Response{
			Text:   a.ask(ctx, cmd.Text, session),
			Intent: IntentUnknown,
			Source: SourceLLM,
		}
	}

	if resp.Text == "" {
		resp.Text = TextGenericFailure
	}

	common.LogDebug("指令處理完成",
		zap.String("intent", cls.Intent.String()),
		zap.String("rule", cls.Rule),
		zap.String("action", string(resp.Action)),
		zap.String("source", resp.Source),
		zap.Duration("耗時", time.Since(start)),
	)

	return resp
}

// session 依 recipe id 載入食譜，找不到時視為未載入
func (a *Assistant) session(ctx context.Context, cmd Command) Session {
	session := Session{StepIndex: cmd.StepIndex}
	if cmd.RecipeID == nil || a.recipes == nil {
		return session
	}

	r, err := a.recipes.Get(ctx, *cmd.RecipeID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			common.LogWarn("載入食譜失敗", zap.Int64("recipe_id", *cmd.RecipeID), zap.Error(err))
		}
		return session
	}
	session.Recipe = r
	return session
}

func (a *Assistant) ask(ctx context.Context, command string, session Session) string {
	if a.fallback == nil {
		return TextOffline
	}
	return a.fallback.Ask(ctx, command, session.Recipe, session.StepIndex)
}

func failureResponse() Response {
	return Response{Text: TextGenericFailure, Intent: IntentUnknown, Source: SourceError}
}
