package command

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cooking-assistant/internal/api/handlers"
	"cooking-assistant/internal/core/assistant"
	"cooking-assistant/internal/pkg/common"
)

// Processor 處理單一指令
type Processor interface {
	Handle(ctx context.Context, cmd assistant.Command) assistant.Response
}

// Request 前端送出的指令
type Request struct {
	Command     string `json:"command"`
	CurrentStep *int   `json:"current_step"`
	RecipeID    *int64 `json:"recipe_id"`
}

// Response 回傳給前端的結果，action 沒有時為 null
type Response struct {
	Response string           `json:"response"`
	Action   *string          `json:"action"`
	RecipeID *int64           `json:"recipe_id,omitempty"`
	Category string           `json:"category,omitempty"`
	Intent   string           `json:"intent,omitempty"`
	Timer    *assistant.Timer `json:"timer,omitempty"`
	Source   string           `json:"source,omitempty"`
}

// Handler 指令處理器
type Handler struct {
	processor Processor
}

// NewHandler 創建指令處理器
func NewHandler(p Processor) *Handler {
	return &Handler{processor: p}
}

// ProcessCommand 解析指令並回傳助理的回應
func (h *Handler) ProcessCommand(c *gin.Context) {
	requestID := handlers.RequestID(c)

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("指令格式錯誤",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		handlers.Error(c, common.ErrInvalidRequest.WithErr(err))
		return
	}

	cmd := assistant.Command{
		Text:     strings.ToLower(req.Command),
		RecipeID: req.RecipeID,
	}
	if req.CurrentStep != nil {
		cmd.StepIndex = *req.CurrentStep
	}

	common.LogDebug("收到指令",
		zap.String("request_id", requestID),
		zap.String("command", cmd.Text),
		zap.Int("current_step", cmd.StepIndex),
	)

	c.JSON(http.StatusOK, toResponse(h.processor.Handle(c.Request.Context(), cmd)))
}

func toResponse(r assistant.Response) Response {
	resp := Response{
		Response: r.Text,
		RecipeID: r.RecipeID,
		Category: r.Category,
		Intent:   r.Intent.String(),
		Timer:    r.Timer,
		Source:   r.Source,
	}
	if r.Action != assistant.ActionNone {
		action := string(r.Action)
		resp.Action = &action
	}
	return resp
}
