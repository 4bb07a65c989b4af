package recipe

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cooking-assistant/internal/api/handlers"
	recipeStore "cooking-assistant/internal/core/recipe"
	"cooking-assistant/internal/pkg/common"
)

// Handler 食譜查詢處理器
type Handler struct {
	store recipeStore.Store
}

// NewHandler 創建食譜處理器
func NewHandler(store recipeStore.Store) *Handler {
	return &Handler{store: store}
}

// GetRecipe 依 id 取得完整食譜
func (h *Handler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handlers.Error(c, common.ErrInvalidRequest.WithErr(err))
		return
	}

	r, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if common.IsNotFound(err) {
			handlers.Error(c, common.ErrRecipeNotFound)
			return
		}
		common.LogError("取得食譜失敗",
			zap.String("request_id", handlers.RequestID(c)),
			zap.Int64("recipe_id", id),
			zap.Error(err),
		)
		handlers.Error(c, common.ErrInternalError.WithErr(err))
		return
	}

	c.JSON(http.StatusOK, r)
}

// ListRecipes 列出所有食譜摘要
func (h *Handler) ListRecipes(c *gin.Context) {
	h.list(c, "")
}

// ListByCategory 依分類列出食譜，category 為 All 或空白時列出全部
func (h *Handler) ListByCategory(c *gin.Context) {
	h.list(c, c.Query("category"))
}

func (h *Handler) list(c *gin.Context, category string) {
	summaries, err := h.store.List(c.Request.Context(), category)
	if err != nil {
		common.LogError("列出食譜失敗",
			zap.String("request_id", handlers.RequestID(c)),
			zap.String("category", category),
			zap.Error(err),
		)
		handlers.Error(c, common.ErrInternalError.WithErr(err))
		return
	}
	if summaries == nil {
		summaries = []common.RecipeSummary{}
	}

	c.JSON(http.StatusOK, summaries)
}
