package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"cooking-assistant/internal/api/handlers"
	"cooking-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Counter 就緒檢查用的儲存探測
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	AIOnline  bool                   `json:"ai_online"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	version  string
	store    Counter
	aiOnline bool
}

// NewHandler 創建健康檢查處理器
func NewHandler(version string, store Counter, aiOnline bool) *Handler {
	return &Handler{version: version, store: store, aiOnline: aiOnline}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		AIOnline:  h.aiOnline,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查，確認食譜儲存可讀取
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.store == nil {
		handlers.Error(c, common.ErrServiceUnavailable)
		return
	}

	count, err := h.store.Count(c.Request.Context())
	if err != nil {
		common.LogWarn("Readiness check failed", zap.Error(err))
		handlers.Error(c, common.ErrServiceUnavailable.WithErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"recipes": count,
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
