// Package handlers 放置各處理器共用的回應工具
package handlers

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"cooking-assistant/internal/pkg/common"
)

// RequestID 取得請求 ID，沒有時產生一個
func RequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return common.GenerateUUID()
}

// Error 以統一格式回傳錯誤
func Error(c *gin.Context, e *common.CustomError) {
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, e.Response(gin.IsDebugging()))
}
