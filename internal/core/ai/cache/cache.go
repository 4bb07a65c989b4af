package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"cooking-assistant/internal/core/ai/provider"
)

// Cache 備援回答快取
type Cache interface {
	// Get 取得快取值，不存在或過期時回傳 false
	Get(ctx context.Context, key string) (string, bool)

	// Set 寫入快取值
	Set(ctx context.Context, key, value string) error

	// Close 釋放資源
	Close() error
}

// Key 依模型與對話內容生成快取鍵
func Key(model string, messages []provider.Message) string {
	var b strings.Builder
	b.WriteString(model)
	for _, m := range messages {
		b.WriteString("\x00")
		b.WriteString(m.Role)
		b.WriteString("\x00")
		b.WriteString(m.Content)
	}
	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("chat:%s", hex.EncodeToString(hash[:]))
}
