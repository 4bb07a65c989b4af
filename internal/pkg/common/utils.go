package common

import (
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// Int64Ptr 回傳指標
func Int64Ptr(v int64) *int64 {
	return &v
}
