// Package utils 通用小工具，不依赖 internal
package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CoalesceString 返回第一个非空字符串
func CoalesceString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// DefaultInt 若 v 为 0 则返回 defaultVal
func DefaultInt(v, defaultVal int) int {
	if v == 0 {
		return defaultVal
	}
	return v
}

// NewID 生成带前缀的唯一 ID，如 NewID("chatcmpl") => "chatcmpl-<uuid>"
func NewID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// ElapsedSeconds 返回自 start 起经过的秒数
func ElapsedSeconds(start time.Time) float64 {
	return time.Since(start).Seconds()
}
