package middleware

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go-plantshelf/utils"
)

// 限流默认值：滑动窗口一分钟，公共接口按 IP 60 次，写接口按用户 10 次
const (
	RateLimitWindow = time.Minute
	IPMaxRequests   = 60
	UserMaxRequests = 10
)

// TimestampStore 限流后端，按键存取毫秒时间戳列表
type TimestampStore interface {
	Fetch(key string) ([]int64, error)
	Save(key string, requests []int64) error
}

// RateLimitResult 单次限流判定的结果
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   int64
}

// RateLimiter 基于精确时间戳的滑动窗口限流器
type RateLimiter struct {
	store TimestampStore
	now   func() time.Time
}

// NewRateLimiter 创建一个新的 RateLimiter 实例
func NewRateLimiter(store TimestampStore) *RateLimiter {
	return &RateLimiter{store: store, now: time.Now}
}

// Check 对某个键做一次限流判定。
// 取出窗口内的时间戳，满了就拒绝并报告最早一条过期的时间；
// 否则追加当前时间戳写回。后端不可用时放行（可用性优先于严格性），
// remaining 报 -1 表示未知。
func (l *RateLimiter) Check(key string, maxRequests int, window time.Duration) RateLimitResult {
	nowMs := l.now().UnixMilli()
	windowMs := window.Milliseconds()
	windowStart := nowMs - windowMs

	stored, err := l.store.Fetch(key)
	if err != nil {
		slog.Error("rate limit check failed", "key", key, "err", err)
		return RateLimitResult{Allowed: true, Remaining: -1}
	}

	requests := make([]int64, 0, len(stored)+1)
	for _, ts := range stored {
		if ts > windowStart {
			requests = append(requests, ts)
		}
	}

	if len(requests) >= maxRequests {
		oldest := requests[0]
		for _, ts := range requests {
			if ts < oldest {
				oldest = ts
			}
		}
		return RateLimitResult{Allowed: false, Remaining: 0, ResetAt: oldest + windowMs}
	}

	requests = append(requests, nowMs)
	if err := l.store.Save(key, requests); err != nil {
		slog.Error("rate limit save failed", "key", key, "err", err)
		return RateLimitResult{Allowed: true, Remaining: -1}
	}

	return RateLimitResult{
		Allowed:   true,
		Remaining: maxRequests - len(requests),
		ResetAt:   nowMs + windowMs,
	}
}

// ClientIP 从转发头里取客户端地址。
// 取 X-Forwarded-For 链的第一个地址，退化到 X-Real-IP，再退化到 "unknown"。
func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return "unknown"
}

// ByIP 公共接口的限流中间件，按客户端 IP 计数
func (l *RateLimiter) ByIP(maxRequests int) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := l.Check("ip:"+ClientIP(c), maxRequests, RateLimitWindow)
		if !result.Allowed {
			utils.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ByUser 写接口的限流中间件，按已认证的用户 ID 计数。
// 必须排在 RequireAuth 之后。
func (l *RateLimiter) ByUser(maxRequests int) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := l.Check("user:"+strconv.Itoa(c.GetInt(ContextUserID)), maxRequests, RateLimitWindow)
		if !result.Allowed {
			utils.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
