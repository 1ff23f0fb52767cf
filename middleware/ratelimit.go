package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// slidingWindow 按键记录窗口内的请求时间
type slidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	return &slidingWindow{limit: limit, window: window, hits: make(map[string][]time.Time)}
}

// allow 记录一次请求，超过窗口内上限时返回 false
func (s *slidingWindow) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := prune(s.hits[key], now.Add(-s.window))
	if len(recent) >= s.limit {
		s.hits[key] = recent
		return false
	}
	s.hits[key] = append(recent, now)
	return true
}

// sweep 清理过期记录
func (s *slidingWindow) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.window)
	for key, ts := range s.hits {
		if recent := prune(ts, cutoff); len(recent) == 0 {
			delete(s.hits, key)
		} else {
			s.hits[key] = recent
		}
	}
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// LoginRateLimit 登录接口限流中间件
// 每个客户端 IP 在 window 内最多 maxAttempts 次尝试，超过则返回 429
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	limiter := newSlidingWindow(maxAttempts, window)
	// 定期清理过期数据
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			limiter.sweep(now)
		}
	}()

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many login attempts, please try again later",
			})
			return
		}
		c.Next()
	}
}
