package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"it-inventory/internal/core/cache"
	resp "it-inventory/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		rateLimited.WithLabelValues("global").Inc()
		resp.Abort(c, http.StatusTooManyRequests, "")
	}
}

// Limiter 按 key 的窗口限流：window 内最多 max 次
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type fixedWindow struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter 单实例内存固定窗口计数，语义与 RedisLimiter 一致
type MemoryLimiter struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	counters  map[string]*fixedWindow
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:      max,
		window:   window,
		counters: make(map[string]*fixedWindow),
		now:      time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	// 每个窗口最多清理一次过期计数
	if now.Sub(m.lastSweep) > m.window {
		for k, w := range m.counters {
			if !now.Before(w.resetAt) {
				delete(m.counters, k)
			}
		}
		m.lastSweep = now
	}
	w, ok := m.counters[key]
	if !ok || !now.Before(w.resetAt) {
		w = &fixedWindow{resetAt: now.Add(m.window)}
		m.counters[key] = w
	}
	w.count++
	return w.count <= m.max, nil
}

// RedisLimiter 多实例共享的固定窗口计数
type RedisLimiter struct {
	c      *cache.Cache
	prefix string
	max    int
	window time.Duration
}

func NewRedisLimiter(c *cache.Cache, name string, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{c: c, prefix: "ratelimit:" + name + ":", max: max, window: window}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := r.c.Hit(ctx, r.prefix+key, r.window)
	if err != nil {
		return false, err
	}
	return n <= int64(r.max), nil
}

// RateLimitPerIP 每 IP 限流；存储出错时放行并记录日志
func RateLimitPerIP(name string, lim Limiter, msg string, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := lim.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			l.Warn("rate limiter unavailable, allowing request",
				zap.String("limiter", name), zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			rateLimited.WithLabelValues(name).Inc()
			resp.Abort(c, http.StatusTooManyRequests, msg)
			return
		}
		c.Next()
	}
}
