package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"cv-generator-backend/internal/delivery/http/response"
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/audit"
	"cv-generator-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key extractor (default: session user ID, then client IP)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Whether to fail closed (reject) when Redis is unavailable
	FailClosed bool
	// Redis client; nil uses the shared client from pkg/redis
	Client *goredis.Client
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

var (
	rateLimitStore = sync.Map{}
	cleanupOnce    sync.Once
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns {count, ttl}.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

func startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			now := time.Now()
			rateLimitStore.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					rateLimitStore.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}()
}

// userOrIP keys authenticated requests by user so a shared office IP does not
// throttle a whole company.
func userOrIP(c *gin.Context) string {
	if s := SessionFrom(c); s != nil {
		return "user:" + s.UserID
	}
	return "ip:" + c.ClientIP()
}

// GenerationRateLimitConfig limits calls to the text-generation backend per user.
func GenerationRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:gen:",
		FailClosed: false,
		KeyFunc:    userOrIP,
	}
}

// DefaultRateLimitConfig returns the global per-IP limit.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:      300,
		Window:     1 * time.Minute,
		KeyPrefix:  "rl:ip:",
		FailClosed: false,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimitMiddleware counts requests in Redis when available and in process
// memory otherwise.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	cleanupOnce.Do(startCleanup)
	if config.KeyFunc == nil {
		config.KeyFunc = userOrIP
	}

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var count int
		var resetAt time.Time
		var err error

		redisClient := config.Client
		if redisClient == nil {
			redisClient = redis.Client()
		}
		if redisClient != nil {
			count, resetAt, err = checkRateLimitRedis(c.Request.Context(), redisClient, fullKey, config)
			if err != nil {
				if config.FailClosed {
					logRateLimitEvent(c, "redis_error", err)
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				count, resetAt = checkRateLimitInMemory(fullKey, config, now)
			}
		} else {
			count, resetAt = checkRateLimitInMemory(fullKey, config, now)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logRateLimitEvent(c, "limit_exceeded", nil)

			_ = c.Error(apperror.TooManyRequests("Rate limit exceeded. Please try again later."))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())

	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

func checkRateLimitInMemory(key string, config RateLimitConfig, now time.Time) (int, time.Time) {
	entryI, _ := rateLimitStore.LoadOrStore(key, &rateLimitEntry{
		resetAt: now.Add(config.Window),
	})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(config.Window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

func logRateLimitEvent(c *gin.Context, reason string, err error) {
	details := map[string]interface{}{
		"reason":  reason,
		"path":    c.FullPath(),
		"ip_hash": audit.HashValue(c.ClientIP()),
	}
	if err != nil {
		details["error"] = err.Error()
	}
	event := audit.Event{
		Event:     audit.EventRateLimitTriggered,
		RequestID: c.GetString(string(domain.KeyRequestID)),
		Details:   details,
	}
	if s := SessionFrom(c); s != nil {
		event.UserID = s.UserID
		event.CompanyID = s.CompanyID
	}
	audit.Default().Log(c.Request.Context(), event)
}
