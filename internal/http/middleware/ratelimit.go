package middleware

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"semantiapi/internal/config"
)

const rateLimitMessage = "Too many requests, please try again later."

func tooManyRequests(c *fiber.Ctx, retryAfter int) error {
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"success": false,
		"message": rateLimitMessage,
	})
}

func clientKey(c *fiber.Ctx) string {
	ip := c.IP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RateLimit limits requests per client IP. With a Redis client the limit is a fixed
// window shared across instances, otherwise a token bucket per process.
// A disabled config yields a pass-through handler.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, log *zap.Logger) fiber.Handler {
	if !cfg.Enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RPS)
	}
	if rdb != nil {
		return redisRateLimit(rdb, cfg.RPS, cfg.Burst, cfg.Window, log)
	}
	return memoryRateLimit(cfg.RPS, cfg.Burst)
}

func memoryRateLimit(rps float64, burst int) fiber.Handler {
	var limiters sync.Map // key -> *rate.Limiter
	return func(c *fiber.Ctx) error {
		v, _ := limiters.LoadOrStore(clientKey(c), rate.NewLimiter(rate.Limit(rps), burst))
		if !v.(*rate.Limiter).Allow() {
			return tooManyRequests(c, 1)
		}
		return c.Next()
	}
}

// redisRateLimit counts requests in INCR'd per-window keys and allows
// floor(rps*window)+burst per window. Redis failures let the request through.
func redisRateLimit(rdb *redis.Client, rps float64, burst int, window time.Duration, log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	windowSeconds := int(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowed := int64(rps*float64(windowSeconds)) + int64(burst)

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		bucket := time.Now().Unix() / int64(windowSeconds)
		key := fmt.Sprintf("rl:%s:%d", clientKey(c), bucket)

		n, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate_limit_unavailable", zap.Error(err))
			return c.Next()
		}
		if n == 1 {
			_ = rdb.Expire(ctx, key, time.Duration(windowSeconds+1)*time.Second).Err()
		}
		if n > allowed {
			return tooManyRequests(c, windowSeconds)
		}
		return c.Next()
	}
}
