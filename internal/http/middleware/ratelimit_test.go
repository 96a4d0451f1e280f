package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semantiapi/internal/config"
)

func rateLimitedApp(h fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(h)
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func statuses(t *testing.T, app *fiber.App, n int) []int {
	t.Helper()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
		require.NoError(t, err)
		out = append(out, resp.StatusCode)
	}
	return out
}

func TestRateLimit_Disabled(t *testing.T) {
	app := rateLimitedApp(RateLimit(config.RateLimitConfig{Enabled: false, RPS: 1, Burst: 1}, nil, nil))

	for _, s := range statuses(t, app, 5) {
		assert.Equal(t, fiber.StatusOK, s)
	}
}

func TestRateLimit_Memory(t *testing.T) {
	app := rateLimitedApp(RateLimit(config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2}, nil, nil))

	got := statuses(t, app, 3)
	assert.Equal(t, []int{200, 200, 429}, got)

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, "1", resp.Header.Get(fiber.HeaderRetryAfter))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, rateLimitMessage, body["message"])
}

func TestRateLimit_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{Enabled: true, RPS: 0.0001, Burst: 2, Window: time.Hour}
	app := rateLimitedApp(RateLimit(cfg, rdb, nil))

	got := statuses(t, app, 3)
	assert.Equal(t, []int{200, 200, 429}, got)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "rl:ip:")
	assert.Greater(t, mr.TTL(keys[0]), time.Hour)

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, "3600", resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestRateLimit_RedisDownFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	cfg := config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1, Window: time.Minute}
	app := rateLimitedApp(RateLimit(cfg, rdb, nil))

	for _, s := range statuses(t, app, 3) {
		assert.Equal(t, fiber.StatusOK, s)
	}
}
