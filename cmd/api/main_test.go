package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"semantiapi/internal/config"
	handlers "semantiapi/internal/http/handler"
	"semantiapi/internal/http/middleware"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Env:     "test",
		Port:    "0",
		Storage: config.StorageConfig{MaxBytes: 1 << 20},
	}
}

func TestNewApp(t *testing.T) {
	app, err := newApp(testConfig(), zap.NewNop(), handlers.Deps{}, nil, prometheus.NewRegistry())
	require.NoError(t, err)

	t.Run("liveness", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	})

	t.Run("health without dependencies", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("unmounted group is a 404 envelope", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/jobs", nil))
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Not Found - /api/jobs", body["message"])
	})
}

func TestNewApp_RecoversPanics(t *testing.T) {
	app, err := newApp(testConfig(), zap.NewNop(), handlers.Deps{}, nil, prometheus.NewRegistry())
	require.NoError(t, err)
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "Internal server error")
}

func TestNewApp_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	app, err := newApp(cfg, zap.NewNop(), handlers.Deps{}, nil, prometheus.NewRegistry())
	require.NoError(t, err)

	first, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	second, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)

	assert.Equal(t, 200, first.StatusCode)
	assert.Equal(t, 429, second.StatusCode)
}

func TestRootCmd(t *testing.T) {
	orig := loadEnv
	t.Cleanup(func() { loadEnv = orig })
	loadEnv = func() (*env, error) {
		return &env{cfg: testConfig(), log: zap.NewNop()}, nil
	}

	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")

	var seen *env
	inspect := &cobra.Command{
		Use: "inspect",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seen = envFrom(cmd)
			return nil
		},
	}
	root.AddCommand(inspect)
	root.SetArgs([]string{"inspect", "--port", "9999"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	require.NotNil(t, seen)
	assert.Equal(t, "9999", seen.cfg.Port)
}

func TestRunMigrate_RequiresEnv(t *testing.T) {
	assert.Error(t, runMigrate(context.Background(), nil))
	assert.Error(t, runServer(context.Background(), nil))
}
