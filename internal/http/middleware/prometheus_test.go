package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"semantiapi/internal/apperr"
)

func newPrometheusApp(t *testing.T) (*fiber.App, *PrometheusMiddleware) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg)
	if err != nil {
		t.Fatalf("failed to create middleware: %v", err)
	}
	app := fiber.New()
	app.Use(m.Handler())
	return app, m
}

func TestPrometheusMiddleware(t *testing.T) {
	app, m := newPrometheusApp(t)

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Delete("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad request")
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return apperr.Conflict("Content for this URL already exists")
	})

	for _, r := range []struct{ method, path string }{
		{"GET", "/test"}, {"DELETE", "/test"}, {"GET", "/error"}, {"GET", "/conflict"},
	} {
		if _, err := app.Test(httptest.NewRequest(r.method, r.path, nil)); err != nil {
			t.Fatalf("%s %s: %v", r.method, r.path, err)
		}
	}

	cases := []struct {
		method, path, status string
	}{
		{"GET", "/test", "200"},
		{"DELETE", "/test", "204"},
		{"GET", "/error", "400"},
		{"GET", "/conflict", "409"},
	}
	for _, tc := range cases {
		got := testutil.ToFloat64(m.requestCount.WithLabelValues(tc.method, tc.path, tc.status))
		if got != 1 {
			t.Errorf("%s %s %s: expected count 1, got %f", tc.method, tc.path, tc.status, got)
		}
	}
}

func TestPrometheusMiddleware_ExcludeMetrics(t *testing.T) {
	app, m := newPrometheusApp(t)

	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Test(httptest.NewRequest("GET", "/metrics", nil))

	if n := testutil.CollectAndCount(m.requestCount); n != 0 {
		t.Errorf("expected no http_requests_total series, got %d", n)
	}
	if n := testutil.CollectAndCount(m.requestDuration); n != 0 {
		t.Errorf("expected no http_request_duration_seconds series, got %d", n)
	}
}

func TestPrometheusMiddleware_PathPattern(t *testing.T) {
	app, m := newPrometheusApp(t)

	app.Get("/api/jobs/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Test(httptest.NewRequest("GET", "/api/jobs/123", nil))
	app.Test(httptest.NewRequest("GET", "/api/jobs/456", nil))

	count := testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/api/jobs/:id", "200"))
	if count != 2 {
		t.Errorf("expected count 2 for pattern /api/jobs/:id, got %f", count)
	}
	if n := testutil.CollectAndCount(m.requestDuration, "http_request_duration_seconds"); n != 1 {
		t.Errorf("expected one histogram series, got %d", n)
	}
}

func TestPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusMiddleware(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPrometheusMiddleware(reg); err == nil {
		t.Fatal("expected an error registering the same metrics twice")
	}
}
