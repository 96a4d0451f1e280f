package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"semantiapi/docs"
	"semantiapi/internal/config"
	"semantiapi/internal/database"
	"semantiapi/internal/database/migration"
	handlers "semantiapi/internal/http/handler"
	"semantiapi/internal/http/middleware"
	"semantiapi/internal/llm"
	"semantiapi/internal/otel"
	"semantiapi/internal/repository/postgres"
	"semantiapi/internal/scraper"
	"semantiapi/internal/service"
	"semantiapi/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// resources are the connections the server owns and closes on exit.
type resources struct {
	closers []func(context.Context) error
}

func (r *resources) add(fn func(context.Context) error) { r.closers = append(r.closers, fn) }

func (r *resources) close(ctx context.Context) error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i](ctx))
	}
	return errors.Join(errs...)
}

func runServer(ctx context.Context, e *env) error {
	if e == nil {
		return errors.New("environment not initialised")
	}
	cfg, log := e.cfg, e.log

	res := &resources{}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := res.close(cctx); err != nil {
			log.Warn("shutdown_cleanup_failed", zap.Error(err))
		}
	}()

	shutdownTracing, err := otel.Init(ctx, otel.SettingsFromEnv(), log)
	if err != nil {
		return err
	}
	res.add(shutdownTracing)

	deps, rdb, err := buildDeps(ctx, cfg, log, res)
	if err != nil {
		return err
	}

	app, err := newApp(cfg, log, deps, rdb, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting", zap.String("addr", ":"+cfg.Port), zap.String("env", cfg.Env))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}

// buildDeps connects the stores and assembles the services. Postgres is optional:
// without DB_HOST the file endpoints stay unmounted.
func buildDeps(ctx context.Context, cfg *config.AppConfig, log *zap.Logger, res *resources) (handlers.Deps, *redis.Client, error) {
	var deps handlers.Deps

	mc, err := database.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		return deps, nil, fmt.Errorf("connect mongodb: %w", err)
	}
	res.add(mc.Disconnect)
	mdb := mc.Database(cfg.Mongo.Database)
	if err := migration.EnsureIndexes(ctx, mdb, log); err != nil {
		return deps, nil, err
	}

	var db *sql.DB
	if cfg.Database.Host != "" {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return deps, nil, fmt.Errorf("connect postgres: %w", err)
		}
		res.add(func(context.Context) error { return db.Close() })
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			return deps, nil, err
		}
	} else {
		log.Warn("postgres_not_configured", zap.String("disabled", "/api/files"))
	}

	var rdb *redis.Client
	if cfg.RateLimit.Enabled && cfg.RateLimit.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr, Password: cfg.RateLimit.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis_unavailable", zap.Error(err))
		}
		res.add(func(context.Context) error { return rdb.Close() })
	}

	var client llm.Client
	if oa, err := llm.New(cfg.LLM, log); err != nil {
		log.Warn("llm_unavailable", zap.Error(err))
		client = llm.Unavailable{}
	} else {
		client = oa
	}

	auth := cfg.Auth
	if auth.JWTSecret == "" {
		log.Warn("jwt_secret_missing", zap.String("fallback", "development secret"))
		auth.JWTSecret = "semantiapi-dev-secret"
	}

	v := service.NewValidator()
	records := service.NewServices(mdb, v)
	classifier := service.NewClassifier(client, cfg.LLM.Model)
	ingest := service.NewIngestor(records, log)

	deps = handlers.Deps{
		Mongo:   mc,
		Records: records,
		Pages: service.NewPageContentService(records.Pages, classifier, ingest, log,
			service.WithAnalysisTimeout(cfg.LLM.Timeout+30*time.Second)),
		Features: service.NewFeatureService(client, cfg.LLM.Model, cfg.LLM.SummaryModel,
			classifier, ingest, scraper.New(cfg.Scraper)),
		Users: service.NewUserService(records.Users, v, auth),
	}

	if db != nil {
		store, err := storage.New(cfg.Storage)
		if err != nil {
			return deps, nil, fmt.Errorf("init storage: %w", err)
		}
		deps.DB = db
		deps.Files = service.NewFileService(store, postgres.NewFilePostgres(db), cfg.Storage.MaxBytes)
	}
	return deps, rdb, nil
}

// newApp builds the fiber app with the middleware chain and every route.
func newApp(cfg *config.AppConfig, log *zap.Logger, deps handlers.Deps, rdb *redis.Client, reg prometheus.Registerer) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      "semantiapi",
		ErrorHandler: handlers.ErrorHandler(log),
		// multipart framing on top of the largest accepted upload
		BodyLimit: int(cfg.Storage.MaxBytes) + 1<<20,
	})

	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
	})))
	app.Use(middleware.RequestID())
	app.Use(prom.Handler())
	app.Use(middleware.Logger(log))
	app.Use(middleware.RateLimit(cfg.RateLimit, rdb, log))
	app.Use(cors.New())
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, deps)
	return app, nil
}
