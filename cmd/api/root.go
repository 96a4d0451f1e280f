package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"semantiapi/internal/config"
	"semantiapi/internal/database"
	"semantiapi/internal/database/migration"
	"semantiapi/internal/logging"
)

type envKeyType struct{}

// env is what every subcommand starts from.
type env struct {
	cfg *config.AppConfig
	log *zap.Logger
}

func envFrom(cmd *cobra.Command) *env {
	e, _ := cmd.Context().Value(envKeyType{}).(*env)
	return e
}

// loadEnv reads and validates configuration and builds the logger.
var loadEnv = func() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log, err := logging.New(cfg.IsDevelopment(), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &env{cfg: cfg, log: log}, nil
}

func newRootCmd() *cobra.Command {
	var port string

	root := &cobra.Command{
		Use:           "semantiapi",
		Short:         "Content ingestion API with LLM classification",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			if port != "" {
				e.cfg.Port = port
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKeyType{}, e))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if e := envFrom(cmd); e != nil {
				_ = e.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&port, "port", "", "listen port (overrides PORT)")

	serve := newServeCmd()
	root.AddCommand(serve, newMigrateCmd())
	// bare invocation serves
	root.RunE = serve.RunE
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), envFrom(cmd))
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the file metadata schema and the content indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), envFrom(cmd))
		},
	}
}

func runMigrate(ctx context.Context, e *env) error {
	if e == nil {
		return errors.New("environment not initialised")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	mc, err := database.ConnectMongo(ctx, e.cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()

	if err := migration.EnsureIndexes(ctx, mc.Database(e.cfg.Mongo.Database), e.log); err != nil {
		return err
	}

	if e.cfg.Database.Host == "" {
		e.log.Warn("postgres_not_configured", zap.String("skipped", "file metadata schema"))
		return nil
	}
	db, err := database.NewPostgres(ctx, e.cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	return migration.EnsureMigrated(ctx, db, e.log, e.cfg.Database.Host)
}
