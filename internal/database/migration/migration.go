// Package migration creates the PostgreSQL schema for file metadata and the MongoDB
// indexes the content collections rely on. Both are idempotent.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"semantiapi/internal/model"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename       TEXT        NOT NULL,
  original_name  TEXT        NOT NULL DEFAULT '',
  storage_path   TEXT        NOT NULL UNIQUE,
  size           BIGINT      NOT NULL CHECK (size >= 0),
  content_type   TEXT        NOT NULL,
  user_id        TEXT        NOT NULL,
  status         TEXT        NOT NULL DEFAULT 'uploaded',
  parsed         BOOLEAN     NOT NULL DEFAULT FALSE,
  parsed_content JSONB,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_files_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_user_id ON files (user_id);`,
	},
	{
		Name: "create_index_files_filename",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_filename ON files (filename);`,
	},
	{
		Name: "create_index_files_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_created_at ON files (created_at DESC);`,
	},
}

// EnsureMigrated checks if the 'files' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))
	log.Info("db_migration_check")

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.files') IS NOT NULL").Scan(&exists); err != nil {
		log.Error("db_migration_failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if exists {
		log.Info("db_migration_skip", zap.String("msg", "schema already exists, skipping migration"))
		return nil
	}

	log.Info("db_migration_start")
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("step_duration", time.Since(stepStart)),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration", time.Since(stepStart)),
		)
	}

	log.Info("db_migration_success", zap.Duration("duration", time.Since(start)))
	return nil
}

// indexes lists the secondary indexes per content collection.
var indexes = map[string][]mongo.IndexModel{
	model.CollectionPageContents: {
		{Keys: bson.D{{Key: "url", Value: 1}}, Options: options.Index().SetUnique(true).SetName("url_unique")},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	},
	model.CollectionUsers: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
	},
	model.CollectionJobs: {
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "tech_stack", Value: 1}}},
	},
	model.CollectionScholarships: {
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "deadline", Value: 1}}},
		{Keys: bson.D{{Key: "country", Value: 1}}},
	},
	model.CollectionBlogs: {
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	},
	model.CollectionNews: {
		{Keys: bson.D{{Key: "is_breaking", Value: 1}, {Key: "publication_date", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	},
	model.CollectionTechnical: {
		{Keys: bson.D{{Key: "technology", Value: 1}}},
		{Keys: bson.D{{Key: "complexity_level", Value: 1}}},
	},
	model.CollectionOthers: {
		{Keys: bson.D{{Key: "content_type", Value: 1}}},
	},
	model.CollectionAdmissions: {
		{Keys: bson.D{{Key: "applicationDeadline", Value: 1}}},
		{Keys: bson.D{{Key: "university", Value: 1}}},
	},
}

// EnsureIndexes creates the content collection indexes. Existing indexes with the same keys are left untouched.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	log = log.With(zap.String("component", "database"), zap.String("db_name", db.Name()))
	for coll, models := range indexes {
		names, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			log.Error("mongo_index_failed", zap.String("collection", coll), zap.Error(err))
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
		log.Info("mongo_index_ready", zap.String("collection", coll), zap.Strings("indexes", names))
	}
	return nil
}
