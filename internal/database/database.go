// Package database opens the two stores behind the API: MongoDB for content records
// and PostgreSQL for uploaded file metadata.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"semantiapi/internal/config"
)

const (
	appName          = "semantiapi"
	postgresPingWait = 5 * time.Second
)

// ErrIncompleteDSN is returned when a required Postgres setting is empty.
var ErrIncompleteDSN = errors.New("invalid database config: host, port, user, and name are required")

var sqlOpen = sql.Open

// BuildPostgresDSN renders c as a postgres:// URL. application_name is always set
// so the service's sessions are identifiable in pg_stat_activity.
func BuildPostgresDSN(c config.DatabaseConfig) (string, error) {
	for _, v := range []string{c.Host, c.Port, c.User, c.Name} {
		if v == "" {
			return "", ErrIncompleteDSN
		}
	}

	user := url.User(c.User)
	if c.Password != "" {
		user = url.UserPassword(c.User, c.Password)
	}
	q := url.Values{"application_name": {appName}}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     c.Name,
		RawQuery: q.Encode(),
	}
	return dsn.String(), nil
}

// NewPostgres opens the file metadata database through pgx wrapped by otelsql, so every
// query gets a span, and checks it is reachable before returning.
func NewPostgres(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := BuildPostgresDSN(c)
	if err != nil {
		return nil, err
	}

	driver, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL, semconv.DBName(c.Name)),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	configurePool(db, c)

	pctx, cancel := context.WithTimeout(ctx, postgresPingWait)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// configurePool applies the non-zero pool limits from c.
func configurePool(db *sql.DB, c config.DatabaseConfig) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}
}
