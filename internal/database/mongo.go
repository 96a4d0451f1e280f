package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"semantiapi/internal/config"
)

// ErrMissingMongoURI is returned when no connection string is configured.
var ErrMissingMongoURI = errors.New("invalid mongo config: uri is required")

const defaultMongoTimeout = 10 * time.Second

// ConnectMongo opens a client and verifies the primary is reachable within c.Timeout.
// The caller owns the client and must Disconnect it.
func ConnectMongo(ctx context.Context, c config.MongoConfig) (*mongo.Client, error) {
	if c.URI == "" {
		return nil, ErrMissingMongoURI
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(c.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}
