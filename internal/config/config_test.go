package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("STORAGE_DRIVER", "MinIO")
	t.Setenv("LLM_TIMEOUT_SEC", "5")
	t.Setenv("SCRAPER_MAX_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Storage.MinIO.UseSSL)
	assert.Equal(t, "minio", cfg.Storage.Driver)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, int64(1024), cfg.Scraper.MaxBytes)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "semantiai", cfg.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxBytes)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, int64(5<<20), cfg.Scraper.MaxBytes)
	assert.False(t, cfg.Scraper.AllowPrivate)
	assert.True(t, cfg.IsDevelopment())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{name: "ok", mutate: func(c *AppConfig) {}},
		{name: "missing mongo", mutate: func(c *AppConfig) { c.Mongo.URI = "" }, wantErr: "MONGODB_URL is required"},
		{name: "bad driver", mutate: func(c *AppConfig) { c.Storage.Driver = "ftp" }, wantErr: `unsupported STORAGE_DRIVER "ftp"`},
		{
			name:    "production without secret",
			mutate:  func(c *AppConfig) { c.Env = "production"; c.Auth.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{
				Env:     "development",
				Mongo:   MongoConfig{URI: "mongodb://x"},
				Storage: StorageConfig{Driver: "local", MaxBytes: 1},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
