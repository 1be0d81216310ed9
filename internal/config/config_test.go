package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DevelopmentDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 15.0, cfg.DefaultCommissionPercent)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.NotEmpty(t, cfg.AllowedOrigins)
	assert.Contains(t, cfg.DatabaseURL, "localhost:5432")
}

func TestLoad_BuildsDatabaseURLFromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_USER", "app")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "engagement")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:p%40ss@db:5432/engagement?sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_ProductionRequiresSecretAndOrigins(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DEFAULT_COMMISSION_PERCENT", "150")
	_, err = Load()
	require.Error(t, err)
}
