package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheShortTTL)
	assert.Equal(t, time.Hour, cfg.CacheLongTTL)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "JWT_SECRET=from-file\nDATABASE_DRIVER=sqlite\nDATABASE_URL=film.db\nJWT_TTL=1h\nREDIS_DB=2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "film.db", cfg.DatabaseURL)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=file\nSERVER_PORT=9000\n"), 0o600))
	t.Setenv("SERVER_PORT", "7000")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.ServerPort)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
