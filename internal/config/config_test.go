package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL",
		"SESSION_IDLE_TTL", "SESSION_SWEEP_INTERVAL", "SEARCH_MAX_DEPTH", "RUN_MIGRATIONS"} {
		t.Setenv(k, "")
	}

	assert.Equal(t, 8080, ServerPort())
	assert.Equal(t, ":8080", ServerAddr())
	assert.Equal(t, 100.0, RateLimitRPS())
	assert.Equal(t, 20, RateLimitBurst())
	assert.Equal(t, "info", LogLevel())
	assert.Equal(t, 2*time.Hour, SessionIdleTTL())
	assert.Equal(t, 10*time.Minute, SessionSweepInterval())
	assert.Equal(t, 3, SearchMaxDepth())
	assert.True(t, RunMigrations())
}

func TestOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_IDLE_TTL", "30m")
	t.Setenv("SEARCH_MAX_DEPTH", "2")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("RATE_LIMIT_RPS", "-5")

	assert.Equal(t, ":9090", ServerAddr())
	assert.Equal(t, 30*time.Minute, SessionIdleTTL())
	assert.Equal(t, 2, SearchMaxDepth())
	assert.False(t, RunMigrations())
	assert.Equal(t, 100.0, RateLimitRPS(), "non-positive rps falls back to default")
}

func TestLoadReadsEnvFileAndSecret(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DEDUCE_TEST_PLAIN=plain\n"), 0o600))
	require.NoError(t, os.WriteFile(envFile+".secret", []byte("DEDUCE_TEST_SECRET=s3cret\n"), 0o600))

	t.Setenv("DEDUCE_ENV", envFile)
	t.Setenv("DEDUCE_TEST_PLAIN", "")
	t.Setenv("DEDUCE_TEST_SECRET", "")
	os.Unsetenv("DEDUCE_TEST_PLAIN")
	os.Unsetenv("DEDUCE_TEST_SECRET")

	require.NoError(t, Load())
	assert.Equal(t, "plain", os.Getenv("DEDUCE_TEST_PLAIN"))
	assert.Equal(t, "s3cret", os.Getenv("DEDUCE_TEST_SECRET"))
}
