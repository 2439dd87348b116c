package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"USERDIR_ADDR", "USERDIR_ENVIRONMENT", "USERDIR_LOG_LEVEL", "USERDIR_REQUEST_TIMEOUT",
		"DIRECTORY_BASE_URL", "DIRECTORY_BATCH_SIZE", "DIRECTORY_FETCH_TIMEOUT",
		"DIRECTORY_SEED", "DIRECTORY_NATIONALITIES",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "https://randomuser.me", cfg.Directory.BaseURL)
	assert.Equal(t, 50, cfg.Directory.BatchSize)
	assert.Equal(t, 10*time.Second, cfg.Directory.FetchTimeout)
	assert.Empty(t, cfg.Directory.Seed)
	assert.Empty(t, cfg.Directory.Nationalities)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("USERDIR_ADDR", ":9090")
	t.Setenv("USERDIR_ENVIRONMENT", "production")
	t.Setenv("USERDIR_LOG_LEVEL", "debug")
	t.Setenv("USERDIR_REQUEST_TIMEOUT", "5s")
	t.Setenv("DIRECTORY_BASE_URL", "http://localhost:8082/")
	t.Setenv("DIRECTORY_BATCH_SIZE", "120")
	t.Setenv("DIRECTORY_FETCH_TIMEOUT", "1500ms")
	t.Setenv("DIRECTORY_SEED", "demo")
	t.Setenv("DIRECTORY_NATIONALITIES", " US, gb ,,NO")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://localhost:8082", cfg.Directory.BaseURL)
	assert.Equal(t, 120, cfg.Directory.BatchSize)
	assert.Equal(t, 1500*time.Millisecond, cfg.Directory.FetchTimeout)
	assert.Equal(t, "demo", cfg.Directory.Seed)
	assert.Equal(t, []string{"us", "gb", "no"}, cfg.Directory.Nationalities)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"batch size not a number", "DIRECTORY_BATCH_SIZE", "fifty", "DIRECTORY_BATCH_SIZE"},
		{"batch size zero", "DIRECTORY_BATCH_SIZE", "0", "batch_size must be at least 1"},
		{"batch size above upstream limit", "DIRECTORY_BATCH_SIZE", "5001", "batch_size must be at most 5000"},
		{"bad duration", "DIRECTORY_FETCH_TIMEOUT", "soon", "DIRECTORY_FETCH_TIMEOUT"},
		{"negative request timeout", "USERDIR_REQUEST_TIMEOUT", "-1s", "request_timeout must be greater than 0"},
		{"unknown log level", "USERDIR_LOG_LEVEL", "loud", "USERDIR_LOG_LEVEL"},
		{"base url", "DIRECTORY_BASE_URL", "not a url", "base_url must be a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
