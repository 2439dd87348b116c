package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"userdir/pkg/validation"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string `validate:"required"`
	Environment    string `validate:"required"`
	LogLevel       slog.Level
	RequestTimeout time.Duration `validate:"gt=0"`
	Directory      Directory
}

// Directory configures the upstream people directory and the one-time load.
type Directory struct {
	BaseURL      string        `validate:"required,url"`
	BatchSize    int           `validate:"min=1,max=5000"`
	FetchTimeout time.Duration `validate:"gt=0"`
	// Seed makes the upstream return the same batch on every start.
	Seed string
	// Nationalities restricts the batch to the given upstream nationality codes (us, gb, ...).
	Nationalities []string
}

const (
	DefaultAddr           = ":8080"
	DefaultEnvironment    = "development"
	DefaultBaseURL        = "https://randomuser.me"
	DefaultBatchSize      = 50
	DefaultFetchTimeout   = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	var err error

	cfg.Addr = getEnv("USERDIR_ADDR", DefaultAddr)
	cfg.Environment = getEnv("USERDIR_ENVIRONMENT", DefaultEnvironment)

	if err = cfg.LogLevel.UnmarshalText([]byte(getEnv("USERDIR_LOG_LEVEL", "info"))); err != nil {
		return Server{}, fmt.Errorf("USERDIR_LOG_LEVEL: %w", err)
	}
	if cfg.RequestTimeout, err = getEnvDuration("USERDIR_REQUEST_TIMEOUT", DefaultRequestTimeout); err != nil {
		return Server{}, err
	}

	cfg.Directory.BaseURL = strings.TrimRight(getEnv("DIRECTORY_BASE_URL", DefaultBaseURL), "/")
	if cfg.Directory.BatchSize, err = getEnvInt("DIRECTORY_BATCH_SIZE", DefaultBatchSize); err != nil {
		return Server{}, err
	}
	if cfg.Directory.FetchTimeout, err = getEnvDuration("DIRECTORY_FETCH_TIMEOUT", DefaultFetchTimeout); err != nil {
		return Server{}, err
	}
	cfg.Directory.Seed = strings.TrimSpace(os.Getenv("DIRECTORY_SEED"))
	cfg.Directory.Nationalities = splitList(os.Getenv("DIRECTORY_NATIONALITIES"))

	if err := validation.Validate(cfg); err != nil {
		return Server{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
