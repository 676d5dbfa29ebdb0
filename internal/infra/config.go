package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
// Retry bounds and the dead-letter threshold are operational tuning values,
// which is why they live here and not in code.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	DictionaryPath   string
	OpportunityDir   string
	ArtifactDir      string
	Workers          int
	MaxAttempts      int
	BackoffBase      time.Duration
	AttemptTimeout   time.Duration
	QueueCapacity    int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. requireDB enforces DATABASE_URL for binaries that
// need the durable store.
func LoadConfig(requireDB bool) (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DictionaryPath:   os.Getenv("DICTIONARY_PATH"),
		OpportunityDir:   getEnv("OPPORTUNITY_DIR", "data/opportunities"),
		ArtifactDir:      getEnv("ARTIFACT_DIR", "./artifacts"),
		Workers:          getEnvInt("WORKERS", 4),
		MaxAttempts:      getEnvInt("JOB_MAX_ATTEMPTS", 3),
		BackoffBase:      time.Millisecond * time.Duration(getEnvInt("JOB_BACKOFF_BASE_MS", 500)),
		AttemptTimeout:   time.Second * time.Duration(getEnvInt("JOB_ATTEMPT_TIMEOUT_SECONDS", 30)),
		QueueCapacity:    getEnvInt("QUEUE_CAPACITY", 64),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if requireDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
