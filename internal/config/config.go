package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by DEDUCE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("DEDUCE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// APIKey is the bearer token required on /v1 routes.
// Auth is disabled when it is empty.
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RunMigrations reports whether embedded migrations run at startup.
// Defaults to true.
func RunMigrations() bool {
	v, err := strconv.ParseBool(os.Getenv("RUN_MIGRATIONS"))
	if err != nil {
		return true
	}
	return v
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// SessionIdleTTL is how long an unused game session stays in memory.
// Defaults to 2h.
func SessionIdleTTL() time.Duration {
	return durationOr("SESSION_IDLE_TTL", 2*time.Hour)
}

// SessionSweepInterval defaults to 10m.
func SessionSweepInterval() time.Duration {
	return durationOr("SESSION_SWEEP_INTERVAL", 10*time.Minute)
}

// SearchMaxDepth caps minimax depth. Defaults to 3.
func SearchMaxDepth() int {
	d, err := strconv.Atoi(os.Getenv("SEARCH_MAX_DEPTH"))
	if err != nil || d < 0 {
		return 3
	}
	return d
}

func durationOr(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
