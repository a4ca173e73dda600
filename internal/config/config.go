package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBPath        string
	DatasourceDir string
	RedisAddr     string // empty means in-process progress store
	RedisPassword string
	RedisDB       int
	ProgressTTL   time.Duration
	LogLevel      slog.Level
}

// FromEnv loads configuration from the environment, reading an
// optional .env file first.
func FromEnv() Config {
	_ = godotenv.Load()

	ttl := 10 * time.Minute
	if v := os.Getenv("PROGRESS_TTL_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			ttl = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	return Config{
		Port:          envOr("PORT", "8080"),
		DBPath:        envOr("DB_PATH", "data/admetrics.db"),
		DatasourceDir: envOr("DATASOURCE_DIR", "Datasource"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       atoiDef(os.Getenv("REDIS_DB"), 0),
		ProgressTTL:   ttl,
		LogLevel:      lvl,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
