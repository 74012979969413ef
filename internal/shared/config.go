package shared

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	UpstreamBase string
	UpstreamRPS  int

	// file | redis | mysql
	StorageBackend string
	StatePath      string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	MySQLDSN       string

	SyncWorkers int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		UpstreamBase:   env("UPSTREAM_BASE_URL", "http://localhost:8000/api"),
		UpstreamRPS:    atoi("UPSTREAM_RPS", 5),
		StorageBackend: env("STORAGE_BACKEND", "file"),
		StatePath:      env("STATE_PATH", "catalog_state.json"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/catalog?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		SyncWorkers:    atoi("SYNC_WORKERS", 8),
	}
	switch c.StorageBackend {
	case "file", "redis", "mysql":
	default:
		log.Warn().Str("backend", c.StorageBackend).Msg("unknown STORAGE_BACKEND, falling back to file")
		c.StorageBackend = "file"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
