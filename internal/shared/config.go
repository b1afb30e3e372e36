package shared

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	SearchBase     string
	SearchKey      string
	SearchRPS      int
	DefaultRegion  string
	AllowedOrigins []string
	RateLimitRPM   int
	WarmWorkers    int
	BGWrites       int
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
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		SearchBase:     env("SEARCH_BASE_URL", "https://serpapi.example.com/v1"),
		SearchKey:      env("SEARCH_API_KEY", ""),
		SearchRPS:      atoi("SEARCH_RPS", 5),
		DefaultRegion:  env("DEFAULT_REGION", "us"),
		AllowedOrigins: splitCSV(env("ALLOWED_ORIGINS", "*")),
		RateLimitRPM:   atoi("RATE_LIMIT_RPM", 120),
		WarmWorkers:    atoi("WARM_WORKERS", 8),
		BGWrites:       atoi("BG_WRITE_LIMIT", 16),
	}
	if c.SearchKey == "" {
		log.Warn().Msg("SEARCH_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
