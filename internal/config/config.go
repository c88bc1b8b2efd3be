package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the scoring service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	NATSURL            string
	ScoringSubject     string
	ScoringQueueGroup  string
	ResultSubject      string
	DeadLetterSubject  string
	StatisticsCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SCORING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Scoring API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8083")
	v.SetDefault("nats.subject", "scoring.requests")
	v.SetDefault("nats.queue_group", "scoring-workers")
	v.SetDefault("nats.result_subject", "scoring.results")
	v.SetDefault("nats.dead_letter_subject", "scoring.requests.dlq")
	v.SetDefault("statistics.cache_ttl", "5m")

	ttlString := v.GetString("statistics.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid statistics cache ttl: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		ScoringSubject:     v.GetString("nats.subject"),
		ScoringQueueGroup:  v.GetString("nats.queue_group"),
		ResultSubject:      v.GetString("nats.result_subject"),
		DeadLetterSubject:  v.GetString("nats.dead_letter_subject"),
		StatisticsCacheTTL: ttl,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	return cfg, nil
}
