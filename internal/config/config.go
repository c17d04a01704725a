package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/logging"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
	RateLimit   RateLimitConfig
}

// RateLimitConfig holds the per-client request budget
type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

// NHLConfig holds upstream API configuration
type NHLConfig struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// BoardConfig holds board aggregation settings
type BoardConfig struct {
	// MaxConcurrency bounds per-goalie lookups; 0 is unbounded
	MaxConcurrency int
}

// LiveConfig holds live feed settings
type LiveConfig struct {
	// PollInterval of 0 turns the poller off
	PollInterval time.Duration
}

// RedisConfig holds Redis connection configuration. An empty URL disables publishing.
type RedisConfig struct {
	URL string
}

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	NHL    NHLConfig
	Board  BoardConfig
	Live   LiveConfig
	Redis  RedisConfig
	Log    logging.Options
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rps", 10.0)
	v.SetDefault("server.rate_limit.burst", 20)

	v.SetDefault("nhl.base_url", "https://statsapi.web.nhl.com/api/v1")
	v.SetDefault("nhl.user_agent", "Mozilla/5.0 (compatible; GoalieService/1.0)")
	v.SetDefault("nhl.timeout", 15*time.Second)
	v.SetDefault("nhl.retry_attempts", 1)
	v.SetDefault("nhl.retry_delay", 500*time.Millisecond)

	v.SetDefault("board.max_concurrency", 0)
	v.SetDefault("live.poll_interval", 60*time.Second)
	v.SetDefault("redis.url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Load reads defaults, the optional config file and the environment.
// Keys map to variables by upper-casing and replacing dots with
// underscores, so server.addr is SERVER_ADDR.
func Load(file string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper copies resolved values out of v
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        v.GetString("server.addr"),
			CORSOrigins: splitList(v.GetStringSlice("server.cors_origins")),
			RateLimit: RateLimitConfig{
				Enabled: v.GetBool("server.rate_limit.enabled"),
				RPS:     v.GetFloat64("server.rate_limit.rps"),
				Burst:   v.GetInt("server.rate_limit.burst"),
			},
		},
		NHL: NHLConfig{
			BaseURL:       strings.TrimRight(v.GetString("nhl.base_url"), "/"),
			UserAgent:     v.GetString("nhl.user_agent"),
			Timeout:       v.GetDuration("nhl.timeout"),
			RetryAttempts: v.GetInt("nhl.retry_attempts"),
			RetryDelay:    v.GetDuration("nhl.retry_delay"),
		},
		Board: BoardConfig{
			MaxConcurrency: v.GetInt("board.max_concurrency"),
		},
		Live: LiveConfig{
			PollInterval: v.GetDuration("live.poll_interval"),
		},
		Redis: RedisConfig{
			URL: v.GetString("redis.url"),
		},
		Log: logging.Options{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
		},
	}
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RPS <= 0 {
			errs = append(errs, errors.New("server.rate_limit.rps must be positive"))
		}
		if c.Server.RateLimit.Burst < 1 {
			errs = append(errs, errors.New("server.rate_limit.burst must be at least 1"))
		}
	}
	if c.NHL.BaseURL == "" {
		errs = append(errs, errors.New("nhl.base_url is required"))
	}
	if c.NHL.Timeout <= 0 {
		errs = append(errs, errors.New("nhl.timeout must be positive"))
	}
	if c.NHL.RetryAttempts < 1 {
		errs = append(errs, errors.New("nhl.retry_attempts must be at least 1"))
	}
	if c.Board.MaxConcurrency < 0 {
		errs = append(errs, errors.New("board.max_concurrency cannot be negative"))
	}
	if c.Live.PollInterval < 0 {
		errs = append(errs, errors.New("live.poll_interval cannot be negative"))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// splitList accepts both YAML lists and comma separated env values
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
