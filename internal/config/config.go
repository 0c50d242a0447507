// Package config loads server and CLI settings. Values come from defaults, then
// an optional TOML file, then the environment (a local .env file is loaded into
// the environment first when present).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Config struct {
	Port      string `toml:"port"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	Upstream UpstreamConfig `toml:"upstream"`
	Cache    CacheConfig    `toml:"cache"`

	SessionIdleTTL Duration `toml:"session_idle_ttl"`
	InboundRPS     float64  `toml:"inbound_rps"`
}

// UpstreamConfig describes the live provider. Zero AuthRPS and AuthBurst reuse
// RPS and Burst for the token exchange.
type UpstreamConfig struct {
	ClientID      string   `toml:"client_id"`
	ClientSecret  string   `toml:"client_secret"`
	BaseURL       string   `toml:"base_url"`
	MaxResults    int      `toml:"max_results"`
	Currency      string   `toml:"currency"`
	AuthTimeout   Duration `toml:"auth_timeout"`
	SearchTimeout Duration `toml:"search_timeout"`
	RPS           float64  `toml:"rps"`
	Burst         int      `toml:"burst"`
	AuthRPS       float64  `toml:"auth_rps"`
	AuthBurst     int      `toml:"auth_burst"`
}

type CacheConfig struct {
	Enabled   bool     `toml:"enabled"`
	RedisHost string   `toml:"redis_host"`
	RedisPort string   `toml:"redis_port"`
	TTL       Duration `toml:"ttl"`
}

func Default() *Config {
	return &Config{
		Port:      "8080",
		LogLevel:  "info",
		LogFormat: "text",
		Upstream: UpstreamConfig{
			BaseURL:       "https://test.api.amadeus.com",
			MaxResults:    10,
			Currency:      "USD",
			AuthTimeout:   Duration{5 * time.Second},
			SearchTimeout: Duration{10 * time.Second},
			RPS:           5,
			Burst:         10,
		},
		Cache: CacheConfig{
			Enabled:   false,
			RedisHost: "localhost",
			RedisPort: "6379",
			TTL:       Duration{5 * time.Minute},
		},
		SessionIdleTTL: Duration{30 * time.Minute},
		InboundRPS:     20,
	}
}

// Load builds the configuration. An empty path or a path that does not exist
// skips the TOML layer.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	c.Upstream.ClientID = getEnv("AMADEUS_CLIENT_ID", c.Upstream.ClientID)
	c.Upstream.ClientSecret = getEnv("AMADEUS_CLIENT_SECRET", c.Upstream.ClientSecret)
	c.Upstream.BaseURL = getEnv("AMADEUS_BASE_URL", c.Upstream.BaseURL)
	c.Upstream.MaxResults = getEnvInt("UPSTREAM_MAX_RESULTS", c.Upstream.MaxResults)
	c.Upstream.Currency = getEnv("UPSTREAM_CURRENCY", c.Upstream.Currency)
	c.Upstream.AuthTimeout.Duration = getEnvDuration("UPSTREAM_AUTH_TIMEOUT", c.Upstream.AuthTimeout.Duration)
	c.Upstream.SearchTimeout.Duration = getEnvDuration("UPSTREAM_SEARCH_TIMEOUT", c.Upstream.SearchTimeout.Duration)
	c.Upstream.RPS = getEnvFloat("UPSTREAM_RPS", c.Upstream.RPS)
	c.Upstream.Burst = getEnvInt("UPSTREAM_BURST", c.Upstream.Burst)
	c.Upstream.AuthRPS = getEnvFloat("UPSTREAM_AUTH_RPS", c.Upstream.AuthRPS)
	c.Upstream.AuthBurst = getEnvInt("UPSTREAM_AUTH_BURST", c.Upstream.AuthBurst)

	c.Cache.Enabled = getEnvBool("CACHE_ENABLED", c.Cache.Enabled)
	c.Cache.RedisHost = getEnv("REDIS_HOST", c.Cache.RedisHost)
	c.Cache.RedisPort = getEnv("REDIS_PORT", c.Cache.RedisPort)
	c.Cache.TTL.Duration = getEnvDuration("REDIS_TTL", c.Cache.TTL.Duration)

	c.SessionIdleTTL.Duration = getEnvDuration("SESSION_IDLE_TTL", c.SessionIdleTTL.Duration)
	c.InboundRPS = getEnvFloat("INBOUND_RPS", c.InboundRPS)
}

// CredentialsConfigured reports whether live upstream searches can be attempted.
func (c *Config) CredentialsConfigured() bool {
	return strings.TrimSpace(c.Upstream.ClientID) != "" && strings.TrimSpace(c.Upstream.ClientSecret) != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
