package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the rules-testing module.
type Config struct {
	// OracleEndpoint is the base URL of the rules evaluation service.
	OracleEndpoint string `env:"RULES_ORACLE_ENDPOINT" envDefault:"https://firebaserules.googleapis.com"`

	// TokenURL is the OAuth2 endpoint that exchanges signed assertions for tokens.
	TokenURL   string `env:"RULES_TOKEN_URL" envDefault:"https://oauth2.googleapis.com/token"`
	TokenScope string `env:"RULES_TOKEN_SCOPE" envDefault:"https://www.googleapis.com/auth/cloud-platform"`

	HTTPTimeout time.Duration `env:"RULES_HTTP_TIMEOUT" envDefault:"30s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// RedisAddr enables the verdict cache when non-empty.
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	VerdictCacheTTL time.Duration `env:"VERDICT_CACHE_TTL" envDefault:"10m"`

	// File inputs for the CLI runner.
	CredentialFile string `env:"RULES_CREDENTIAL_FILE"`
	RulesFile      string `env:"RULES_FILE"`
	FixtureFile    string `env:"RULES_FIXTURE_FILE"`
	ScenarioFile   string `env:"RULES_SCENARIO_FILE"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load rules tester configuration from environment: " + err.Error())
	}

	if cfg.OracleEndpoint == "" {
		return nil, errors.New("RULES_ORACLE_ENDPOINT cannot be empty")
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.VerdictCacheTTL <= 0 {
		cfg.VerdictCacheTTL = 10 * time.Minute
	}

	return cfg, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		OracleEndpoint:  "https://firebaserules.googleapis.com",
		TokenURL:        "https://oauth2.googleapis.com/token",
		TokenScope:      "https://www.googleapis.com/auth/cloud-platform",
		HTTPTimeout:     30 * time.Second,
		LogLevel:        "info",
		LogFormat:       "text",
		VerdictCacheTTL: 10 * time.Minute,
	}
}
