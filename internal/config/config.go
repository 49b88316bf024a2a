// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListenAddr   = ":8532"
	DefaultMaxBodyBytes = 512 * 1024
	DefaultRateRPS      = 10
	DefaultRateBurst    = 20
	DefaultTimeoutSecs  = 30
)

type Config struct {
	Server struct {
		ListenAddr   string `yaml:"listen_addr"`
		MaxBodyBytes int64  `yaml:"max_body_bytes"`
		TimeoutSecs  int    `yaml:"timeout_secs"`
	} `yaml:"server"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Load reads the YAML config at path, applying environment overrides
// and defaults. A missing file is not an error; env and defaults
// still apply so the service can run with zero configuration.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on system environment variables: %v", err)
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MITSLINT_LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("MITSLINT_MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MITSLINT_MAX_BODY_BYTES value: %v", err)
		}
		c.Server.MaxBodyBytes = n
	}
	if v := os.Getenv("MITSLINT_TIMEOUT_SECS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MITSLINT_TIMEOUT_SECS value: %v", err)
		}
		c.Server.TimeoutSecs = n
	}
	if v := os.Getenv("MITSLINT_RATE_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid MITSLINT_RATE_RPS value: %v", err)
		}
		c.RateLimit.RPS = f
	}
	if v := os.Getenv("MITSLINT_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MITSLINT_RATE_BURST value: %v", err)
		}
		c.RateLimit.Burst = n
	}
	if v := os.Getenv("MITSLINT_CORS_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		c.CORS.AllowedOrigins = origins
	}
	if v := os.Getenv("MITSLINT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MITSLINT_METRICS_ENABLED"); v != "" {
		c.Metrics.Enabled = v == "true"
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Server.TimeoutSecs == 0 {
		c.Server.TimeoutSecs = DefaultTimeoutSecs
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = DefaultRateRPS
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = DefaultRateBurst
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must be non-negative")
	}
	if c.Server.TimeoutSecs < 0 {
		return fmt.Errorf("timeout_secs must be non-negative")
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must be non-negative")
	}
	if c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit.burst must be non-negative")
	}
	return nil
}
