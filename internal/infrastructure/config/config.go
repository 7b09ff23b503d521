// Package config loads the server configuration from .env, an optional YAML
// file and the environment, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/damon-houk/division-ledger/internal/infrastructure/db"
	"github.com/damon-houk/division-ledger/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort            = "5000"
	DefaultStoreDSN        = "badger://./data"
	DefaultLogLevel        = "INFO"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds everything the server needs at startup
type Config struct {
	Port               string        `yaml:"port"`
	StoreDSN           string        `yaml:"store_dsn"`
	LogLevel           string        `yaml:"log_level"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Port:               DefaultPort,
		StoreDSN:           DefaultStoreDSN,
		LogLevel:           DefaultLogLevel,
		CORSAllowedOrigins: []string{"*"},
		ShutdownTimeout:    DefaultShutdownTimeout,
	}
}

// Load reads .env if present, then the YAML file named by CONFIG_FILE, then
// the environment variables PORT, STORE_DSN, LOG_LEVEL,
// CORS_ALLOWED_ORIGINS and SHUTDOWN_TIMEOUT.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	// MONGO_URI is honoured for deployments that still export the old name
	if v := firstEnv("STORE_DSN", "MONGO_URI"); v != "" {
		c.StoreDSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORSAllowedOrigins = splitList(v)
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", v, err)
		}
		c.ShutdownTimeout = d
	}
	return nil
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, _, err := db.ParseDSN(c.StoreDSN); err != nil {
		problems = append(problems, fmt.Sprintf("invalid store DSN: %v", err))
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if c.ShutdownTimeout <= 0 {
		problems = append(problems, "shutdown timeout must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
