/*
Package config loads process settings for the shiftlock binaries.

PURPOSE:
  One YAML file (optional) plus SHIFTLOCK_* environment overrides. Labor
  rules are not configured here; RulesFile points at a factory JSON document
  and the server loads it through factory.RulesFactory.

FILE FORMAT:
  server:
    addr: ":8080"
    cors_origins: ["http://localhost:5173"]
    read_timeout: "15s"
  database:
    path: "./shiftlock.db"
  log:
    level: info
    format: text
  scheduler:
    enabled: true
    interval: "1h"
  rules_file: ""

ENVIRONMENT:
  SHIFTLOCK_ADDR, SHIFTLOCK_DB, SHIFTLOCK_LOG_LEVEL, SHIFTLOCK_LOG_FORMAT,
  SHIFTLOCK_RULES_FILE, SHIFTLOCK_CORS_ORIGINS (comma-separated)

PRECEDENCE:
  defaults < file < environment < command-line flags (applied by cmd/server)
*/
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	RulesFile string          `yaml:"rules_file"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	ReadTimeout    time.Duration `yaml:"-"`
	ReadTimeoutRaw string        `yaml:"read_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig drives the automatic reconciliation of ended pay periods.
type SchedulerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"-"`
	IntervalRaw string        `yaml:"interval"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			ReadTimeout: 15 * time.Second,
		},
		Database:  DatabaseConfig{Path: "./shiftlock.db"},
		Log:       LogConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{Enabled: true, Interval: time.Hour},
	}
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.Server.ReadTimeoutRaw = cfg.Server.ReadTimeout.String()
	cfg.Scheduler.IntervalRaw = cfg.Scheduler.Interval.String()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("SHIFTLOCK_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := get("SHIFTLOCK_DB"); ok {
		c.Database.Path = v
	}
	if v, ok := get("SHIFTLOCK_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("SHIFTLOCK_LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := get("SHIFTLOCK_RULES_FILE"); ok {
		c.RulesFile = v
	}
	if v, ok := get("SHIFTLOCK_CORS_ORIGINS"); ok {
		c.Server.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, o)
			}
		}
	}
}

func (c *Config) validateAndNormalize() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr must be set")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("config: database.path must be set")
	}

	timeout, err := parseDurationAllowEmpty(c.Server.ReadTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: server.read_timeout: %w", err)
	}
	c.Server.ReadTimeout = timeout

	interval, err := parseDurationAllowEmpty(c.Scheduler.IntervalRaw)
	if err != nil {
		return fmt.Errorf("config: scheduler.interval: %w", err)
	}
	if c.Scheduler.Enabled && interval <= 0 {
		return fmt.Errorf("config: scheduler.interval must be positive when the scheduler is enabled")
	}
	c.Scheduler.Interval = interval

	c.Log.Level = strings.ToLower(c.Log.Level)
	switch c.Log.Level {
	case "", "info":
		c.Log.Level = "info"
	case "debug", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}

	c.Log.Format = strings.ToLower(c.Log.Format)
	switch c.Log.Format {
	case "", "text":
		c.Log.Format = "text"
	case "json":
	default:
		return fmt.Errorf("config: log.format %q is not text or json", c.Log.Format)
	}
	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}
