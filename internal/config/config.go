// Package config loads the service configuration from an optional TOML or
// YAML file, a .env file and the process environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"go-chi-calculator/internal/units"
)

// Config holds the complete application configuration.
type Config struct {
	Server     ServerConfig     `toml:"server" yaml:"server"`
	Telemetry  TelemetryConfig  `toml:"telemetry" yaml:"telemetry"`
	Calculator CalculatorConfig `toml:"calculator" yaml:"calculator"`
	Currencies []CurrencyConfig `toml:"currencies" yaml:"currencies"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr" yaml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// TelemetryConfig switches the OTLP exporters. The stdout logger is always on.
type TelemetryConfig struct {
	ServiceName string `toml:"service_name" yaml:"service_name"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	Tracing     *bool  `toml:"tracing" yaml:"tracing"`
	Metrics     *bool  `toml:"metrics" yaml:"metrics"`
	Logs        *bool  `toml:"logs" yaml:"logs"`
}

type CalculatorConfig struct {
	Precision     int      `toml:"precision" yaml:"precision"`
	SessionTTL    Duration `toml:"session_ttl" yaml:"session_ttl"`
	SweepInterval Duration `toml:"sweep_interval" yaml:"sweep_interval"`
	MaxSessions   int      `toml:"max_sessions" yaml:"max_sessions"`
}

// CurrencyConfig overrides or adds a currency. Rate is the value of one unit
// in USD.
type CurrencyConfig struct {
	Code      string `toml:"code" yaml:"code"`
	Title     string `toml:"title" yaml:"title"`
	Rate      string `toml:"rate" yaml:"rate"`
	Precision *int32 `toml:"precision" yaml:"precision"`
}

// Duration wraps time.Duration for TOML and YAML parsing.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Env is the environment variable naming the config file.
const Env = "CALC_CONFIG"

// defaultPaths are tried in order when CALC_CONFIG is unset.
var defaultPaths = []string{
	"./calculator.toml",
	"./configs/calculator.toml",
	"./calculator.yaml",
	"./configs/calculator.yaml",
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a TOML or YAML file, chosen by extension, and applies defaults.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads .env, then the file named by CALC_CONFIG or the first
// default path that exists, then applies environment overrides. A missing
// file is not an error; defaults are used instead.
func LoadFromEnv() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	path := os.Getenv(Env)
	if path == "" {
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 10 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 30 * time.Second
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 5 * time.Second
	}

	if c.Telemetry.LogLevel == "" {
		c.Telemetry.LogLevel = "info"
	}
	enabled := true
	if c.Telemetry.Tracing == nil {
		c.Telemetry.Tracing = &enabled
	}
	if c.Telemetry.Metrics == nil {
		c.Telemetry.Metrics = &enabled
	}
	if c.Telemetry.Logs == nil {
		disabled := false
		c.Telemetry.Logs = &disabled
	}

	if c.Calculator.Precision == 0 {
		c.Calculator.Precision = 64
	}
	if c.Calculator.SessionTTL.Duration == 0 {
		c.Calculator.SessionTTL.Duration = 30 * time.Minute
	}
	if c.Calculator.SweepInterval.Duration == 0 {
		c.Calculator.SweepInterval.Duration = time.Minute
	}
	if c.Calculator.MaxSessions == 0 {
		c.Calculator.MaxSessions = 10000
	}
}

// applyEnv overrides file values with CALC_* and OTEL_SERVICE_NAME variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("CALC_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CALC_LOG_LEVEL"); v != "" {
		c.Telemetry.LogLevel = v
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
	if v := os.Getenv("CALC_PRECISION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CALC_PRECISION: %w", err)
		}
		c.Calculator.Precision = n
	}
	if v := os.Getenv("CALC_TELEMETRY"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CALC_TELEMETRY: %w", err)
		}
		c.Telemetry.Tracing, c.Telemetry.Metrics, c.Telemetry.Logs = &on, &on, &on
	}
	return nil
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Telemetry.LogLevel); err != nil {
		return fmt.Errorf("telemetry.log_level: %w", err)
	}
	if c.Calculator.Precision < 1 {
		return fmt.Errorf("calculator.precision must be positive, got %d", c.Calculator.Precision)
	}
	if _, err := c.CurrencyRates(); err != nil {
		return err
	}
	return nil
}

// CurrencyRates converts the currency section into registry overrides.
func (c *Config) CurrencyRates() ([]units.CurrencyRate, error) {
	out := make([]units.CurrencyRate, 0, len(c.Currencies))
	for i, cur := range c.Currencies {
		rate, err := decimal.NewFromString(strings.TrimSpace(cur.Rate))
		if err != nil {
			return nil, fmt.Errorf("currencies[%d] (%s): rate: %w", i, cur.Code, err)
		}
		precision := units.KeepPrecision
		if cur.Precision != nil {
			if *cur.Precision < 0 {
				return nil, fmt.Errorf("currencies[%d] (%s): negative precision", i, cur.Code)
			}
			precision = *cur.Precision
		}
		out = append(out, units.CurrencyRate{
			Code:      cur.Code,
			Title:     cur.Title,
			Rate:      rate,
			Precision: precision,
		})
	}
	return out, nil
}

// Registry builds the unit registry with the configured currency overrides.
func (c *Config) Registry() (*units.Registry, error) {
	rates, err := c.CurrencyRates()
	if err != nil {
		return nil, err
	}
	reg, err := units.NewRegistry(rates...)
	if err != nil {
		return nil, fmt.Errorf("building unit registry: %w", err)
	}
	return reg, nil
}

// Enabled dereferences an optional switch.
func Enabled(b *bool) bool {
	return b != nil && *b
}
