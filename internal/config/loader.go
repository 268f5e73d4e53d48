package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// CORS controls cross-origin access for browser clients.
type CORS struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are filled by Defaults.
type Config struct {
	Addr            string   `json:"addr" yaml:"addr" toml:"addr"`
	Root            string   `json:"root" yaml:"root" toml:"root"`
	ModelName       string   `json:"model_name" yaml:"model_name" toml:"model_name"`
	LogLevel        string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat       string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	LogFile         string   `json:"log_file" yaml:"log_file" toml:"log_file"`
	MaxBodyBytes    int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CacheSize       int      `json:"cache_size" yaml:"cache_size" toml:"cache_size"`
	ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	CORS            CORS     `json:"cors" yaml:"cors" toml:"cors"`
}

const (
	DefaultAddr            = ":8000"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultMaxBodyBytes    = 1 << 20
	DefaultShutdownTimeout = 5 * time.Second
)

// Duration decodes "5s"-style strings in every supported format.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults fills unset fields.
func (c *Config) Defaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Root == "" {
		c.Root = "."
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}
}

// ApplyEnv overrides fields from IRISD_* variables. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("IRISD_ADDR"); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup("IRISD_ROOT"); ok && v != "" {
		c.Root = v
	}
	if v, ok := lookup("IRISD_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup("IRISD_CACHE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("IRISD_CACHE_SIZE: %w", err)
		}
		c.CacheSize = n
	}
	return nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", c.LogFormat)
	}
	if c.ModelName != "" && filepath.Base(c.ModelName) != c.ModelName {
		return fmt.Errorf("model_name must be a bare file name, got %q", c.ModelName)
	}
	if c.MaxBodyBytes < 0 {
		return errors.New("max_body_bytes must not be negative")
	}
	if c.CacheSize < 0 {
		return errors.New("cache_size must not be negative")
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("shutdown_timeout must not be negative")
	}
	if c.CORS.Enabled && len(c.CORS.Origins) == 0 {
		return errors.New("cors.origins required when cors.enabled is set")
	}
	return nil
}
