// Package config loads the service configuration from YAML and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"heartrisk/ml"
)

// Config is the service configuration.
type Config struct {
	HTTP struct {
		Port           int           `yaml:"port"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"http"`
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
	Log struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`
	Locale struct {
		Default   string `yaml:"default"`
		CacheSize int    `yaml:"cache_size"`
	} `yaml:"locale"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.HTTP.Port = 8080
	c.HTTP.ReadTimeout = 15 * time.Second
	c.HTTP.WriteTimeout = 15 * time.Second
	c.HTTP.RequestTimeout = 10 * time.Second
	c.HTTP.AllowedOrigins = []string{"*"}
	c.HTTP.MaxBodyBytes = 64 << 10
	c.Model.Path = ml.DefaultModelPath
	c.Log.Level = "info"
	c.Log.Format = "json"
	c.Log.MaxSizeMB = 100
	c.Log.MaxBackups = 5
	c.Log.MaxAgeDays = 30
	c.Locale.Default = "en"
	c.Locale.CacheSize = 256
	return c
}

// Load reads path over the defaults and applies HEARTRISK_* environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	config.LoadFromEnv("HEARTRISK")
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromEnv applies <prefix>_* environment overrides.
func (c *Config) LoadFromEnv(prefix string) {
	if port := os.Getenv(prefix + "_PORT"); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			c.HTTP.Port = v
		}
	}
	if origins := os.Getenv(prefix + "_ALLOWED_ORIGINS"); origins != "" {
		c.HTTP.AllowedOrigins = strings.Split(origins, ",")
	}
	if path := os.Getenv(prefix + "_MODEL_PATH"); path != "" {
		c.Model.Path = path
	}
	if level := os.Getenv(prefix + "_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv(prefix + "_LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}
	if file := os.Getenv(prefix + "_LOG_FILE"); file != "" {
		c.Log.File = file
	}
	if locale := os.Getenv(prefix + "_LOCALE"); locale != "" {
		c.Locale.Default = locale
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.HTTP.RequestTimeout < 0 {
		return errors.New("http.request_timeout must not be negative")
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return errors.New("http.max_body_bytes must be positive")
	}
	if c.Model.Path == "" {
		return errors.New("model.path is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format %q must be json or console", c.Log.Format)
	}
	if c.Locale.CacheSize <= 0 {
		return errors.New("locale.cache_size must be positive")
	}
	return nil
}
