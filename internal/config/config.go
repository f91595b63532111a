package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvToken    = "PROMPTIMG_TOKEN"
	EnvLogLevel = "PROMPTIMG_LOG_LEVEL"
)

type Config struct {
	Port       string `yaml:"port"`
	Token      string `yaml:"token"`
	LogLevel   string `yaml:"log_level"`
	LocalesDir string `yaml:"locales_dir"` // empty means the built-in locales
	Language   string `yaml:"language"`
	Fallback   string `yaml:"fallback_language"`

	Debounce time.Duration `yaml:"debounce"`
	Throttle time.Duration `yaml:"throttle"` // zero disables throttling
}

func Default() Config {
	return Config{
		Port:     "8080",
		LogLevel: "info",
		Language: "zh",
		Fallback: "en",
		Debounce: 300 * time.Millisecond,
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative: %s", c.Debounce)
	}
	if c.Throttle < 0 {
		return fmt.Errorf("throttle must not be negative: %s", c.Throttle)
	}
	if c.Port == "" {
		return fmt.Errorf("port required")
	}
	return nil
}
