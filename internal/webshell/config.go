package webshell

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairdesk/fairdesk/pkg/config"
)

// Config holds runtime configuration for the web shell. Values come from
// an optional YAML file, overridden by environment variables.
type Config struct {
	Port       int    `yaml:"port"`
	StaticDir  string `yaml:"static_dir"`
	APIBaseURL string `yaml:"api_url"`
	LogLevel   string `yaml:"log_level"`
}

// Load builds the shell configuration. An empty path skips the file and
// uses defaults plus environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:       3000,
		StaticDir:  "./build",
		APIBaseURL: "http://localhost:3001",
		LogLevel:   "info",
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.Port = config.GetInt("PORT", cfg.Port)
	cfg.StaticDir = config.GetString("STATIC_DIR", cfg.StaticDir)
	cfg.APIBaseURL = config.GetString("API_URL", cfg.APIBaseURL)
	cfg.LogLevel = config.GetString("LOG_LEVEL", cfg.LogLevel)
	return cfg, nil
}
