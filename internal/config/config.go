package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Models   ModelConfig    `yaml:"models"`
	Forecast ForecastConfig `yaml:"forecast"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
}

type ModelConfig struct {
	MinTrainingSamples int     `yaml:"min_training_samples"`
	MinChurnVisitors   int     `yaml:"min_churn_visitors"`
	HoldoutFraction    float64 `yaml:"holdout_fraction"`
	MetricsWindowDays  int     `yaml:"metrics_window_days"`
	TrainingWindowDays int     `yaml:"training_window_days"`
	Epochs             int     `yaml:"epochs"`
	LearningRate       float64 `yaml:"learning_rate"`
}

type ForecastConfig struct {
	DefaultHorizonDays int `yaml:"default_horizon_days"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8080,
			LogLevel: "info",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "insight",
			User:     "insight",
			SSLMode:  "disable",
		},
		Models: ModelConfig{
			MinTrainingSamples: 100,
			MinChurnVisitors:   50,
			HoldoutFraction:    0.2,
			MetricsWindowDays:  90,
			TrainingWindowDays: 180,
		},
		Forecast: ForecastConfig{
			DefaultHorizonDays: 7,
		},
	}
}

// Load reads a YAML config file on top of the defaults, then applies
// environment overrides. An empty path skips the file step.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - operator-provided path
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	LoadFromEnv(cfg)
	return cfg, nil
}
