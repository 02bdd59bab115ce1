package config

import (
	"os"
	"strconv"
)

// LoadFromEnv applies INSIGHT_* environment overrides on top of cfg.
func LoadFromEnv(cfg *Config) {
	if port := os.Getenv("INSIGHT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if level := os.Getenv("INSIGHT_LOG_LEVEL"); level != "" {
		cfg.Server.LogLevel = level
	}

	if host := os.Getenv("INSIGHT_DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("INSIGHT_DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Database.Port = p
		}
	}
	if name := os.Getenv("INSIGHT_DB_NAME"); name != "" {
		cfg.Database.Database = name
	}
	if user := os.Getenv("INSIGHT_DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if password := os.Getenv("INSIGHT_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}

	if samples := os.Getenv("INSIGHT_MIN_TRAINING_SAMPLES"); samples != "" {
		if n, err := strconv.Atoi(samples); err == nil {
			cfg.Models.MinTrainingSamples = n
		}
	}
}
