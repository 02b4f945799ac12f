package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`
	Feed struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
		Token   string `yaml:"token"`
		GameID  string `yaml:"game_id"`
	} `yaml:"feed"`
}

func defaultConfig() *Config {
	var config Config
	config.Server.Port = "8080"
	config.Log.Level = "info"
	return &config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	config := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Environment overrides
	config.Server.Port = getEnv("PORT", config.Server.Port)
	config.Log.Level = getEnv("LOG_LEVEL", config.Log.Level)
	config.Feed.Token = getEnv("FEED_TOKEN", config.Feed.Token)

	return config, nil
}
