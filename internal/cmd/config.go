package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the client configuration, loaded from an optional YAML file with
// environment-variable overrides on top.
type Config struct {
	ServerURL        string `yaml:"server_url"`
	RoomCode         string `yaml:"room_code"`
	DisplayName      string `yaml:"display_name"`
	TurnSeconds      int    `yaml:"turn_seconds"`
	ReconnectDelayMS int    `yaml:"reconnect_delay_ms"`
	ListenAddr       string `yaml:"listen_addr"`
	ProfileDB        string `yaml:"profile_db"`
}

func defaultConfig() Config {
	return Config{
		ServerURL:        "ws://localhost:8080",
		TurnSeconds:      20,
		ReconnectDelayMS: 2000,
		ListenAddr:       ":8090",
		ProfileDB:        "tablewire.db",
	}
}

func loadConfig(path string) (Config, error) {
	config := defaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	config.ServerURL = getEnv("TABLEWIRE_SERVER_URL", config.ServerURL)
	config.RoomCode = getEnv("TABLEWIRE_ROOM", config.RoomCode)
	config.DisplayName = getEnv("TABLEWIRE_NAME", config.DisplayName)
	config.TurnSeconds = getEnvAsInt("TABLEWIRE_TURN_SECONDS", config.TurnSeconds)
	config.ReconnectDelayMS = getEnvAsInt("TABLEWIRE_RECONNECT_DELAY_MS", config.ReconnectDelayMS)
	config.ListenAddr = getEnv("TABLEWIRE_LISTEN_ADDR", config.ListenAddr)
	config.ProfileDB = getEnv("TABLEWIRE_PROFILE_DB", config.ProfileDB)

	return config, nil
}

// ReconnectDelay returns the reconnect delay as a duration
func (c Config) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelayMS) * time.Millisecond
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
