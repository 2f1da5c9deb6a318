package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	LevelsFile     string
	TickInterval   time.Duration
	MessageHold    time.Duration
	AudioEnabled   bool
	SpectatorAddr  string
	SpectatorEvery int
	DatabaseURL    string
	LogLevel       string
	LogFormat      string
	LogFile        string
}

func Load() *Config {
	return &Config{
		LevelsFile:     getEnv("LEVELS_FILE", ""),
		TickInterval:   getEnvDuration("TICK_INTERVAL", time.Millisecond),
		MessageHold:    getEnvDuration("MESSAGE_HOLD", 2*time.Second),
		AudioEnabled:   getEnvBool("AUDIO_ENABLED", true),
		SpectatorAddr:  getEnv("SPECTATOR_ADDR", ""),
		SpectatorEvery: getEnvInt("SPECTATOR_EVERY", 50),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		LogFile:        getEnv("LOG_FILE", "mazechase.log"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
