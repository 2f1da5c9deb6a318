package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"LEVELS_FILE", "TICK_INTERVAL", "MESSAGE_HOLD", "AUDIO_ENABLED",
		"SPECTATOR_ADDR", "SPECTATOR_EVERY", "DATABASE_URL",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "", cfg.LevelsFile)
	assert.Equal(t, time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 2*time.Second, cfg.MessageHold)
	assert.True(t, cfg.AudioEnabled)
	assert.Equal(t, "", cfg.SpectatorAddr)
	assert.Equal(t, 50, cfg.SpectatorEvery)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "mazechase.log", cfg.LogFile)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "5ms")
	t.Setenv("AUDIO_ENABLED", "false")
	t.Setenv("SPECTATOR_ADDR", ":9090")
	t.Setenv("SPECTATOR_EVERY", "10")

	cfg := Load()
	assert.Equal(t, 5*time.Millisecond, cfg.TickInterval)
	assert.False(t, cfg.AudioEnabled)
	assert.Equal(t, ":9090", cfg.SpectatorAddr)
	assert.Equal(t, 10, cfg.SpectatorEvery)
}

func TestGetEnv_InvalidFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T)
	}{
		{"int", "MC_TEST_INT", "ten", func(t *testing.T) {
			assert.Equal(t, 7, getEnvInt("MC_TEST_INT", 7))
		}},
		{"bool", "MC_TEST_BOOL", "maybe", func(t *testing.T) {
			assert.True(t, getEnvBool("MC_TEST_BOOL", true))
		}},
		{"duration", "MC_TEST_DUR", "soon", func(t *testing.T) {
			assert.Equal(t, time.Second, getEnvDuration("MC_TEST_DUR", time.Second))
		}},
		{"negative duration", "MC_TEST_DUR", "-3s", func(t *testing.T) {
			assert.Equal(t, time.Second, getEnvDuration("MC_TEST_DUR", time.Second))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			tt.check(t)
		})
	}
}
