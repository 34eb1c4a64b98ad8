package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "guru.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouter.BaseURL)
	assert.Empty(t, cfg.OpenRouter.Key)

	assert.Equal(t, "google/gemini-2.0-flash-exp:free", cfg.AI.ScoreModels[0])
	assert.Len(t, cfg.AI.ScoreModels, 6)
	assert.Len(t, cfg.AI.ChatModels, 4)
	assert.Len(t, cfg.AI.GoalModels, 4)
	assert.Equal(t, 1000, cfg.AI.BackoffMillis)
	assert.Equal(t, 30, cfg.AI.AttemptTimeoutSecs)
	assert.Equal(t, 120, cfg.AI.RequestTimeoutSecs)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GURU_SERVER_PORT", "9090")
	t.Setenv("GURU_OPENROUTER_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.OpenRouter.Key)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope"}))
}
