package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "classic", cfg.Board)
	assert.Empty(t, cfg.BoardsFile)
	assert.Equal(t, 800*time.Millisecond, cfg.RedirectDelay)
	assert.False(t, cfg.Immediate)
	assert.Equal(t, [2]string{"Player 1", "Player 2"}, cfg.Names())
	assert.Zero(t, cfg.DiceSeed)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Dev)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SNAKES_ADDR", "127.0.0.1:9000")
	t.Setenv("SNAKES_BOARD", "short-ladders")
	t.Setenv("SNAKES_BOARDS_FILE", "configs/boards.yaml")
	t.Setenv("SNAKES_REDIRECT_DELAY", "250ms")
	t.Setenv("SNAKES_IMMEDIATE", "true")
	t.Setenv("SNAKES_PLAYER_NAMES", "Nida, Ivan")
	t.Setenv("SNAKES_DICE_SEED", "42")
	t.Setenv("SNAKES_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	t.Setenv("SNAKES_LOG_LEVEL", "debug")
	t.Setenv("SNAKES_DEV", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "short-ladders", cfg.Board)
	assert.Equal(t, "configs/boards.yaml", cfg.BoardsFile)
	assert.Equal(t, 250*time.Millisecond, cfg.RedirectDelay)
	assert.True(t, cfg.Immediate)
	assert.Equal(t, [2]string{"Nida", "Ivan"}, cfg.Names())
	assert.Equal(t, int64(42), cfg.DiceSeed)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Dev)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"unparseable delay": {"SNAKES_REDIRECT_DELAY", "soon"},
		"negative delay":    {"SNAKES_REDIRECT_DELAY", "-1s"},
		"one player":        {"SNAKES_PLAYER_NAMES", "Solo"},
		"bad seed":          {"SNAKES_DICE_SEED", "abc"},
		"bad immediate":     {"SNAKES_IMMEDIATE", "sometimes"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestZeroDelayIsAllowed(t *testing.T) {
	t.Setenv("SNAKES_REDIRECT_DELAY", "0s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.RedirectDelay)
}

func TestVariant(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	v, err := cfg.Variant()
	require.NoError(t, err)
	assert.Equal(t, "classic", v.Name)

	cfg.Board = "short-ladders"
	_, err = cfg.Variant()
	assert.Error(t, err)

	cfg.BoardsFile = "../configs/boards.yaml"
	v, err = cfg.Variant()
	require.NoError(t, err)
	assert.Equal(t, "short-ladders", v.Name)
	assert.Equal(t, 25, v.Ladders[4])

	cfg.BoardsFile = "missing.yaml"
	_, err = cfg.Variant()
	assert.Error(t, err)
}
