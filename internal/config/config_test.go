package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PLUMP_DB", "")
	t.Setenv("PLUMP_REVEAL_MS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./plump.db", cfg.DBPath)
	assert.Equal(t, 3*time.Second, cfg.RevealWindow)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("PLUMP_DB", "/tmp/x.db")
	t.Setenv("PLUMP_REVEAL_MS", "250")

	cfg := Load()
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, 250*time.Millisecond, cfg.RevealWindow)
}

func TestLoadIgnoresBadRevealWindow(t *testing.T) {
	t.Setenv("PLUMP_REVEAL_MS", "soon")
	cfg := Load()
	assert.Equal(t, 3*time.Second, cfg.RevealWindow)
}
