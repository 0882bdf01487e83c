package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/bingo-hall/game"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "DATABASE_URL", "REDIS_URL", "REDIS_CHANNEL", "ALLOWED_ORIGINS",
		"RULES_FILE", "RATE_LIMIT", "RATE_BURST", "DRAW_INTERVAL", "COUNTDOWN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, game.DefaultRules().DrawInterval, cfg.Rules.DrawInterval)
	assert.Equal(t, 48, cfg.Rules.TotalBalls)
}

func TestLoadEnvAndFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "http://a.local, http://b.local")
	t.Setenv("DRAW_INTERVAL", "3")
	t.Setenv("COUNTDOWN", "45s")

	cfg, err := Load([]string{"--port", "9090", "--countdown", "10s"})
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port, "flags win over the environment")
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Rules.DrawInterval)
	assert.Equal(t, 10*time.Second, cfg.Rules.Countdown)
}

func TestLoadBadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRAW_INTERVAL", "soon")
	_, err := Load(nil)
	assert.Error(t, err)
}

func TestLoadRulesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_draws: 25
draw_interval: 4s
prices:
  6: 2.5
  7: 3
prizes:
  5: 20
  6: 40
`), 0o600))
	t.Setenv("RULES_FILE", path)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Rules.MaxDraws)
	assert.Equal(t, 4*time.Second, cfg.Rules.DrawInterval)
	assert.Equal(t, 10, cfg.Rules.BonusThreshold, "absent keys keep defaults")
	assert.True(t, cfg.Rules.Prices[6].Equal(decimal.RequireFromString("2.5")))
	assert.Len(t, cfg.Rules.Prices, 2)
	assert.Equal(t, game.PrizeTable{5: 20, 6: 40}, cfg.Rules.Prizes)
}

func TestParseRulesRejectsBadYAML(t *testing.T) {
	_, err := ParseRules([]byte("max_draws: [1"), game.DefaultRules())
	assert.Error(t, err)
}

func TestValidateRules(t *testing.T) {
	assert.NoError(t, ValidateRules(game.DefaultRules()))

	r := game.DefaultRules()
	r.MinSetSize = 12
	assert.Error(t, ValidateRules(r))

	r = game.DefaultRules()
	r.MaxDraws = 48
	assert.Error(t, ValidateRules(r))

	r = game.DefaultRules()
	r.Prices = game.PriceTable{6: decimal.Zero}
	assert.Error(t, ValidateRules(r))

	// a winner below the lowest tier would be paid nothing
	r = game.DefaultRules()
	r.WinThreshold = 4
	assert.ErrorContains(t, ValidateRules(r), "win_threshold 4 is below the lowest prize tier 5")

	r = game.DefaultRules()
	r.WinThreshold = 6
	assert.NoError(t, ValidateRules(r))
}
