package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclassical/league-engine/scoring"
)

func TestLoadScoringPresetsBuiltins(t *testing.T) {
	presets, err := LoadScoringPresets("")
	require.NoError(t, err)

	assert.Equal(t, scoring.Standard, presets["standard"])
	assert.Equal(t, scoring.ThreeOneZero, presets["three_one_zero"])
	assert.Equal(t, scoring.Football, presets["football"])
}

func TestLoadScoringPresetsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	content := `
rapid:
  game_win_points: 1.0
  game_draw_points: 0.5
  match_win_points: 2
  match_draw_points: 1
  bye_match_points: 1
  bye_game_points_factor: 0.5
standard:
  game_win_points: 2.0
  match_win_points: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	presets, err := LoadScoringPresets(path)
	require.NoError(t, err)

	rapid := presets["rapid"]
	assert.Equal(t, 1.0, rapid.GameWinPoints)
	assert.Equal(t, 2, rapid.MatchWinPoints)

	// File entries override builtins.
	assert.Equal(t, 2.0, presets["standard"].GameWinPoints)
	assert.Equal(t, 4, presets["standard"].MatchWinPoints)
}

func TestLoadScoringPresetsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o600))

	_, err := LoadScoringPresets(path)
	assert.Error(t, err)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "secret")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/league")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("TOKEN_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "24h0m0s", cfg.TokenTTL.String())
	assert.False(t, cfg.SnapshotsEnabled())
}
