package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RANKEVAL_SERVER_ID", "")
	t.Setenv("BATTLEMETRICS_SERVER_ID", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "66af4fbe9dd0740a80453310", cfg.RankEval.ServerID)
	assert.Equal(t, "Leaderboard", cfg.RankEval.Type)
	assert.Equal(t, "15096801", cfg.BattleMetrics.ServerID)
	assert.True(t, cfg.EnrichmentEnabled)
	assert.NotNil(t, cfg.Location)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
server_port: "9090"
rankeval:
  server_id: "from-file"
battlemetrics:
  server_id: "42"
enrichment_enabled: false
allowed_origins: ["https://a.example"]
display_timezone: "UTC"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RANKEVAL_SERVER_ID", "from-env")
	t.Setenv("ALLOWED_ORIGINS", "https://b.example, https://c.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "from-env", cfg.RankEval.ServerID)
	assert.Equal(t, "42", cfg.BattleMetrics.ServerID)
	assert.False(t, cfg.EnrichmentEnabled)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad bool", "ENRICHMENT_ENABLED", "sometimes"},
		{"bad rps", "RATE_LIMIT_RPS", "fast"},
		{"bad burst", "RATE_LIMIT_BURST", "-"},
		{"negative rps", "RATE_LIMIT_RPS", "-1"},
		{"bad timezone", "DISPLAY_TIMEZONE", "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
