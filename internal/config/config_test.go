package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVELOPEDESK_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.ESign.Simulate)
	require.False(t, cfg.Admin.Enabled)
	require.Equal(t, "ENVELOPEDESK_ADMIN", cfg.Admin.UserEnv)
	require.Equal(t, 6, cfg.UI.ResultLimit)
	require.NotEmpty(t, cfg.Database.Path)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("ENVELOPEDESK_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.UI.Timezone = "Australia/Melbourne"
	cfg.ESign.FailWith = "always down"
	cfg.Admin.Enabled = true
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Australia/Melbourne", got.UI.Timezone)
	require.Equal(t, "always down", got.ESign.FailWith)
	require.True(t, got.Admin.Enabled)
}
