package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "crossfade_ms: 25\nword_pause_ms: 200\nprint_units: true\n# a comment\n\nremove_dc_offset: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, float32(25), cfg.CrossfadeMs)
	assert.Equal(t, float32(200), cfg.WordPauseMs)
	assert.True(t, cfg.PrintUnits)
	assert.False(t, cfg.RemoveDCOffset)
	assert.Equal(t, float32(45.0), cfg.CrossfadeVowelMs, "unrelated fields keep their default")
}
