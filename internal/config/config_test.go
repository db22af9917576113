package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "portalwm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	c, err := Load("", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 60, c.GetInt("framerate", -1))
	assert.Equal(t, "adaptive", c.GetStr("theme", ""))
	assert.Equal(t, 6, c.GetInt("tile_gap", -1))
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := writeTempConfig(t, "framerate: 30\ntheme: dark\n")
	c, err := Load(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 30, c.GetInt("framerate", -1))
	assert.Equal(t, "dark", c.GetStr("theme", ""))
}

func TestWorkspaceShortcutKeysHaveDefaults(t *testing.T) {
	c, err := Load("", zerolog.Nop())
	require.NoError(t, err)
	for n := 1; n <= 6; n++ {
		key := "go_to_workspace_" + itoa(n) + "_shortcut"
		assert.Emptyf(t, c.GetStr(key, "missing"), "default for %s", key)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

func TestNonCoreFiltersFramerateAndTileGap(t *testing.T) {
	got := nonCore([]string{"framerate", "theme", "tile_gap", "terminal_command"})
	assert.ElementsMatch(t, []string{"theme", "terminal_command"}, got)
}
