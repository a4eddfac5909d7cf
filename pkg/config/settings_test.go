// pkg/config/settings_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real temp files, environment
// PURPOSE: Test layered settings loading (defaults, file, env)

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cfgswap/pkg/config"
	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s, err := config.Defaults()
	require.NoError(t, err)

	assert.Equal(t, "Binaries/APB.exe", s.Game.Executable)
	assert.Equal(t, "APBGame/Config", s.Game.ConfigDir)
	assert.Equal(t, "Advanced APB Launcher.exe", s.Game.Launcher)
	assert.Equal(t, "Backup", s.Profiles.BackupName)
	assert.Equal(t, "New Profile", s.Profiles.NewName)
	assert.Equal(t, "Imported Profile", s.Profiles.ImportName)
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	s, err := config.LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "APBGame/Config", s.Game.ConfigDir)
}

func TestLoadSettings_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfgswap.toml")
	content := `
[game]
executable = "bin/game"
config_dir = "settings"

[profiles]
backup_name = "Original"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "bin/game", s.Game.Executable)
	assert.Equal(t, "settings", s.Game.ConfigDir)
	assert.Equal(t, "Original", s.Profiles.BackupName)
	assert.Equal(t, "New Profile", s.Profiles.NewName, "untouched keys keep their defaults")
}

func TestLoadSettings_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfgswap.toml")
	require.NoError(t, os.WriteFile(path, []byte("[game]\nconfig_dir = \"from-file\"\n"), 0644))
	t.Setenv("CFGSWAP_GAME__CONFIG_DIR", "from-env")

	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", s.Game.ConfigDir)
}

func TestLoadSettings_Invalid(t *testing.T) {
	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfgswap.toml")
		require.NoError(t, os.WriteFile(path, []byte("[game\nexecutable = "), 0644))

		_, err := config.LoadSettings(path)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("empty required value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfgswap.toml")
		require.NoError(t, os.WriteFile(path, []byte("[game]\nexecutable = \"\"\n"), 0644))

		_, err := config.LoadSettings(path)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
		assert.Equal(t, "game.executable", errors.GetErrorDetails(err)["key"])
	})
}
