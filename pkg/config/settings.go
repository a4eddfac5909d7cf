package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. Sections and keys are
// separated by a double underscore: CFGSWAP_GAME__CONFIG_DIR.
const EnvPrefix = "CFGSWAP_"

// Settings holds the user-tunable configuration.
type Settings struct {
	Game     GameSettings    `koanf:"game"`
	Profiles ProfileSettings `koanf:"profiles"`
}

// GameSettings describes the layout of the managed application's
// installation. Paths are relative to the installation root and use
// forward slashes.
type GameSettings struct {
	Executable string `koanf:"executable"`
	ConfigDir  string `koanf:"config_dir"`
	Launcher   string `koanf:"launcher"`
}

// ProfileSettings holds profile naming defaults.
type ProfileSettings struct {
	BackupName string `koanf:"backup_name"`
	NewName    string `koanf:"new_name"`
	ImportName string `koanf:"import_name"`
}

// Defaults returns the embedded default settings.
func Defaults() (*Settings, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	return unmarshal(k)
}

// LoadSettings loads settings from, in increasing priority: the embedded
// defaults, the TOML file at settingsPath (skipped if missing), and
// CFGSWAP_ environment variables.
func LoadSettings(settingsPath string) (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Settings file if it exists
	if settingsPath != "" {
		if _, err := os.Stat(settingsPath); err == nil {
			if err := k.Load(file.Provider(settingsPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", settingsPath).
					WithDetail("path", settingsPath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat settings file %s", settingsPath).
				WithDetail("path", settingsPath)
		}
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*Settings, error) {
	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"game.executable", s.Game.Executable},
		{"game.config_dir", s.Game.ConfigDir},
		{"profiles.backup_name", s.Profiles.BackupName},
		{"profiles.new_name", s.Profiles.NewName},
		{"profiles.import_name", s.Profiles.ImportName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.Newf(errors.ErrConfigParse, "setting %s must not be empty", r.key).
				WithDetail("key", r.key)
		}
	}
	return nil
}
