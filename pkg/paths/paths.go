package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/cfgswap/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for cfgswap
	EnvDataDir = "CFGSWAP_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for cfgswap
	EnvConfigDir = "CFGSWAP_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for cfgswap
	EnvStateDir = "CFGSWAP_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: These constants define cfgswap's on-disk layout and are NOT
// user-configurable. User-configurable values belong in pkg/config.
const (
	// AppDirName is the directory name used under each XDG base directory
	AppDirName = "cfgswap"

	// ProfilesDirName holds one directory per profile, named by profile id
	ProfilesDirName = "profiles"

	// RegistryFileName is the serialized profile registry
	RegistryFileName = "profiles.yaml"

	// SettingsFileName is the optional user settings file
	SettingsFileName = "cfgswap.toml"

	// StateFileName persists the install path and active profile
	StateFileName = "state.toml"

	// LogFileName is the name of the log file
	LogFileName = "cfgswap.log"
)

// Paths provides centralized path management for cfgswap
type Paths interface {
	DataDir() string
	ConfigDir() string
	StateDir() string
	ProfilesDir() string
	ProfileDir(id string) string
	RegistryPath() string
	SettingsPath() string
	StatePath() string
	LogFilePath() string
}

type paths struct {
	dataDir   string
	configDir string
	stateDir  string
}

// New creates a Paths instance rooted at the XDG directories, respecting
// the CFGSWAP_*_DIR overrides.
func New() (Paths, error) {
	p := &paths{
		dataDir:   dirFromEnv(EnvDataDir, xdg.DataHome),
		configDir: dirFromEnv(EnvConfigDir, xdg.ConfigHome),
		stateDir:  dirFromEnv(EnvStateDir, xdg.StateHome),
	}

	for _, dir := range []*string{&p.dataDir, &p.configDir, &p.stateDir} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", *dir)
		}
		*dir = abs
	}

	return p, nil
}

// NewWithRoots creates a Paths instance with explicit directories. It is
// meant for tests and for hosts that manage their own layout.
func NewWithRoots(dataDir, configDir, stateDir string) Paths {
	return &paths{
		dataDir:   dataDir,
		configDir: configDir,
		stateDir:  stateDir,
	}
}

func dirFromEnv(env, xdgBase string) string {
	if dir := os.Getenv(env); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdgBase, AppDirName)
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

// DataDir returns the data directory for cfgswap
func (p *paths) DataDir() string {
	return p.dataDir
}

// ConfigDir returns the config directory for cfgswap
func (p *paths) ConfigDir() string {
	return p.configDir
}

// StateDir returns the state directory for cfgswap
func (p *paths) StateDir() string {
	return p.stateDir
}

// ProfilesDir returns the root holding all profile directories
func (p *paths) ProfilesDir() string {
	return filepath.Join(p.dataDir, ProfilesDirName)
}

// ProfileDir returns the directory owned by the profile with the given id
func (p *paths) ProfileDir(id string) string {
	return filepath.Join(p.ProfilesDir(), id)
}

// RegistryPath returns the path of the profile registry file
func (p *paths) RegistryPath() string {
	return filepath.Join(p.dataDir, RegistryFileName)
}

// SettingsPath returns the path of the optional settings file
func (p *paths) SettingsPath() string {
	return filepath.Join(p.configDir, SettingsFileName)
}

// StatePath returns the path of the persisted process state
func (p *paths) StatePath() string {
	return filepath.Join(p.configDir, StateFileName)
}

// LogFilePath returns the path to the log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}
