package install

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cfgswap/pkg/config"
	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/types"
)

// Layout holds installation-relative paths using forward slashes.
type Layout struct {
	Executable string
	ConfigRel  string
	Launcher   string
}

// FromSettings builds a Layout from the game settings.
func FromSettings(s config.GameSettings) Layout {
	return Layout{
		Executable: s.Executable,
		ConfigRel:  s.ConfigDir,
		Launcher:   s.Launcher,
	}
}

// ExecutablePath returns the absolute executable path under root.
func (l Layout) ExecutablePath(root string) string {
	return join(root, l.Executable)
}

// ConfigDir returns the redirected configuration directory under root.
func (l Layout) ConfigDir(root string) string {
	return join(root, l.ConfigRel)
}

// LauncherPath returns the launcher path under root, or "" when no
// launcher is configured.
func (l Layout) LauncherPath(root string) string {
	if strings.TrimSpace(l.Launcher) == "" {
		return ""
	}
	return join(root, l.Launcher)
}

// IsValid reports whether root holds an installation: the executable
// must exist and be a regular file.
func (l Layout) IsValid(fs types.FS, root string) bool {
	if strings.TrimSpace(root) == "" {
		return false
	}
	info, err := fs.Stat(l.ExecutablePath(root))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Validate is IsValid returning an InvalidGamePath error with the offending
// path attached.
func (l Layout) Validate(fs types.FS, root string) error {
	if l.IsValid(fs, root) {
		return nil
	}
	return errors.Newf(errors.ErrInvalidGamePath, "%q is not a valid installation: %s not found", root, l.Executable).
		WithDetail("path", root).
		WithDetail("executable", l.Executable)
}

func join(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
