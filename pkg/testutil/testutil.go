package testutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Default installation layout used by the fakes below. It matches the
// built-in game settings.
const (
	Executable = "Binaries/APB.exe"
	ConfigDir  = "APBGame/Config"
)

// MakeInstall creates a fake installation named name under root/games and
// returns its path. A nil files map leaves the configuration directory
// absent; an empty one creates it empty.
func MakeInstall(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()

	dir := filepath.Join(root, "games", name)
	CreateFile(t, dir, Executable, "MZ")
	if files == nil {
		return dir
	}

	CreateDir(t, dir, ConfigDir)
	for rel, content := range files {
		CreateFile(t, ConfigPath(dir), rel, content)
	}
	return dir
}

// ConfigPath returns the configuration directory of an installation.
func ConfigPath(install string) string {
	return filepath.Join(install, filepath.FromSlash(ConfigDir))
}

// CreateFile creates a file with the given content, creating parents.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// CreateDir creates a directory in the specified parent directory.
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()

	path := filepath.Join(parent, filepath.FromSlash(name))
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}

// ReadFile reads the content of a file and returns it as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// IsSymlink reports whether path is a symbolic link.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// ReadSymlink reads the target of a symbolic link.
func ReadSymlink(t *testing.T, path string) string {
	t.Helper()

	target, err := os.Readlink(path)
	if err != nil {
		t.Fatalf("Failed to read symlink %s: %v", path, err)
	}
	return target
}

// Snapshot records every entry under root without following links, so two
// snapshots differ iff something was created, removed or rewritten.
func Snapshot(t *testing.T, root string) string {
	t.Helper()

	var lines []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := os.Lstat(path)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%s %s %d %d", path, info.Mode(), info.Size(), info.ModTime().UnixNano())
		if info.Mode()&os.ModeSymlink != 0 {
			target, _ := os.Readlink(path)
			line += " -> " + target
		}
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to snapshot %s: %v", root, err)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
