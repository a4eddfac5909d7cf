package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/cfgswap/pkg/types"
)

// WriteFileAtomic replaces path with data so that readers observe either
// the previous content or the new content, never a partial write.
func WriteFileAtomic(fsys types.FS, path string, data []byte, perm fs.FileMode) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	// Write to temp file first, then rename for atomicity
	tmpFile := path + ".tmp"
	if err := fsys.WriteFile(tmpFile, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpFile, err)
	}

	if err := fsys.Rename(tmpFile, path); err != nil {
		_ = fsys.Remove(tmpFile)
		return fmt.Errorf("failed to rename %s: %w", tmpFile, err)
	}

	return nil
}
