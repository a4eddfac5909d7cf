package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/install"
	"github.com/arthur-debert/cfgswap/pkg/logging"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Lookup answers whether a profile id is registered.
type Lookup interface {
	ExistsByID(id uuid.UUID) bool
}

// Store manages profile directories.
type Store struct {
	fs     types.FS
	root   string
	lookup Lookup
	layout install.Layout
	logger zerolog.Logger
}

// New creates a Store rooted at profilesDir.
func New(fs types.FS, profilesDir string, lookup Lookup, layout install.Layout) *Store {
	return &Store{
		fs:     fs,
		root:   profilesDir,
		lookup: lookup,
		layout: layout,
		logger: logging.GetLogger("store"),
	}
}

// Root returns the profiles root directory.
func (s *Store) Root() string {
	return s.root
}

// DirFor returns where the directory for id lives, whether or not the id
// is registered.
func (s *Store) DirFor(id uuid.UUID) string {
	return filepath.Join(s.root, id.String())
}

// PathFor returns the directory of a registered profile.
func (s *Store) PathFor(id uuid.UUID) (string, error) {
	if !s.lookup.ExistsByID(id) {
		return "", errors.Newf(errors.ErrProfileNotFound, "profile %s not found", id).
			WithDetail("profile_id", id.String())
	}
	return s.DirFor(id), nil
}

// Exists reports whether the directory for id exists.
func (s *Store) Exists(id uuid.UUID) bool {
	info, err := s.fs.Stat(s.DirFor(id))
	return err == nil && info.IsDir()
}

// CreateDirectory creates the (empty) directory for id.
func (s *Store) CreateDirectory(id uuid.UUID) error {
	dir := s.DirFor(id)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to create profile directory %s", dir).
			WithDetail("profile_id", id.String()).
			WithDetail("path", dir)
	}
	s.logger.Debug().Str("profile_id", id.String()).Str("path", dir).Msg("Profile directory created")
	return nil
}

// DeleteDirectory removes the directory for id and everything below it.
func (s *Store) DeleteDirectory(id uuid.UUID) error {
	dir := s.DirFor(id)
	if !s.Exists(id) {
		return errors.Newf(errors.ErrProfileDirectoryMissing, "profile directory %s does not exist", dir).
			WithDetail("profile_id", id.String()).
			WithDetail("path", dir)
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove profile directory %s", dir).
			WithDetail("profile_id", id.String()).
			WithDetail("path", dir)
	}
	s.logger.Debug().Str("profile_id", id.String()).Str("path", dir).Msg("Profile directory removed")
	return nil
}

// CopyInto mirrors the configuration tree of the installation at
// installPath into the directory of id, overwriting existing files. An
// installation without a configuration directory copies nothing.
func (s *Store) CopyInto(id uuid.UUID, installPath string) error {
	dst, err := s.PathFor(id)
	if err != nil {
		return err
	}
	if err := s.layout.Validate(s.fs, installPath); err != nil {
		return err
	}

	src := s.layout.ConfigDir(installPath)
	logger := s.logger.With().
		Str("profile_id", id.String()).
		Str("source", src).
		Logger()
	defer logging.LogOperationStart(logger, "copy_into")()

	if _, err := s.fs.Stat(src); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Msg("Installation has no configuration directory, nothing to copy")
			return s.fs.MkdirAll(dst, 0755)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", src).
			WithDetail("path", src)
	}

	if err := CopyTree(s.fs, src, dst); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to copy %s into profile", src).
			WithDetail("profile_id", id.String()).
			WithDetail("path", src)
	}
	logger.Info().Msg("Configuration copied into profile")
	return nil
}

// CopyOut mirrors the directory of id into dest.
func (s *Store) CopyOut(id uuid.UUID, dest string) error {
	src, err := s.PathFor(id)
	if err != nil {
		return err
	}
	if !s.Exists(id) {
		return errors.Newf(errors.ErrProfileDirectoryMissing, "profile directory %s does not exist", src).
			WithDetail("profile_id", id.String()).
			WithDetail("path", src)
	}
	if err := CopyTree(s.fs, src, dest); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to copy profile into %s", dest).
			WithDetail("profile_id", id.String()).
			WithDetail("path", dest)
	}
	return nil
}

// Orphans returns the ids of profile directories the lookup does not
// know, sorted by id.
func (s *Store) Orphans() ([]uuid.UUID, error) {
	entries, err := s.fs.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", s.root).
			WithDetail("path", s.root)
	}

	var orphans []uuid.UUID
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := uuid.Parse(entry.Name())
		if err != nil || id.String() != entry.Name() {
			continue
		}
		if !s.lookup.ExistsByID(id) {
			orphans = append(orphans, id)
		}
	}
	sort.Slice(orphans, func(i, j int) bool {
		return orphans[i].String() < orphans[j].String()
	})
	return orphans, nil
}

// Prune removes every orphaned profile directory and returns their ids.
func (s *Store) Prune() ([]uuid.UUID, error) {
	orphans, err := s.Orphans()
	if err != nil {
		return nil, err
	}
	for _, id := range orphans {
		if err := s.fs.RemoveAll(s.DirFor(id)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to remove orphaned directory %s", s.DirFor(id)).
				WithDetail("profile_id", id.String())
		}
		s.logger.Info().Str("profile_id", id.String()).Msg("Orphaned profile directory removed")
	}
	return orphans, nil
}

// RemoveAll deletes the profiles root with every profile directory.
func (s *Store) RemoveAll() error {
	if err := s.fs.RemoveAll(s.root); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", s.root).
			WithDetail("path", s.root)
	}
	return nil
}

// CopyTree recursively copies the directory src into dst, creating dst and
// intermediate directories and overwriting existing files. Symbolic links
// inside the tree are followed; entries that are neither files nor
// directories are skipped.
func CopyTree(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "copytree", Path: src, Err: errors.New(errors.ErrInvalidInput, "not a directory")}
	}
	return copyDir(fsys, src, dst, info.Mode().Perm())
}

func copyDir(fsys types.FS, src, dst string, perm fs.FileMode) error {
	if err := fsys.MkdirAll(dst, perm|0700); err != nil {
		return err
	}
	entries, err := fsys.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())

		info, err := fsys.Stat(from)
		if err != nil {
			return err
		}
		switch {
		case info.IsDir():
			if err := copyDir(fsys, from, to, info.Mode().Perm()); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			data, err := fsys.ReadFile(from)
			if err != nil {
				return err
			}
			if err := fsys.WriteFile(to, data, info.Mode().Perm()); err != nil {
				return err
			}
		}
	}
	return nil
}
