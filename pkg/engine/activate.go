package engine

import (
	"path/filepath"

	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/pubsub"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/google/uuid"
)

// Activate links the configuration directory to the profile with id and
// records it as active. The pointer is persisted only after the link
// swap succeeds.
func (e *Engine) Activate(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activate(id)
}

func (e *Engine) activate(id uuid.UUID) error {
	p, err := e.registry.GetByID(id)
	if err != nil {
		return err
	}
	if err := e.requireInstall(); err != nil {
		return err
	}
	dir, err := e.store.PathFor(id)
	if err != nil {
		return err
	}
	if !e.store.Exists(id) {
		return errors.Newf(errors.ErrProfileDirectoryMissing, "directory of profile %q is missing", p.Name).
			WithDetail("profile_id", id.String()).
			WithDetail("path", dir)
	}

	// A plain directory may only be replaced once its content lives in
	// the backup profile.
	_, hasBackup := e.registry.Backup()
	if err := e.linkFor(e.current.InstallPath).Relink(dir, hasBackup); err != nil {
		return err
	}
	if err := e.setActive(id); err != nil {
		return err
	}

	e.logger.Info().
		Str("profile_id", id.String()).
		Str("name", p.Name).
		Msg("Profile activated")
	e.publish(pubsub.ProfileActivated, p)
	return nil
}

// SetGamePath validates and persists a new installation path and re-points
// the active profile's link under it. It reports false, leaving the prior
// path and link untouched, when the path is rejected.
func (e *Engine) SetGamePath(path string) bool {
	if err := e.ChangeGamePath(path); err != nil {
		e.logger.Warn().Err(err).Str("install_path", path).Msg("Game path not changed")
		return false
	}
	return true
}

// ChangeGamePath is SetGamePath returning the reason for a rejection.
func (e *Engine) ChangeGamePath(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidGamePath, "invalid path %q", path).
			WithDetail("path", path)
	}
	if err := e.layout.Validate(e.fs, abs); err != nil {
		return err
	}

	ctrl := e.linkFor(abs)
	state, err := ctrl.State()
	if err != nil {
		return err
	}
	_, hasBackup := e.registry.Backup()
	detached := e.current.Detached && abs == e.current.InstallPath
	switch {
	case state == types.LinkOther:
		return errors.Newf(errors.ErrInconsistentState, "%s is neither a link nor a directory", ctrl.Path()).
			WithDetail("path", ctrl.Path())
	case state == types.LinkPlainDir && hasBackup && !detached:
		return errors.Newf(errors.ErrInconsistentState,
			"%s holds unmanaged configuration and a backup profile already exists", ctrl.Path()).
			WithDetail("path", ctrl.Path())
	}

	prev := e.current
	next := prev
	next.InstallPath = abs
	next.Detached = detached
	if err := e.saveState(next); err != nil {
		return err
	}

	restore := func(cause error) error {
		if err := e.saveState(prev); err != nil {
			e.logger.Error().Err(err).Msg("Failed to restore previous game path")
		}
		return cause
	}

	if state == types.LinkPlainDir {
		if err := e.ensureBackupInvariant(); err != nil {
			return restore(err)
		}
	}
	if prev.HasActiveProfile() {
		if err := e.activate(prev.ActiveProfile); err != nil {
			return restore(err)
		}
	}

	e.logger.Info().
		Str("install_path", abs).
		Str("previous", prev.InstallPath).
		Msg("Game path changed")
	e.events.Publish(pubsub.GamePathChanged, Change{ProfileID: e.current.ActiveProfile, InstallPath: abs})
	return nil
}
