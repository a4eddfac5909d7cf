package engine

import (
	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/logging"
	"github.com/arthur-debert/cfgswap/pkg/pubsub"
	"github.com/arthur-debert/cfgswap/pkg/types"
)

// EnsureBackupInvariant captures a plain configuration directory into the
// backup profile and links it. It is run by New and is safe to call again:
// when the directory is already linked or absent, or was left plain by
// Detach, it changes nothing.
func (e *Engine) EnsureBackupInvariant() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureBackupInvariant()
}

func (e *Engine) ensureBackupInvariant() error {
	root := e.current.InstallPath
	if root == "" || !e.layout.IsValid(e.fs, root) {
		e.logger.Debug().Str("install_path", root).Msg("No valid installation, skipping backup check")
		return nil
	}

	ctrl := e.linkFor(root)
	state, err := ctrl.State()
	if err != nil {
		return err
	}

	switch state {
	case types.LinkLinked, types.LinkAbsent:
		return nil
	case types.LinkPlainDir:
		if e.current.Detached {
			e.logger.Debug().Str("path", ctrl.Path()).Msg("Configuration directory detached, leaving it alone")
			return nil
		}
	case types.LinkOther:
		return errors.Newf(errors.ErrInconsistentState, "%s is neither a link nor a directory", ctrl.Path()).
			WithDetail("path", ctrl.Path())
	}

	if existing, ok := e.registry.Backup(); ok {
		return errors.Newf(errors.ErrInconsistentState,
			"%s is a plain directory but backup profile %q already exists; refusing to overwrite it",
			ctrl.Path(), existing.Name).
			WithDetail("path", ctrl.Path()).
			WithDetail("profile_id", existing.ID.String())
	}

	logger := e.logger.With().Str("install_path", root).Logger()
	defer logging.LogOperationStart(logger, "backup")()

	backup, err := e.registry.Prepare(e.settings.Profiles.BackupName, "", true, types.RoleBackup)
	if err != nil {
		return err
	}
	if err := e.store.CreateDirectory(backup.ID); err != nil {
		return err
	}
	if err := e.registry.Add(backup); err != nil {
		e.discardDirectory(backup)
		return err
	}
	if err := e.store.CopyInto(backup.ID, root); err != nil {
		e.discardProfile(backup)
		return err
	}

	dir := e.store.DirFor(backup.ID)
	if err := ctrl.Relink(dir, true); err != nil {
		return err
	}
	if err := e.setActive(backup.ID); err != nil {
		return err
	}

	logger.Info().
		Str("profile_id", backup.ID.String()).
		Str("target", dir).
		Msg("Original configuration captured into backup profile")
	e.publish(pubsub.ProfileCreated, backup)
	e.publish(pubsub.ProfileActivated, backup)
	return nil
}

// discardProfile undoes a profile creation whose later steps failed.
func (e *Engine) discardProfile(p types.Profile) {
	if err := e.registry.Delete(p.ID); err != nil {
		e.logger.Error().Err(err).Str("profile_id", p.ID.String()).Msg("Failed to unregister profile")
	}
	e.discardDirectory(p)
}

func (e *Engine) discardDirectory(p types.Profile) {
	if err := e.store.DeleteDirectory(p.ID); err != nil {
		e.logger.Error().Err(err).Str("profile_id", p.ID.String()).Msg("Failed to remove profile directory")
	}
}
