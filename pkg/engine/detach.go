package engine

import (
	"github.com/arthur-debert/cfgswap/pkg/config"
	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/pubsub"
	"github.com/arthur-debert/cfgswap/pkg/store"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/google/uuid"
)

// detachSuffix names the sibling directory the live configuration is
// copied into before the link is removed.
const detachSuffix = ".cfgswap-detach"

// Detach turns the redirected directory back into a plain directory
// holding a byte-for-byte copy of the live profile, and clears the active
// pointer. The state remembers the detach so the plain directory is not
// captured again on the next start. With removeProfiles every profile, the
// registry and the state file are deleted as well.
func (e *Engine) Detach(removeProfiles bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current.InstallPath != "" {
		if err := e.materialize(); err != nil {
			return err
		}
	} else if !removeProfiles {
		return errors.New(errors.ErrInvalidGamePath, "no game path configured")
	}

	next := e.current
	next.ActiveProfile = uuid.Nil
	next.Detached = next.InstallPath != ""
	if err := e.saveState(next); err != nil {
		return err
	}

	if removeProfiles {
		if err := e.store.RemoveAll(); err != nil {
			return err
		}
		if err := e.registry.Purge(); err != nil {
			return err
		}
		if err := e.states.Remove(); err != nil {
			return err
		}
		e.current = config.State{}
		e.logger.Info().Msg("All profiles removed")
	}

	e.events.Publish(pubsub.Detached, Change{InstallPath: e.current.InstallPath})
	return nil
}

func (e *Engine) materialize() error {
	ctrl := e.linkFor(e.current.InstallPath)
	state, err := ctrl.State()
	if err != nil {
		return err
	}
	switch state {
	case types.LinkAbsent, types.LinkPlainDir:
		e.logger.Debug().Str("state", string(state)).Msg("Nothing linked, nothing to detach")
		return nil
	case types.LinkOther:
		return errors.Newf(errors.ErrInconsistentState, "%s is neither a link nor a directory", ctrl.Path()).
			WithDetail("path", ctrl.Path())
	}

	target, err := ctrl.Target()
	if err != nil {
		return err
	}
	staging := ctrl.Path() + detachSuffix
	if err := e.fs.RemoveAll(staging); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to clear %s", staging).
			WithDetail("path", staging)
	}
	if err := store.CopyTree(e.fs, target, staging); err != nil {
		_ = e.fs.RemoveAll(staging)
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to copy %s", target).
			WithDetail("path", target)
	}
	if err := ctrl.Unlink(); err != nil {
		_ = e.fs.RemoveAll(staging)
		return err
	}
	if err := e.fs.Rename(staging, ctrl.Path()); err != nil {
		return errors.Wrapf(err, errors.ErrLinkOperationFailed,
			"link removed but %s could not be moved into place; the copy is kept there", staging).
			WithDetail("path", ctrl.Path()).
			WithDetail("staging", staging)
	}

	e.logger.Info().
		Str("path", ctrl.Path()).
		Str("source", target).
		Msg("Configuration directory detached")
	return nil
}

// Orphans lists profile directories with no registry entry.
func (e *Engine) Orphans() ([]uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Orphans()
}

// PruneOrphans removes profile directories with no registry entry.
func (e *Engine) PruneOrphans() ([]uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Prune()
}
