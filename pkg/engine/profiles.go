package engine

import (
	"path/filepath"

	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/logging"
	"github.com/arthur-debert/cfgswap/pkg/pubsub"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/google/uuid"
)

// CreateProfile creates an empty profile. An empty name picks the next
// free default name. The directory is created before the registry entry,
// so a crash in between leaves an orphaned directory that PruneOrphans
// removes.
func (e *Engine) CreateProfile(name, launchArgs string, readOnly bool) (types.Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if name == "" {
		name = e.registry.NextName(e.settings.Profiles.NewName)
	}
	p, err := e.registry.Prepare(name, launchArgs, readOnly, types.RoleNormal)
	if err != nil {
		return types.Profile{}, err
	}
	if err := e.store.CreateDirectory(p.ID); err != nil {
		return types.Profile{}, err
	}
	if err := e.registry.Add(p); err != nil {
		e.discardDirectory(p)
		return types.Profile{}, err
	}

	e.logger.Info().
		Str("profile_id", p.ID.String()).
		Str("name", p.Name).
		Msg("Profile created")
	e.publish(pubsub.ProfileCreated, p)
	return p, nil
}

// ImportOptions configures ImportProfile.
type ImportOptions struct {
	// InstallPath is the installation whose configuration is imported.
	InstallPath string

	// Name of the new profile; empty picks the next free import name.
	Name string

	LaunchArgs string

	// DeleteSource removes the whole installation at InstallPath once the
	// profile holds a complete copy.
	DeleteSource bool
}

// ImportProfile creates a profile from another installation's
// configuration. The source is only deleted after the copy succeeded; a
// failed copy removes the half-created profile again.
func (e *Engine) ImportProfile(opts ImportOptions) (types.Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	src, err := filepath.Abs(opts.InstallPath)
	if err != nil {
		return types.Profile{}, errors.Wrapf(err, errors.ErrInvalidGamePath, "invalid path %q", opts.InstallPath).
			WithDetail("path", opts.InstallPath)
	}
	if err := e.layout.Validate(e.fs, src); err != nil {
		return types.Profile{}, err
	}
	if e.current.InstallPath != "" && filepath.Clean(e.current.InstallPath) == src {
		return types.Profile{}, errors.Newf(errors.ErrInvalidInput, "%s is the managed installation and cannot be imported", src).
			WithDetail("path", src)
	}

	name := opts.Name
	if name == "" {
		name = e.registry.NextName(e.settings.Profiles.ImportName)
	}
	p, err := e.registry.Prepare(name, opts.LaunchArgs, false, types.RoleNormal)
	if err != nil {
		return types.Profile{}, err
	}

	logger := e.logger.With().
		Str("profile_id", p.ID.String()).
		Str("source", src).
		Logger()
	defer logging.LogOperationStart(logger, "import")()

	if err := e.store.CreateDirectory(p.ID); err != nil {
		return types.Profile{}, err
	}
	if err := e.registry.Add(p); err != nil {
		e.discardDirectory(p)
		return types.Profile{}, err
	}
	if err := e.store.CopyInto(p.ID, src); err != nil {
		e.discardProfile(p)
		return types.Profile{}, err
	}

	logger.Info().Str("name", p.Name).Msg("Profile imported")
	e.publish(pubsub.ProfileCreated, p)

	if opts.DeleteSource {
		if err := e.fs.RemoveAll(src); err != nil {
			return p, errors.Wrapf(err, errors.ErrFileAccess, "profile imported but %s could not be deleted", src).
				WithDetail("path", src).
				WithDetail("profile_id", p.ID.String())
		}
		logger.Info().Msg("Source installation deleted")
	}
	return p, nil
}

// UpdateProfile renames a profile or changes its launch arguments.
// Read-only profiles cannot be changed. Identity, role and the read-only
// flag are kept from the stored profile.
func (e *Engine) UpdateProfile(p types.Profile) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	stored, err := e.registry.GetByID(p.ID)
	if err != nil {
		return err
	}
	if stored.ReadOnly {
		return errors.Newf(errors.ErrReadOnlyProfile, "profile %q is read-only", stored.Name).
			WithDetail("profile_id", stored.ID.String()).
			WithDetail("name", stored.Name)
	}

	p.ReadOnly = stored.ReadOnly
	p.Role = stored.Role
	if err := e.registry.Update(p); err != nil {
		return err
	}
	e.publish(pubsub.ProfileUpdated, p)
	return nil
}

// DeleteProfile removes a profile and its directory. Read-only profiles
// are always refused; the active profile is refused until another one is
// activated (see SubstituteFor). A directory that cannot be removed after
// the registry entry is gone is logged, not rolled back.
func (e *Engine) DeleteProfile(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.registry.GetByID(id)
	if err != nil {
		return err
	}
	if p.ReadOnly {
		return errors.Newf(errors.ErrCannotDeleteReadOnlyProfile, "profile %q is read-only and cannot be deleted", p.Name).
			WithDetail("profile_id", id.String()).
			WithDetail("name", p.Name)
	}
	if e.isLive(id) {
		return errors.Newf(errors.ErrCannotDeleteActiveProfile, "profile %q is active; activate another profile first", p.Name).
			WithDetail("profile_id", id.String()).
			WithDetail("name", p.Name)
	}

	if err := e.registry.Delete(id); err != nil {
		return err
	}
	if err := e.store.DeleteDirectory(id); err != nil {
		e.logger.Warn().Err(err).
			Str("profile_id", id.String()).
			Msg("Profile removed from registry but its directory could not be removed")
	}

	e.logger.Info().
		Str("profile_id", id.String()).
		Str("name", p.Name).
		Msg("Profile deleted")
	e.publish(pubsub.ProfileDeleted, p)
	return nil
}

// isLive reports whether id is the active profile or the current link
// target.
func (e *Engine) isLive(id uuid.UUID) bool {
	if e.current.ActiveProfile == id {
		return true
	}
	if e.current.InstallPath == "" {
		return false
	}
	return e.linkFor(e.current.InstallPath).PointsTo(e.store.DirFor(id))
}

// SubstituteFor returns the profile to activate before deleting id: the
// one that will take id's position in the list, or the preceding one when
// id is last.
func (e *Engine) SubstituteFor(id uuid.UUID) (types.Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.registry.IndexOf(id)
	if i < 0 {
		return types.Profile{}, errors.Newf(errors.ErrProfileNotFound, "profile %s not found", id).
			WithDetail("profile_id", id.String())
	}
	profiles := e.registry.List()
	if len(profiles) == 1 {
		return types.Profile{}, errors.New(errors.ErrProfileNotFound, "no other profile to switch to").
			WithDetail("profile_id", id.String())
	}
	if i == len(profiles)-1 {
		return profiles[i-1], nil
	}
	return profiles[i+1], nil
}
