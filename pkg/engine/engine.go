package engine

import (
	"context"
	"sync"

	"github.com/arthur-debert/cfgswap/pkg/config"
	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/install"
	"github.com/arthur-debert/cfgswap/pkg/link"
	"github.com/arthur-debert/cfgswap/pkg/logging"
	"github.com/arthur-debert/cfgswap/pkg/paths"
	"github.com/arthur-debert/cfgswap/pkg/pubsub"
	"github.com/arthur-debert/cfgswap/pkg/registry"
	"github.com/arthur-debert/cfgswap/pkg/store"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options configures a new Engine.
type Options struct {
	FS       types.FS
	Paths    paths.Paths
	Settings *config.Settings
}

// Change is the payload of engine events.
type Change struct {
	ProfileID   uuid.UUID
	Name        string
	InstallPath string
}

// Engine is the activation engine.
type Engine struct {
	mu       sync.Mutex
	fs       types.FS
	paths    paths.Paths
	settings *config.Settings
	layout   install.Layout
	registry *registry.Registry
	store    *store.Store
	states   *config.StateStore
	current  config.State
	events   *pubsub.Broker[Change]
	logger   zerolog.Logger
}

// New loads the registry and process state and enforces the backup
// invariant.
func New(opts Options) (*Engine, error) {
	if opts.FS == nil || opts.Paths == nil || opts.Settings == nil {
		return nil, errors.New(errors.ErrInvalidInput, "engine requires a filesystem, paths and settings")
	}

	reg, err := registry.Open(opts.FS, opts.Paths.RegistryPath(), opts.Settings.Profiles.BackupName)
	if err != nil {
		return nil, err
	}

	layout := install.FromSettings(opts.Settings.Game)
	e := &Engine{
		fs:       opts.FS,
		paths:    opts.Paths,
		settings: opts.Settings,
		layout:   layout,
		registry: reg,
		store:    store.New(opts.FS, opts.Paths.ProfilesDir(), reg, layout),
		states:   config.NewStateStore(opts.FS, opts.Paths.StatePath()),
		events:   pubsub.NewBroker[Change](),
		logger:   logging.GetLogger("engine"),
	}

	if e.current, err = e.states.Load(); err != nil {
		return nil, err
	}
	if err := e.dropStaleActivePointer(); err != nil {
		return nil, err
	}
	if err := e.ensureBackupInvariant(); err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("install_path", e.current.InstallPath).
		Str("active_profile", e.current.ActiveProfile.String()).
		Int("profiles", reg.Len()).
		Msg("Engine ready")
	return e, nil
}

// dropStaleActivePointer clears an active pointer whose profile is gone,
// which only happens when a previous run was interrupted.
func (e *Engine) dropStaleActivePointer() error {
	if !e.current.HasActiveProfile() || e.registry.ExistsByID(e.current.ActiveProfile) {
		return nil
	}
	e.logger.Warn().
		Str("profile_id", e.current.ActiveProfile.String()).
		Msg("Active profile no longer exists, clearing pointer")
	next := e.current
	next.ActiveProfile = uuid.Nil
	return e.saveState(next)
}

func (e *Engine) saveState(next config.State) error {
	if err := e.states.Save(next); err != nil {
		return err
	}
	e.current = next
	return nil
}

// setActive records id as the live profile. Activating anything clears the
// detached marker since the directory is managed again.
func (e *Engine) setActive(id uuid.UUID) error {
	next := e.current
	next.ActiveProfile = id
	if id != uuid.Nil {
		next.Detached = false
	}
	return e.saveState(next)
}

// linkFor returns the link controller for the installation at root.
func (e *Engine) linkFor(root string) *link.Controller {
	return link.New(e.fs, e.layout.ConfigDir(root))
}

// requireInstall checks that a valid installation path is configured.
func (e *Engine) requireInstall() error {
	if e.current.InstallPath == "" {
		return errors.New(errors.ErrInvalidGamePath, "no game path configured")
	}
	return e.layout.Validate(e.fs, e.current.InstallPath)
}

func (e *Engine) publish(t pubsub.EventType, p types.Profile) {
	e.events.Publish(t, Change{
		ProfileID:   p.ID,
		Name:        p.Name,
		InstallPath: e.current.InstallPath,
	})
}

// Subscribe returns change notifications until ctx is done or the engine
// is closed.
func (e *Engine) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return e.events.Subscribe(ctx)
}

// Close stops change notifications.
func (e *Engine) Close() {
	e.events.Close()
}

// Layout returns the managed application's installation layout.
func (e *Engine) Layout() install.Layout {
	return e.layout
}

// InstallPath returns the configured installation path, or "".
func (e *Engine) InstallPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.InstallPath
}

// IsValidInstallation reports whether path holds an installation of the
// managed application.
func (e *Engine) IsValidInstallation(path string) bool {
	return e.layout.IsValid(e.fs, path)
}

// ListProfiles returns a snapshot of all profiles in insertion order.
func (e *Engine) ListProfiles() []types.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.List()
}

// ActiveProfile returns the active profile, if any.
func (e *Engine) ActiveProfile() (types.Profile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.current.HasActiveProfile() {
		return types.Profile{}, false
	}
	p, err := e.registry.GetByID(e.current.ActiveProfile)
	if err != nil {
		return types.Profile{}, false
	}
	return p, true
}

// GetProfile returns the profile with id.
func (e *Engine) GetProfile(id uuid.UUID) (types.Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.GetByID(id)
}

// Resolve finds a profile by canonical id string or exact name.
func (e *Engine) Resolve(ref string) (types.Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id, err := uuid.Parse(ref); err == nil && e.registry.ExistsByID(id) {
		return e.registry.GetByID(id)
	}
	return e.registry.GetByName(ref)
}

// ProfileDir returns the directory owned by the profile with id.
func (e *Engine) ProfileDir(id uuid.UUID) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.PathFor(id)
}

// NextProfileName returns base, or the first free "base (n)".
func (e *Engine) NextProfileName(base string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.NextName(base)
}
