package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/filesystem"
	"github.com/arthur-debert/cfgswap/pkg/logging"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of the registry file.
type document struct {
	Profiles []types.Profile `yaml:"profiles"`
}

// Registry holds the ordered profile collection and its backing file.
// It is not safe for concurrent use; the engine serializes access.
type Registry struct {
	fs           types.FS
	path         string
	reservedName string
	profiles     []types.Profile
	logger       zerolog.Logger
}

// New creates an empty registry persisted at path. reservedName is the
// name only the backup profile may carry.
func New(fs types.FS, path, reservedName string) *Registry {
	return &Registry{
		fs:           fs,
		path:         path,
		reservedName: reservedName,
		logger:       logging.GetLogger("registry"),
	}
}

// Open creates a registry and loads it from disk.
func Open(fs types.FS, path, reservedName string) (*Registry, error) {
	r := New(fs, path, reservedName)
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the registry file location.
func (r *Registry) Path() string {
	return r.path
}

// ReservedName returns the name reserved for the backup profile.
func (r *Registry) ReservedName() string {
	return r.reservedName
}

// Load replaces the in-memory collection with the file's content. A
// missing or empty file yields an empty collection.
func (r *Registry) Load() error {
	data, err := r.fs.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.profiles = nil
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read registry %s", r.path).
			WithDetail("path", r.path)
	}
	if strings.TrimSpace(string(data)) == "" {
		r.profiles = nil
		return nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, errors.ErrRegistryCorrupt, "failed to parse registry %s", r.path).
			WithDetail("path", r.path)
	}

	for i := range doc.Profiles {
		if doc.Profiles[i].Role == "" {
			doc.Profiles[i].Role = types.RoleNormal
		}
	}
	if err := checkConsistency(doc.Profiles); err != nil {
		return err.WithDetail("path", r.path)
	}

	r.profiles = doc.Profiles
	r.logger.Debug().
		Str("path", r.path).
		Int("count", len(r.profiles)).
		Msg("Registry loaded")
	return nil
}

func checkConsistency(profiles []types.Profile) *errors.CfgswapError {
	ids := make(map[uuid.UUID]bool, len(profiles))
	names := make(map[string]bool, len(profiles))
	backups := 0
	for _, p := range profiles {
		if p.ID == uuid.Nil {
			return errors.Newf(errors.ErrRegistryCorrupt, "profile %q has no id", p.Name).
				WithDetail("name", p.Name)
		}
		if ids[p.ID] {
			return errors.Newf(errors.ErrRegistryCorrupt, "duplicate profile id %s", p.ID).
				WithDetail("profile_id", p.ID.String())
		}
		if names[p.Name] {
			return errors.Newf(errors.ErrRegistryCorrupt, "duplicate profile name %q", p.Name).
				WithDetail("name", p.Name)
		}
		if p.IsBackup() {
			backups++
		}
		ids[p.ID] = true
		names[p.Name] = true
	}
	if backups > 1 {
		return errors.New(errors.ErrRegistryCorrupt, "more than one backup profile")
	}
	return nil
}

// commit persists next and, only on success, makes it the live collection.
func (r *Registry) commit(next []types.Profile) error {
	data, err := yaml.Marshal(document{Profiles: next})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode registry")
	}
	if err := filesystem.WriteFileAtomic(r.fs, r.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to write registry %s", r.path).
			WithDetail("path", r.path)
	}
	r.profiles = next
	return nil
}

// ValidateName checks name against the profilename rule and length limit.
func (r *Registry) ValidateName(name string) error {
	if err := validate.Var(name, "required,min=2,max=64,profilename"); err != nil {
		return nameError(name, err)
	}
	return nil
}

func nameError(name string, err error) error {
	rule := ""
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		rule = verrs[0].Tag()
	}
	msg := fmt.Sprintf("invalid profile name %q", name)
	switch rule {
	case "required":
		msg = "profile name cannot be empty"
	case "min":
		msg = fmt.Sprintf("profile name %q is shorter than 2 characters", name)
	case "max":
		msg = fmt.Sprintf("profile name %q is longer than 64 characters", name)
	}
	return errors.Wrap(err, errors.ErrInvalidProfileName, msg).
		WithDetail("name", name).
		WithDetail("rule", rule)
}

// checkName validates p's name and rejects conflicts with every profile
// other than p itself.
func (r *Registry) checkName(p types.Profile) error {
	if err := validate.Struct(p); err != nil {
		return nameError(p.Name, err)
	}
	if p.Name == r.reservedName && !p.IsBackup() {
		return errors.Newf(errors.ErrNameConflict, "profile name %q is reserved", p.Name).
			WithDetail("name", p.Name)
	}
	for _, existing := range r.profiles {
		if existing.ID != p.ID && existing.Name == p.Name {
			return errors.Newf(errors.ErrNameConflict, "a profile named %q already exists", p.Name).
				WithDetail("name", p.Name).
				WithDetail("profile_id", existing.ID.String())
		}
	}
	return nil
}

// Prepare validates a new profile and assigns it a fresh id without
// adding it. Callers that must create backing storage first use Prepare
// followed by Add.
func (r *Registry) Prepare(name, launchArgs string, readOnly bool, role types.Role) (types.Profile, error) {
	if role == "" {
		role = types.RoleNormal
	}
	p := types.Profile{
		ID:         r.freshID(),
		Name:       name,
		LaunchArgs: launchArgs,
		ReadOnly:   readOnly,
		Role:       role,
	}
	if err := r.checkName(p); err != nil {
		return types.Profile{}, err
	}
	if role == types.RoleBackup {
		if existing, ok := r.Backup(); ok {
			return types.Profile{}, errors.New(errors.ErrNameConflict, "a backup profile already exists").
				WithDetail("profile_id", existing.ID.String())
		}
	}
	return p, nil
}

func (r *Registry) freshID() uuid.UUID {
	for {
		id := uuid.New()
		if !r.ExistsByID(id) {
			return id
		}
	}
}

// Add appends a prepared profile and persists the registry.
func (r *Registry) Add(p types.Profile) error {
	if p.ID == uuid.Nil {
		return errors.New(errors.ErrInvalidInput, "profile has no id")
	}
	if r.ExistsByID(p.ID) {
		return errors.Newf(errors.ErrInvalidInput, "profile id %s is already registered", p.ID).
			WithDetail("profile_id", p.ID.String())
	}
	if err := r.checkName(p); err != nil {
		return err
	}

	next := make([]types.Profile, len(r.profiles), len(r.profiles)+1)
	copy(next, r.profiles)
	next = append(next, p)
	if err := r.commit(next); err != nil {
		return err
	}

	r.logger.Info().
		Str("profile_id", p.ID.String()).
		Str("name", p.Name).
		Bool("read_only", p.ReadOnly).
		Msg("Profile registered")
	return nil
}

// Create prepares and adds a normal profile in one step.
func (r *Registry) Create(name, launchArgs string, readOnly bool) (types.Profile, error) {
	p, err := r.Prepare(name, launchArgs, readOnly, types.RoleNormal)
	if err != nil {
		return types.Profile{}, err
	}
	if err := r.Add(p); err != nil {
		return types.Profile{}, err
	}
	return p, nil
}

// GetByID returns the profile with id.
func (r *Registry) GetByID(id uuid.UUID) (types.Profile, error) {
	if i := r.IndexOf(id); i >= 0 {
		return r.profiles[i], nil
	}
	return types.Profile{}, notFoundByID(id)
}

// GetByName returns the profile named name (exact, case-sensitive).
func (r *Registry) GetByName(name string) (types.Profile, error) {
	for _, p := range r.profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return types.Profile{}, errors.Newf(errors.ErrProfileNotFound, "no profile named %q", name).
		WithDetail("name", name)
}

// Update replaces the stored profile with the same id. Identity and role
// are preserved from the stored copy.
func (r *Registry) Update(p types.Profile) error {
	i := r.IndexOf(p.ID)
	if i < 0 {
		return notFoundByID(p.ID)
	}
	p.Role = r.profiles[i].Role
	if err := r.checkName(p); err != nil {
		return err
	}

	next := make([]types.Profile, len(r.profiles))
	copy(next, r.profiles)
	next[i] = p
	if err := r.commit(next); err != nil {
		return err
	}

	r.logger.Info().
		Str("profile_id", p.ID.String()).
		Str("name", p.Name).
		Msg("Profile updated")
	return nil
}

// Delete removes the profile with id and persists the registry.
func (r *Registry) Delete(id uuid.UUID) error {
	i := r.IndexOf(id)
	if i < 0 {
		return notFoundByID(id)
	}

	next := make([]types.Profile, 0, len(r.profiles)-1)
	next = append(next, r.profiles[:i]...)
	next = append(next, r.profiles[i+1:]...)
	if err := r.commit(next); err != nil {
		return err
	}

	r.logger.Info().Str("profile_id", id.String()).Msg("Profile removed from registry")
	return nil
}

// Purge empties the registry and removes its file.
func (r *Registry) Purge() error {
	if err := r.fs.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove registry %s", r.path).
			WithDetail("path", r.path)
	}
	r.profiles = nil
	return nil
}

// ExistsByID reports whether a profile with id is registered.
func (r *Registry) ExistsByID(id uuid.UUID) bool {
	return r.IndexOf(id) >= 0
}

// ExistsByName reports whether a profile named name is registered.
func (r *Registry) ExistsByName(name string) bool {
	for _, p := range r.profiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// IndexOf returns the position of id in insertion order, or -1.
func (r *Registry) IndexOf(id uuid.UUID) int {
	for i, p := range r.profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// List returns a snapshot of all profiles in insertion order.
func (r *Registry) List() []types.Profile {
	out := make([]types.Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Len returns the number of profiles.
func (r *Registry) Len() int {
	return len(r.profiles)
}

// Backup returns the profile carrying the backup role, if any.
func (r *Registry) Backup() (types.Profile, bool) {
	for _, p := range r.profiles {
		if p.IsBackup() {
			return p, true
		}
	}
	return types.Profile{}, false
}

// NextName returns base if unused, otherwise the first free "base (n)".
func (r *Registry) NextName(base string) string {
	if !r.ExistsByName(base) && base != r.reservedName {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if !r.ExistsByName(candidate) && candidate != r.reservedName {
			return candidate
		}
	}
}

func notFoundByID(id uuid.UUID) *errors.CfgswapError {
	return errors.Newf(errors.ErrProfileNotFound, "profile %s not found", id).
		WithDetail("profile_id", id.String())
}
