package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/filesystem"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

// State is the process-wide configuration that changes at runtime.
// ActiveProfile is uuid.Nil when no profile is active. Detached marks a
// config directory that was deliberately left as a plain directory.
type State struct {
	InstallPath   string
	ActiveProfile uuid.UUID
	Detached      bool
}

// HasActiveProfile reports whether a profile is active.
func (s State) HasActiveProfile() bool {
	return s.ActiveProfile != uuid.Nil
}

type stateFile struct {
	InstallPath   string `toml:"install_path"`
	ActiveProfile string `toml:"active_profile,omitempty"`
	Detached      bool   `toml:"detached,omitempty"`
}

// StateStore reads and writes the state file.
type StateStore struct {
	fs   types.FS
	path string
}

// NewStateStore creates a StateStore persisting to path.
func NewStateStore(fs types.FS, path string) *StateStore {
	return &StateStore{fs: fs, path: path}
}

// Path returns the location of the state file.
func (s *StateStore) Path() string {
	return s.path
}

// Load reads the state file. A missing or empty file yields the zero State.
func (s *StateStore) Load() (State, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read state file %s", s.path).
			WithDetail("path", s.path)
	}
	if strings.TrimSpace(string(data)) == "" {
		return State{}, nil
	}

	var raw stateFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return State{}, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse state file %s", s.path).
			WithDetail("path", s.path)
	}

	state := State{InstallPath: raw.InstallPath, Detached: raw.Detached}
	if raw.ActiveProfile != "" {
		id, err := uuid.Parse(raw.ActiveProfile)
		if err != nil {
			return State{}, errors.Wrapf(err, errors.ErrConfigParse, "invalid active profile id %q", raw.ActiveProfile).
				WithDetail("path", s.path)
		}
		state.ActiveProfile = id
	}
	return state, nil
}

// Save writes the state file atomically.
func (s *StateStore) Save(state State) error {
	raw := stateFile{InstallPath: state.InstallPath, Detached: state.Detached}
	if state.HasActiveProfile() {
		raw.ActiveProfile = state.ActiveProfile.String()
	}

	data, err := toml.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode state")
	}
	if err := filesystem.WriteFileAtomic(s.fs, s.path, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "failed to write state file").
			WithDetail("path", s.path)
	}
	return nil
}

// Remove deletes the state file. A missing file is not an error.
func (s *StateStore) Remove() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.ErrFileAccess, "failed to remove state file").
			WithDetail("path", s.path)
	}
	return nil
}
