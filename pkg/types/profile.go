package types

import (
	"github.com/google/uuid"
)

// Role tags a profile with the protection it receives.
type Role string

const (
	// RoleNormal is a user-managed profile.
	RoleNormal Role = "normal"

	// RoleBackup is the profile created from the user's original
	// configuration on first run. There is at most one.
	RoleBackup Role = "backup"
)

// Profile is one named configuration set for the managed application.
type Profile struct {
	ID         uuid.UUID `yaml:"id"`
	Name       string    `yaml:"name" validate:"required,min=2,max=64,profilename"`
	LaunchArgs string    `yaml:"launch_args"`
	ReadOnly   bool      `yaml:"read_only"`
	Role       Role      `yaml:"role,omitempty"`
}

// IsBackup reports whether p is the reserved backup profile.
func (p Profile) IsBackup() bool {
	return p.Role == RoleBackup
}

// DisplayName decorates read-only profiles so they stand out in listings.
func (p Profile) DisplayName() string {
	if p.ReadOnly {
		return "<<" + p.Name + ">>"
	}
	return p.Name
}
