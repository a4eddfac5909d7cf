// Package registry is the persisted catalog of profiles.
//
// The registry keeps profiles in insertion order and writes the whole
// collection to a single YAML file after every mutation, before the
// mutating call returns. A failed write leaves the in-memory collection
// untouched, so readers never observe a state that was not persisted.
//
// Ids are unique and never reused. Names are unique (case-sensitive) and
// must satisfy the profilename rule enforced through validator tags on
// types.Profile. The configured backup name is reserved for the single
// profile carrying types.RoleBackup.
package registry
