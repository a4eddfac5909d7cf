// Package store maps each profile to its own directory under the profiles
// root. A profile directory is named by the canonical string form of the
// profile id and holds a verbatim copy of the managed application's
// configuration tree.
//
// The store does not own profile identity: it asks a Lookup (the
// registry) whether an id is known, and reports ProfileNotFound otherwise.
// Directories whose id the lookup does not know are orphans left behind
// by interrupted creates; Orphans and Prune find and remove them.
package store
