// Package engine is the activation engine: it orchestrates the profile
// registry, the profile store and the link controller so that exactly one
// profile is live at a time and no user configuration is ever silently
// lost.
//
// An Engine is constructed once per process with New and passed to every
// collaborator. Construction runs the backup pass: if the managed
// application's configuration directory is still a plain directory, its
// content is captured into a read-only backup profile before the
// directory is replaced by a link. An InconsistentState error from New is
// fatal; the host must stop rather than guess.
//
// Every exported method takes the engine's mutex, so calls are serialized.
// Mutating calls publish a pubsub event once they succeed.
package engine
