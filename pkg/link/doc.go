// Package link owns the redirected configuration directory of the managed
// application.
//
// The redirected path is in one of four states (types.LinkState): absent,
// a symbolic link to a profile directory, a plain directory holding
// unmanaged user data, or occupied by something else. Relink moves it to
// the linked state in three steps:
//
//  1. remove the existing link (never its target), or
//  2. purge a plain directory, only when the caller says its content is
//     secured elsewhere,
//  3. create the new link.
//
// The steps are not atomic. A failure after step 1 or 2 leaves the path
// absent; the engine's startup pass is the recovery path, the controller
// never rolls back on its own.
package link
