// Package testutil provides filesystem helpers shared by cfgswap's tests:
// fake game installations, file and link assertions, and tree snapshots
// for proving an operation left the disk untouched.
//
// Helpers work on the real filesystem under t.TempDir(). Tests that only
// need registry or engine logic should use filesystem.NewMemory instead.
package testutil
