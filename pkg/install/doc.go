// Package install describes the on-disk layout of the managed
// application's installation: where its executable, configuration
// directory and optional launcher live relative to the installation root.
//
// Layout.IsValid is the installation check used by both import and
// game-path changes. It only looks for the executable file and never
// mutates anything.
package install
