// Package filesystem provides filesystem implementations for cfgswap.
//
// Both the OS filesystem and the in-memory test filesystem are afero
// backends wrapped in the types.FS interface. Symlink support is taken
// from the backend when it offers one.
package filesystem
