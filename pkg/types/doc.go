// Package types defines the core types and interfaces used throughout cfgswap.
// This includes the Profile record and its Role, the state of the
// redirected directory, and the FS interface every component performs
// filesystem work through.
package types
