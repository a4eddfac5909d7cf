// Package config handles configuration management for cfgswap.
// Settings are layered from embedded TOML defaults, an optional TOML
// settings file, and CFGSWAP_ environment variables. The package also
// persists the process state: the managed installation path and the
// active profile.
package config
