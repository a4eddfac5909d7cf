// Package paths provides centralized path handling for cfgswap.
//
// This package implements the XDG Base Directory specification and provides
// a consistent API for locating everything cfgswap keeps on disk:
//
//   - the profile store root and the per-profile directories
//   - the profile registry file
//   - the optional settings file and the persisted process state
//   - the log file
//
// # Environment Variables
//
//   - CFGSWAP_DATA_DIR: Override data directory (default: $XDG_DATA_HOME/cfgswap)
//   - CFGSWAP_CONFIG_DIR: Override config directory (default: $XDG_CONFIG_HOME/cfgswap)
//   - CFGSWAP_STATE_DIR: Override state directory (default: $XDG_STATE_HOME/cfgswap)
//
// # Layout
//
//	$DATA/profiles.yaml          registry
//	$DATA/profiles/<uuid>/       one directory per profile
//	$CONFIG/cfgswap.toml         settings (optional)
//	$CONFIG/state.toml           install path + active profile
//	$STATE/cfgswap.log           log file
package paths
