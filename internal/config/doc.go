// Package config loads, normalizes, and validates the squelch configuration.
//
// Configuration lives in a TOML file (default ~/.config/squelch/config.toml)
// and may be overridden by environment variables for the three deployment
// secrets: the watched directory, the ingestion endpoint URL, and the API key.
// A config that fails validation is a fatal startup condition; squelch has no
// partial-operation mode.
package config
