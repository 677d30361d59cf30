// Package config loads, validates, and materializes platter's TOML
// configuration, including tilde expansion and directory creation.
package config
