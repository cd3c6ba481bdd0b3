// Package config loads, normalizes, and validates audiodefault configuration.
//
// It supplies defaults that reproduce the tool's standard behaviour, expands
// user paths (including tilde shortcuts), and reads an optional TOML file.
// Running without any configuration file is the normal case.
package config
