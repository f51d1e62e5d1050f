// Package common provides shared constants, types, and utilities
// used across the window manager preferences tool.
package common

// SettingsStore defines the key/value store the registry persists into.
// It stands in for the desktop configuration registry.
type SettingsStore interface {
	// GetString returns the value stored under key and whether it was set.
	GetString(key string) (string, bool, error)
	// SetString stores value under key.
	SetString(key, value string) error
	// Unset removes key.
	Unset(key string) error
}
