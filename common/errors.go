// Package common provides shared constants, types, and utilities
// used across the window manager preferences tool.
package common

import "errors"

// Sentinel errors for window manager operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Registry errors.
	ErrDescriptorNotFound = errors.New("window manager not found")
	ErrDeleteCurrent      = errors.New("cannot delete the current window manager")
	ErrNotInList          = errors.New("window manager is not in the list")
	ErrNoSnapshot         = errors.New("no startup snapshot to revert to")
	ErrReadOnly           = errors.New("system window managers cannot be edited")
	ErrInvalidDescriptor  = errors.New("invalid window manager descriptor")

	// Switching errors.
	ErrRestartInProgress = errors.New("a window manager restart is already in progress")
	ErrInvalidTransition = errors.New("action not allowed in the current state")
	ErrNoDisplay         = errors.New("no X display available")
	ErrSwitchFailed      = errors.New("window manager was not changed")

	// Configuration errors.
	ErrConfigLoad = errors.New("failed to load configuration")
	ErrConfigSave = errors.New("failed to save configuration")

	// Settings store errors.
	ErrSettingsOpen = errors.New("failed to open settings store")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
