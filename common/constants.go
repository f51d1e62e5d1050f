// Package common provides shared constants, types, and utilities
// used across the window manager preferences tool.
package common

import "time"

// Application metadata.
const (
	// AppID is the unique identifier for the application.
	AppID = "org.gnome.WindowManagerProperties"
	// AppName is the display name of the application.
	AppName = "Window Manager"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "wm-properties"
)

// File names used by the application.
const (
	ConfigFileName   = "config.yaml"
	SettingsFileName = "settings.db"
	LogFileName      = "wm-properties.log"
	// DescriptorSuffix is the suffix every window manager descriptor file carries.
	DescriptorSuffix = ".desktop"
)

// Well-known locations of window manager descriptors.
const (
	// SystemDescriptorDir holds the descriptors shipped by the distribution.
	SystemDescriptorDir = "/usr/share/gnome/wm-properties"
	// UserDescriptorSubdir is the per-user descriptor directory, relative to the config dir.
	UserDescriptorSubdir = "wm-properties"
	// LegacyDefaultFile names the system-wide default window manager.
	LegacyDefaultFile = "/usr/share/default.wm"
)

// Settings keys consumed and produced by the window manager registry.
const (
	SettingsPrefix     = "/desktop/gnome/applications/window_manager"
	SettingsKeyCurrent = SettingsPrefix + "/current"
	SettingsKeyDefault = SettingsPrefix + "/default"
)

// Restart timing.
const (
	// PollInterval is how often the sequencer checks for a window manager.
	PollInterval = 1 * time.Second
	// PollAttempts is how many checks are made before giving up.
	PollAttempts = 10
	// RestartDialogTick is how often the progress countdown is refreshed.
	RestartDialogTick = 250 * time.Millisecond
)

// FallbackCommand is started when no window manager is selected at all.
const FallbackCommand = "twm"

// SaveSessionCommand asks the session manager to save the current session.
const SaveSessionCommand = "save-session"

// UI constants.
const (
	// DefaultWindowWidth is the default main window width.
	DefaultWindowWidth = 460
	// DefaultWindowHeight is the default main window height.
	DefaultWindowHeight = 420
	// DialogMargin is the standard margin for dialog content.
	DialogMargin = 24
)
