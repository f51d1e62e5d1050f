// Package wm implements the window manager registry.
//
// The registry materializes window manager descriptors from desktop files
// in a system directory and a user directory, keeps them sorted by name,
// and tracks which one is current. A snapshot of the list and of the
// current window manager is taken by Initialize so the dialog can revert
// to whatever was running when it opened.
//
// Descriptor files are desktop entries with an extra group:
//
//	[Desktop Entry]
//	Name=Metacity
//	Exec=metacity
//	TryExec=metacity
//
//	[Window Manager]
//	ConfigExec=metacity-setup
//	SessionManaged=true
//
// The current window manager is persisted by launch command under
// common.SettingsKeyCurrent.
package wm
