// Package common provides shared constants, types, utilities, and interfaces
// used throughout the window manager preferences tool.
//
// The package holds the cross-cutting pieces every other package leans on:
//
//   - Constants: descriptor locations, settings keys and restart timing
//   - Errors: sentinel errors checked with errors.Is
//   - Interfaces: the settings store, notifier and logger abstractions
//   - Logger: leveled logging backed by zerolog, with file rotation
//
// # Usage
//
//	common.LogInfo("Switching to %s", wm.Name)
//
//	if errors.Is(err, common.ErrDeleteCurrent) {
//	    // Refuse the delete
//	}
package common
