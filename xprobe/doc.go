// Package xprobe answers whether a window manager runs on an X display
// and which window belongs to it.
//
// Probe errors are never returned to callers. Anything the server
// refuses to tell us is reported as "not running" or switcher.NoWindow,
// and the sequencer's bounded polling takes care of the rest.
package xprobe
