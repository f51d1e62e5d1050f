// Package session connects window manager switches to the desktop
// session: notifications on the session bus, saving the session after
// a switch, and the autostart entry that restarts a window manager the
// session manager does not track.
package session
