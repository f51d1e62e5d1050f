// Package switcher swaps the running window manager for another one.
// This file contains the outcome type and the interfaces the sequencer
// runs against.
package switcher

import "time"

// Outcome is the result of one restart.
type Outcome int

const (
	// Success means the new window manager took over.
	Success Outcome = iota
	// PreviousDidNotDie means the running window manager could not be
	// located or did not exit in time.
	PreviousDidNotDie
	// NewDidNotStart means the launched window manager never appeared.
	NewDidNotStart
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case PreviousDidNotDie:
		return "previous-did-not-die"
	case NewDidNotStart:
		return "new-did-not-start"
	default:
		return "unknown"
	}
}

// Window is an X11 window id.
type Window uint32

// NoWindow is the null window.
const NoWindow Window = 0

// WindowSystem answers questions about the running window manager.
// Implementations never return errors from the probes; anything they
// cannot determine is reported as false or NoWindow.
type WindowSystem interface {
	// IsWindowManagerRunning reports whether some client holds
	// substructure redirection on the root window.
	IsWindowManagerRunning() bool
	// FindWindowManagerWindow returns a window owned by the running
	// window manager, using client as a hint when it is not NoWindow.
	FindWindowManagerWindow(client Window) Window
	// KillClient asks the server to disconnect the client owning w.
	KillClient(w Window) error
}

// Launcher starts a window manager process without waiting for it.
type Launcher interface {
	Launch(argv []string) error
}

// Scheduler runs fn once after delay on the event loop that owns the
// sequencer and controller.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(delay time.Duration, fn func())

// Schedule calls f(delay, fn).
func (f SchedulerFunc) Schedule(delay time.Duration, fn func()) {
	f(delay, fn)
}
