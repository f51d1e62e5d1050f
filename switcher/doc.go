// Package switcher swaps the running window manager for another one.
//
// A Sequencer drives one restart: it asks the WindowSystem whether a
// window manager is running, kills it, polls until it is gone, launches
// the replacement and polls until it shows up. Each phase is bounded by
// a fixed number of timer-driven probes and exactly one Outcome is
// reported per restart.
//
// A Controller sits on top and implements the dialog states:
//
//	state      | try   revert      ok          cancel      finish
//	-----------+---------------------------------------------------
//	Idle       | Try   Revert      OK          Cancel
//	Try        |       TryRevert   OK          TryCancel   Idle
//	Revert     |                   Cancel      Cancel      Idle
//	OK         |                                           (quit)
//	Cancel     |                                           (quit)
//	TryRevert  |                   TryCancel   TryCancel   Revert
//	TryCancel  |                                           Cancel
//
// Nothing here blocks. Timers are provided by a Scheduler, which is the
// GLib main loop in the GTK frontend, the bubbletea program in the
// terminal frontend, and Loop for headless commands.
package switcher
