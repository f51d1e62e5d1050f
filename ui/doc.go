// Package ui is the GTK4 window manager preferences dialog.
//
// The dialog lists the known window managers and lets the user try,
// revert, accept or cancel a switch. Those buttons drive a
// switcher.Controller; MainWindow is its View and glibScheduler runs the
// restart sequencer's timers on the GTK main loop.
//
// # Thread Safety
//
// GTK operations must execute on the main thread. Work done in a
// goroutine, such as saving the session, hands its result back with
// glib.IdleAdd:
//
//	go func() {
//	    err := saver.Save(ctx)
//	    glib.IdleAdd(func() {
//	        finish(err)
//	    })
//	}()
//
// # File Organization
//
//   - app.go: application lifecycle and the GTK scheduler
//   - main_window.go: dialog layout and the controller's View
//   - wm_list.go: window manager list
//   - editor_dialog.go: add and edit dialog
//   - preferences.go: settings dialog
//   - styles.go: CSS styling
package ui
