package ui

import (
	"os"
	"path/filepath"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/config"
	"github.com/yllada/wm-properties/manager"
	"github.com/yllada/wm-properties/switcher"
)

// Application represents the main application.
type Application struct {
	app     *adw.Application
	window  *MainWindow
	manager *manager.Manager
	version string
}

// NewApplication creates the GTK application around mgr.
func NewApplication(mgr *manager.Manager, version string) *Application {
	app := adw.NewApplication(common.AppID, gio.ApplicationFlagsNone)

	application := &Application{
		app:     app,
		manager: mgr,
		version: version,
	}

	app.ConnectActivate(application.onActivate)

	return application
}

// Run runs the application
func (a *Application) Run(args []string) int {
	return a.app.Run(args)
}

func (a *Application) onActivate() {
	// A second activation just raises the existing dialog.
	if a.window != nil {
		a.window.window.Present()
		return
	}

	a.setupAppIcon()
	LoadStyles()

	a.window = NewMainWindow(a)
	a.window.Show()
}

// setupAppIcon adds the bundled icons to the theme search path.
func (a *Application) setupAppIcon() {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return
	}

	iconTheme := gtk.IconThemeGetForDisplay(display)
	if iconTheme == nil {
		return
	}

	if execPath, err := os.Executable(); err == nil {
		iconTheme.AddSearchPath(filepath.Join(filepath.Dir(execPath), "assets", "icons"))
	}
	if cwd, err := os.Getwd(); err == nil {
		iconTheme.AddSearchPath(filepath.Join(cwd, "assets", "icons"))
	}

	gtk.WindowSetDefaultIconName("preferences-system-windows")
}

// GetManager returns the window manager manager.
func (a *Application) GetManager() *manager.Manager {
	return a.manager
}

// GetConfig returns the configuration
func (a *Application) GetConfig() *config.Config {
	return a.manager.Config()
}

// GetVersion returns the application version
func (a *Application) GetVersion() string {
	return a.version
}

// Quit closes the application
func (a *Application) Quit() {
	a.app.Quit()
}

// QuitFromSignal quits from any goroutine.
func (a *Application) QuitFromSignal() {
	glib.IdleAdd(func() {
		a.app.Quit()
	})
}

// glibScheduler runs switcher callbacks on the GTK main loop.
type glibScheduler struct{}

var _ switcher.Scheduler = glibScheduler{}

func (glibScheduler) Schedule(delay time.Duration, fn func()) {
	glib.TimeoutAdd(uint(delay/time.Millisecond), func() bool {
		fn()
		return false
	})
}
