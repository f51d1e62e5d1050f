// Package main provides the entry point for wm-properties, the window
// manager preferences tool of the GNOME desktop.
//
// Without arguments it opens the dialog that lists the installed window
// managers and switches between them. The same switch is available from
// the terminal:
//
//	wm-properties tui
//	wm-properties list
//	wm-properties switch NAME
//	wm-properties init
//
// Environment:
//
//	DISPLAY must name the X display whose window manager is switched.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yllada/wm-properties/cli"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/manager"
	"github.com/yllada/wm-properties/ui"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Execute(ctx, cli.Options{
		Build: cli.BuildInfo{
			Version: appVersion,
			Time:    buildTime,
			Commit:  commitSHA,
		},
		RunGUI: runGUI,
	}, os.Args[1:])

	stop()
	common.CloseLogger()
	os.Exit(code)
}

// runGUI starts the GTK application. GTK handles its own shutdown when
// the dialog closes, so ctx only stops it on a signal.
func runGUI(ctx context.Context, mgr *manager.Manager) int {
	app := ui.NewApplication(mgr, appVersion)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			common.LogInfo("Received signal, shutting down")
			app.QuitFromSignal()
		case <-done:
		}
	}()

	exitCode := app.Run([]string{os.Args[0]})
	if exitCode != 0 {
		common.LogWarn("Application exited with code %d", exitCode)
	}
	return exitCode
}
