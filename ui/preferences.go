// Package ui is the GTK4 window manager preferences dialog.
// This file contains the PreferencesDialog for application settings.
package ui

import (
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/config"
)

var logLevels = []struct{ id, label string }{
	{"debug", "Debug"},
	{"info", "Info"},
	{"warn", "Warning"},
	{"error", "Error"},
}

// PreferencesDialog edits the configuration file. Changes are written
// when the window closes and apply to the next switch.
type PreferencesDialog struct {
	window     *adw.PreferencesWindow
	mainWindow *MainWindow
	config     *config.Config

	interval *gtk.SpinButton
	attempts *gtk.SpinButton
	fallback *gtk.Entry
	saveCmd  *gtk.Entry
	notify   *gtk.Switch
	level    *gtk.DropDown
}

// NewPreferencesDialog creates a new preferences dialog.
func NewPreferencesDialog(mainWindow *MainWindow) *PreferencesDialog {
	pd := &PreferencesDialog{
		mainWindow: mainWindow,
		config:     mainWindow.app.GetConfig(),
	}
	pd.build()
	return pd
}

func (pd *PreferencesDialog) build() {
	pd.window = adw.NewPreferencesWindow()
	pd.window.SetTitle("Preferences")
	pd.window.SetTransientFor(&pd.mainWindow.window.Window)
	pd.window.SetModal(true)
	pd.window.SetSearchEnabled(false)
	pd.window.SetDefaultSize(480, 520)

	page := adw.NewPreferencesPage()
	page.SetTitle("General")
	page.SetIconName("preferences-system-windows-symbolic")
	page.Add(pd.restartGroup())
	page.Add(pd.sessionGroup())
	page.Add(pd.loggingGroup())
	pd.window.Add(page)

	pd.window.ConnectCloseRequest(func() bool {
		pd.apply()
		return false
	})
}

func (pd *PreferencesDialog) restartGroup() *adw.PreferencesGroup {
	group := adw.NewPreferencesGroup()
	group.SetTitle("Restart")
	group.SetDescription("How long to wait for a window manager to start or exit")

	pd.interval = gtk.NewSpinButtonWithRange(100, 5000, 100)
	pd.interval.SetValue(float64(pd.config.PollInterval / time.Millisecond))
	group.Add(settingRow("Check interval", "Milliseconds between checks", pd.interval))

	pd.attempts = gtk.NewSpinButtonWithRange(1, 100, 1)
	pd.attempts.SetValue(float64(pd.config.PollAttempts))
	group.Add(settingRow("Attempts", "Checks before giving up on a window manager", pd.attempts))

	pd.fallback = gtk.NewEntry()
	pd.fallback.SetText(pd.config.FallbackCommand)
	group.Add(settingRow("Fallback command", "Started when nothing else will run", pd.fallback))

	return group
}

func (pd *PreferencesDialog) sessionGroup() *adw.PreferencesGroup {
	group := adw.NewPreferencesGroup()
	group.SetTitle("Session")

	pd.saveCmd = gtk.NewEntry()
	pd.saveCmd.SetText(pd.config.SaveSessionCommand)
	group.Add(settingRow("Save session command", "Run by \"Save Session Now\" after a switch", pd.saveCmd))

	pd.notify = gtk.NewSwitch()
	pd.notify.SetActive(pd.config.ShowNotifications)
	row := settingRow("Notifications", "Announce when a window manager starts or fails", pd.notify)
	row.SetActivatableWidget(pd.notify)
	group.Add(row)

	return group
}

func (pd *PreferencesDialog) loggingGroup() *adw.PreferencesGroup {
	group := adw.NewPreferencesGroup()
	group.SetTitle("Logging")

	labels := make([]string, len(logLevels))
	selected := uint(1)
	for i, l := range logLevels {
		labels[i] = l.label
		if l.id == pd.config.LogLevel {
			selected = uint(i)
		}
	}
	pd.level = gtk.NewDropDown(gtk.NewStringList(labels), nil)
	pd.level.SetSelected(selected)
	pd.level.AddCSSClass("flat")
	group.Add(settingRow("Log level", "Messages below this level are dropped", pd.level))

	return group
}

// settingRow puts widget at the end of a titled row.
func settingRow(title, subtitle string, widget gtk.Widgetter) *adw.ActionRow {
	row := adw.NewActionRow()
	row.SetTitle(title)
	row.SetSubtitle(subtitle)
	gtk.BaseWidget(widget).SetVAlign(gtk.AlignCenter)
	row.AddSuffix(widget)
	return row
}

// apply writes the dialog back into the config file.
func (pd *PreferencesDialog) apply() {
	pd.config.PollInterval = time.Duration(pd.interval.ValueAsInt()) * time.Millisecond
	pd.config.PollAttempts = pd.attempts.ValueAsInt()
	pd.config.FallbackCommand = pd.fallback.Text()
	pd.config.SaveSessionCommand = pd.saveCmd.Text()
	pd.config.ShowNotifications = pd.notify.Active()
	if idx := int(pd.level.Selected()); idx < len(logLevels) {
		pd.config.LogLevel = logLevels[idx].id
	}
	common.GetLogger().SetLevel(common.ParseLogLevel(pd.config.LogLevel))

	if err := pd.config.Save(); err != nil {
		pd.mainWindow.showError("Error", "Could not save preferences: "+err.Error())
		return
	}
	pd.mainWindow.toast("Preferences saved")
}

// Show displays the preferences dialog.
func (pd *PreferencesDialog) Show() {
	pd.window.Present()
}
