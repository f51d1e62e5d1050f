package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/session"
	"github.com/yllada/wm-properties/switcher"
	"github.com/yllada/wm-properties/wm"
	"github.com/yllada/wm-properties/xprobe"
)

// MainWindow is the window manager dialog. It is the switcher.View of
// the controller.
type MainWindow struct {
	app        *Application
	window     *gtk.ApplicationWindow
	headerBar  *gtk.HeaderBar
	toasts     *adw.ToastOverlay
	content    *gtk.Box
	wmList     *WMList
	configBtn  *gtk.Button
	actionBar  *gtk.Box
	actions    []*gtk.Button
	progress   *gtk.ProgressBar
	statusBar  *gtk.Box
	statusText *gtk.Label

	controller *switcher.Controller
	launcher   switcher.ExecLauncher

	pulse       glib.SourceHandle
	openDialogs int
	quitQueued  bool
}

var _ switcher.View = (*MainWindow)(nil)

// NewMainWindow creates the dialog and its controller.
func NewMainWindow(app *Application) *MainWindow {
	mw := &MainWindow{app: app}

	mw.window = gtk.NewApplicationWindow(&app.app.Application)
	mw.window.SetTitle(common.AppName)
	mw.window.SetDefaultSize(common.DefaultWindowWidth, common.DefaultWindowHeight)
	mw.window.SetIconName("preferences-system-windows")
	mw.window.ConnectCloseRequest(mw.onCloseRequest)

	mw.createLayout()
	mw.createController()

	return mw
}

func (mw *MainWindow) createController() {
	mgr := mw.app.manager
	var restarter switcher.Restarter
	seq, err := mgr.NewSequencer(glibScheduler{})
	if err != nil {
		common.LogError("Cannot switch window managers: %v", err)
		mw.SetStatus("Window managers cannot be switched on this display")
		restarter = unavailable{err}
	} else {
		restarter = seq
	}
	mw.controller = mgr.NewController(restarter, mw, xprobe.ClientFromEnv())
	mw.wmList.Load()
	mw.updateConfigButton()

	if err != nil {
		mw.showError("No Display", err.Error())
	}
}

// unavailable refuses every restart, for displays the probe cannot use.
type unavailable struct{ err error }

func (u unavailable) Restart(*wm.Descriptor, switcher.Window, func(switcher.Outcome)) error {
	return u.err
}

// createLayout creates the window layout.
func (mw *MainWindow) createLayout() {
	mw.headerBar = gtk.NewHeaderBar()

	addButton := gtk.NewButton()
	addButton.SetIconName("list-add-symbolic")
	addButton.SetTooltipText("Add window manager")
	addButton.ConnectClicked(mw.onAdd)
	mw.headerBar.PackStart(addButton)

	menuButton := gtk.NewMenuButton()
	menuButton.SetIconName("open-menu-symbolic")
	menuButton.SetTooltipText("Menu")
	menuButton.SetMenuModel(mw.createMenu())
	mw.headerBar.PackEnd(menuButton)

	mw.window.SetTitlebar(mw.headerBar)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 0)

	mw.content = gtk.NewBox(gtk.OrientationVertical, 12)
	mw.content.SetMarginTop(12)
	mw.content.SetMarginStart(12)
	mw.content.SetMarginEnd(12)
	mw.content.SetVExpand(true)

	heading := gtk.NewLabel("Window Managers")
	heading.SetXAlign(0)
	heading.AddCSSClass("heading")
	mw.content.Append(heading)

	mw.wmList = NewWMList(mw)
	scrolled := gtk.NewScrolledWindow()
	scrolled.SetVExpand(true)
	scrolled.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)
	scrolled.SetChild(mw.wmList.GetWidget())
	mw.content.Append(scrolled)

	mw.configBtn = gtk.NewButtonWithLabel("Run Configuration Tool")
	mw.configBtn.SetHAlign(gtk.AlignStart)
	mw.configBtn.ConnectClicked(mw.onRunConfigTool)
	mw.content.Append(mw.configBtn)

	mainBox.Append(mw.content)

	mw.progress = gtk.NewProgressBar()
	mw.progress.SetShowText(true)
	mw.progress.SetVisible(false)
	mw.progress.AddCSSClass("restart-progress")
	mw.progress.SetMarginStart(12)
	mw.progress.SetMarginEnd(12)
	mw.progress.SetMarginTop(12)
	mainBox.Append(mw.progress)

	mainBox.Append(mw.createActionBar())

	mw.createStatusBar()
	mainBox.Append(mw.statusBar)

	mw.toasts = adw.NewToastOverlay()
	mw.toasts.SetChild(mainBox)
	mw.window.SetChild(mw.toasts)
}

// createActionBar creates the Try, Revert, Cancel and OK buttons.
func (mw *MainWindow) createActionBar() *gtk.Box {
	mw.actionBar = gtk.NewBox(gtk.OrientationHorizontal, 12)
	mw.actionBar.SetMarginTop(12)
	mw.actionBar.SetMarginBottom(12)
	mw.actionBar.SetMarginStart(12)
	mw.actionBar.SetMarginEnd(12)
	mw.actionBar.AddCSSClass("dialog-action-area")

	tryBtn := gtk.NewButtonWithLabel("Try")
	tryBtn.SetTooltipText("Switch now and keep this dialog open")
	tryBtn.ConnectClicked(func() { mw.act(mw.controller.Try) })
	mw.actionBar.Append(tryBtn)

	revertBtn := gtk.NewButtonWithLabel("Revert")
	revertBtn.SetTooltipText("Go back to the window manager running when the dialog opened")
	revertBtn.ConnectClicked(func() { mw.act(mw.controller.Revert) })
	mw.actionBar.Append(revertBtn)

	spacer := gtk.NewBox(gtk.OrientationHorizontal, 0)
	spacer.SetHExpand(true)
	mw.actionBar.Append(spacer)

	cancelBtn := gtk.NewButtonWithLabel("Cancel")
	cancelBtn.ConnectClicked(func() { mw.act(mw.controller.Cancel) })
	mw.actionBar.Append(cancelBtn)

	okBtn := gtk.NewButtonWithLabel("OK")
	okBtn.AddCSSClass("suggested-action")
	okBtn.ConnectClicked(func() { mw.act(mw.controller.OK) })
	mw.actionBar.Append(okBtn)

	mw.actions = []*gtk.Button{tryBtn, revertBtn, cancelBtn, okBtn}
	return mw.actionBar
}

func (mw *MainWindow) act(fn func() error) {
	if err := fn(); err != nil && !errors.Is(err, common.ErrInvalidTransition) {
		mw.showError("Error", err.Error())
	}
}

// createMenu creates the application menu.
func (mw *MainWindow) createMenu() *gio.Menu {
	menu := gio.NewMenu()

	settingsSection := gio.NewMenu()
	settingsSection.Append("Preferences", "app.preferences")
	menu.AppendSection("", &settingsSection.MenuModel)

	appSection := gio.NewMenu()
	appSection.Append("About", "app.about")
	appSection.Append("Quit", "app.quit")
	menu.AppendSection("", &appSection.MenuModel)

	mw.setupActions()

	return menu
}

// setupActions configures menu actions.
func (mw *MainWindow) setupActions() {
	app := &mw.app.app.Application

	preferencesAction := gio.NewSimpleAction("preferences", nil)
	preferencesAction.ConnectActivate(func(_ *glib.Variant) {
		NewPreferencesDialog(mw).Show()
	})
	app.AddAction(preferencesAction)
	app.SetAccelsForAction("app.preferences", []string{"<Control>comma"})

	aboutAction := gio.NewSimpleAction("about", nil)
	aboutAction.ConnectActivate(func(_ *glib.Variant) {
		mw.onAbout()
	})
	app.AddAction(aboutAction)

	quitAction := gio.NewSimpleAction("quit", nil)
	quitAction.ConnectActivate(func(_ *glib.Variant) {
		mw.window.Close()
	})
	app.AddAction(quitAction)
	app.SetAccelsForAction("app.quit", []string{"<Control>q"})

	addAction := gio.NewSimpleAction("add", nil)
	addAction.ConnectActivate(func(_ *glib.Variant) {
		mw.onAdd()
	})
	app.AddAction(addAction)
	app.SetAccelsForAction("app.add", []string{"<Control>n"})
}

// createStatusBar creates the status bar.
func (mw *MainWindow) createStatusBar() {
	mw.statusBar = gtk.NewBox(gtk.OrientationHorizontal, 12)
	mw.statusBar.AddCSSClass("status-bar")

	mw.statusText = gtk.NewLabel("Ready")
	mw.statusText.SetXAlign(0)
	mw.statusText.SetHExpand(true)
	mw.statusBar.Append(mw.statusText)
}

// Show displays the window.
func (mw *MainWindow) Show() {
	mw.window.Show()
}

// SetStatus updates the status text.
func (mw *MainWindow) SetStatus(text string) {
	if mw.statusText != nil {
		mw.statusText.SetText(text)
	}
}

func (mw *MainWindow) toast(text string) {
	mw.toasts.AddToast(adw.NewToast(text))
}

// updateConfigButton offers the configuration tool of the running
// window manager, when it has one.
func (mw *MainWindow) updateConfigButton() {
	current := mw.app.manager.Registry().Current()
	if current == nil || current.ConfigExec == "" {
		mw.configBtn.SetVisible(false)
		return
	}
	mw.configBtn.SetVisible(true)
	mw.configBtn.SetLabel(fmt.Sprintf("Run Configuration Tool for %s", current.Name))
	mw.configBtn.SetSensitive(current.IsConfigPresent)
}

func (mw *MainWindow) onRunConfigTool() {
	current := mw.app.manager.Registry().Current()
	if current == nil || current.ConfigExec == "" {
		return
	}
	if err := mw.launcher.LaunchShell(current.ConfigExec); err != nil {
		mw.showError("Error", fmt.Sprintf("Could not run %s: %v", current.ConfigExec, err))
	}
}

func (mw *MainWindow) onCloseRequest() bool {
	if mw.controller == nil || mw.controller.RequestQuit() {
		return false
	}
	// The controller quits once the outstanding restart is over.
	mw.window.SetVisible(false)
	return true
}

func (mw *MainWindow) onAdd() {
	NewEditorDialog(mw, nil).Show()
}

func (mw *MainWindow) onAbout() {
	about := gtk.NewAboutDialog()
	about.SetTransientFor(&mw.window.Window)
	about.SetModal(true)
	about.SetProgramName(common.AppName)
	about.SetLogoIconName("preferences-system-windows")
	about.SetVersion(mw.app.version)
	about.SetComments("Choose and switch the window manager of your X session.")
	about.SetLicenseType(gtk.LicenseMITX11)
	about.Show()
}

// switcher.View

// SetSensitive enables or disables the dialog while a restart runs.
func (mw *MainWindow) SetSensitive(sensitive bool) {
	mw.content.SetSensitive(sensitive)
	mw.headerBar.SetSensitive(sensitive)
	for _, btn := range mw.actions {
		btn.SetSensitive(sensitive)
	}
}

// Refresh redraws the list.
func (mw *MainWindow) Refresh() {
	mw.wmList.Load()
	mw.updateConfigButton()
}

// ShowRestartProgress pulses the progress bar until the restart ends.
func (mw *MainWindow) ShowRestartProgress(name string) {
	mw.progress.SetText(fmt.Sprintf("Starting %s", name))
	mw.progress.SetVisible(true)
	mw.SetStatus(fmt.Sprintf("Starting %s...", name))
	if mw.pulse == 0 {
		mw.pulse = glib.TimeoutAdd(uint(common.RestartDialogTick.Milliseconds()), func() bool {
			mw.progress.Pulse()
			return true
		})
	}
}

// HideRestartProgress hides the progress bar.
func (mw *MainWindow) HideRestartProgress() {
	if mw.pulse != 0 {
		glib.SourceRemove(mw.pulse)
		mw.pulse = 0
	}
	mw.progress.SetVisible(false)
	if current := mw.app.manager.Registry().Current(); current != nil {
		mw.SetStatus(fmt.Sprintf("Current window manager: %s", current.Name))
	}
}

// ShowMessage reports a failed restart. Modal messages hold back Quit
// until they are dismissed.
func (mw *MainWindow) ShowMessage(msg string, modal bool) {
	dialog := adw.NewMessageDialog(&mw.window.Window, "Window Manager", msg)
	dialog.AddResponse("close", "Close")
	dialog.SetDefaultResponse("close")
	dialog.SetCloseResponse("close")
	if modal {
		mw.openDialogs++
		dialog.ConnectResponse(func(string) {
			mw.openDialogs--
			mw.quitIfIdle()
		})
	}
	dialog.Present()
}

// OfferSessionSave tells the user the session must be saved for the new
// window manager to stick, and offers to save it now.
func (mw *MainWindow) OfferSessionSave(then func()) {
	saver := mw.app.manager.Saver()
	canSave := saver.CanSaveNow()

	dialog := adw.NewMessageDialog(&mw.window.Window, "Window Manager Changed", session.RestartInfo(canSave))
	if canSave {
		dialog.AddResponse("later", "Save Session Later")
		dialog.AddResponse("save", "Save Session Now")
		dialog.SetResponseAppearance("save", adw.ResponseSuggested)
		dialog.SetDefaultResponse("save")
		dialog.SetCloseResponse("later")
	} else {
		dialog.AddResponse("close", "Close")
		dialog.SetCloseResponse("close")
	}

	mw.openDialogs++
	dialog.ConnectResponse(func(response string) {
		finish := func() {
			mw.openDialogs--
			if then != nil {
				then()
			}
			mw.quitIfIdle()
		}
		if response != "save" {
			finish()
			return
		}
		go func() {
			if err := saver.Save(context.Background()); err != nil {
				common.LogWarn("Failed to save session: %v", err)
			}
			glib.IdleAdd(finish)
		}()
	})
	dialog.Present()
}

// Quit closes the application once no modal dialog is open.
func (mw *MainWindow) Quit() {
	mw.quitQueued = true
	mw.quitIfIdle()
}

func (mw *MainWindow) quitIfIdle() {
	if mw.quitQueued && mw.openDialogs == 0 {
		mw.app.Quit()
	}
}

// showError displays an error dialog.
func (mw *MainWindow) showError(title, message string) {
	dialog := adw.NewMessageDialog(&mw.window.Window, title, message)
	dialog.AddResponse("close", "OK")
	dialog.SetCloseResponse("close")
	dialog.Present()
}
