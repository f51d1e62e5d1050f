// Package ui is the GTK4 window manager preferences dialog.
// This file contains the EditorDialog for adding and editing user window
// managers.
package ui

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/wm"
)

// EditorDialog adds a window manager, or edits a user one. Changes stay
// in memory until OK saves the registry.
type EditorDialog struct {
	mainWindow   *MainWindow
	descriptor   *wm.Descriptor
	window       *gtk.Window
	nameEntry    *gtk.Entry
	execEntry    *gtk.Entry
	configEntry  *gtk.Entry
	sessionCheck *gtk.CheckButton
	errorLabel   *gtk.Label
}

// NewEditorDialog builds the dialog. A nil descriptor adds a new one.
func NewEditorDialog(mainWindow *MainWindow, d *wm.Descriptor) *EditorDialog {
	ed := &EditorDialog{mainWindow: mainWindow, descriptor: d}
	ed.build()
	return ed
}

func (ed *EditorDialog) build() {
	title := "Add New Window Manager"
	if ed.descriptor != nil {
		title = "Edit Window Manager"
	}

	ed.window = gtk.NewWindow()
	ed.window.SetTitle(title)
	ed.window.SetTransientFor(&ed.mainWindow.window.Window)
	ed.window.SetModal(true)
	ed.window.SetDefaultSize(420, 360)
	ed.window.SetResizable(false)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 0)

	contentBox := gtk.NewBox(gtk.OrientationVertical, 8)
	contentBox.SetMarginTop(24)
	contentBox.SetMarginBottom(12)
	contentBox.SetMarginStart(24)
	contentBox.SetMarginEnd(24)

	ed.nameEntry = ed.addField(contentBox, "Name", "My Window Manager")
	ed.execEntry = ed.addField(contentBox, "Command", "mywm --replace")
	ed.configEntry = ed.addField(contentBox, "Configuration Command", "mywm-config")

	separator := gtk.NewSeparator(gtk.OrientationHorizontal)
	separator.SetMarginTop(16)
	separator.SetMarginBottom(8)
	contentBox.Append(separator)

	ed.sessionCheck = gtk.NewCheckButton()
	ed.sessionCheck.SetLabel("Window manager is session managed")
	contentBox.Append(ed.sessionCheck)

	ed.errorLabel = gtk.NewLabel("")
	ed.errorLabel.SetXAlign(0)
	ed.errorLabel.AddCSSClass("error")
	ed.errorLabel.SetVisible(false)
	contentBox.Append(ed.errorLabel)

	if d := ed.descriptor; d != nil {
		ed.nameEntry.SetText(d.Name)
		ed.execEntry.SetText(d.Exec)
		ed.configEntry.SetText(d.ConfigExec)
		ed.sessionCheck.SetActive(d.SessionManaged)
	}

	mainBox.Append(contentBox)

	buttonBox := gtk.NewBox(gtk.OrientationHorizontal, 12)
	buttonBox.SetHAlign(gtk.AlignEnd)
	buttonBox.SetMarginTop(12)
	buttonBox.SetMarginBottom(24)
	buttonBox.SetMarginStart(24)
	buttonBox.SetMarginEnd(24)

	cancelBtn := gtk.NewButtonWithLabel("Cancel")
	cancelBtn.ConnectClicked(func() {
		ed.window.Close()
	})
	buttonBox.Append(cancelBtn)

	okBtn := gtk.NewButtonWithLabel("OK")
	okBtn.AddCSSClass("suggested-action")
	okBtn.ConnectClicked(ed.onOK)
	buttonBox.Append(okBtn)

	ed.execEntry.ConnectActivate(func() {
		okBtn.Activate()
	})

	mainBox.Append(buttonBox)
	ed.window.SetChild(mainBox)
}

func (ed *EditorDialog) addField(box *gtk.Box, label, placeholder string) *gtk.Entry {
	l := gtk.NewLabel(label)
	l.SetXAlign(0)
	l.SetMarginTop(8)
	l.AddCSSClass("dim-label")
	box.Append(l)

	entry := gtk.NewEntry()
	entry.SetPlaceholderText(placeholder)
	box.Append(entry)
	return entry
}

func (ed *EditorDialog) edit() wm.Edit {
	return wm.Edit{
		Name:           ed.nameEntry.Text(),
		Exec:           ed.execEntry.Text(),
		ConfigExec:     ed.configEntry.Text(),
		SessionManaged: ed.sessionCheck.Active(),
	}
}

func (ed *EditorDialog) onOK() {
	registry := ed.mainWindow.app.manager.Registry()

	var err error
	if ed.descriptor == nil {
		var d *wm.Descriptor
		d, err = registry.Create(ed.edit())
		if err == nil {
			common.LogInfo("Added window manager %s", d.Name)
		}
	} else {
		err = registry.Update(ed.descriptor, ed.edit())
	}

	if err != nil {
		// Validation messages read "...: Name cannot be empty".
		ed.errorLabel.SetText(err.Error())
		ed.errorLabel.SetVisible(true)
		return
	}

	ed.window.Close()
	ed.mainWindow.Refresh()
}

// Show displays the dialog with the name field focused.
func (ed *EditorDialog) Show() {
	ed.window.Show()
	ed.nameEntry.GrabFocus()
}
