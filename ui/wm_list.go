// Package ui is the GTK4 window manager preferences dialog.
// This file contains the WMList component that shows the known window
// managers.
package ui

import (
	"errors"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/wm"
)

// WMList shows the registry's window managers and forwards the
// selection to the controller.
type WMList struct {
	mainWindow *MainWindow
	listBox    *gtk.ListBox
	rows       []*WMRow
	loading    bool
}

// WMRow is one window manager in the list.
type WMRow struct {
	wm        *wm.Descriptor
	row       *gtk.ListBoxRow
	editBtn   *gtk.Button
	deleteBtn *gtk.Button
}

// NewWMList creates an empty list. Load fills it.
func NewWMList(mainWindow *MainWindow) *WMList {
	l := &WMList{
		mainWindow: mainWindow,
		listBox:    gtk.NewListBox(),
	}

	l.listBox.AddCSSClass("boxed-list")
	l.listBox.AddCSSClass("wm-list")
	l.listBox.SetSelectionMode(gtk.SelectionSingle)
	l.listBox.ConnectRowSelected(l.onRowSelected)

	return l
}

// GetWidget returns the list widget to be added to a container.
func (l *WMList) GetWidget() gtk.Widgetter {
	return l.listBox
}

// Load rebuilds the rows from the registry and restores the selection.
func (l *WMList) Load() {
	l.loading = true
	defer func() { l.loading = false }()

	for l.listBox.FirstChild() != nil {
		l.listBox.Remove(l.listBox.FirstChild())
	}
	l.rows = nil

	registry := l.mainWindow.app.manager.Registry()
	list := registry.List()
	if len(list) == 0 {
		l.showEmptyState()
		return
	}

	current := registry.Current()
	selected := l.mainWindow.controller.Selected()
	for _, d := range list {
		r := l.addRow(d, d == current)
		if d == selected {
			l.listBox.SelectRow(r.row)
		}
	}
}

func (l *WMList) showEmptyState() {
	centerBox := gtk.NewBox(gtk.OrientationVertical, 12)
	centerBox.SetHAlign(gtk.AlignCenter)
	centerBox.SetMarginTop(36)
	centerBox.SetMarginBottom(36)

	icon := gtk.NewImage()
	icon.SetFromIconName("preferences-system-windows")
	icon.SetPixelSize(64)
	icon.AddCSSClass("dim-label")
	centerBox.Append(icon)

	title := gtk.NewLabel("No window managers found")
	title.AddCSSClass("title-3")
	centerBox.Append(title)

	desc := gtk.NewLabel("Click the + button to add one")
	desc.AddCSSClass("dim-label")
	centerBox.Append(desc)

	row := gtk.NewListBoxRow()
	row.SetChild(centerBox)
	row.SetSelectable(false)
	row.SetActivatable(false)
	l.listBox.Append(row)
}

// rowTitle is the list label: the name plus "(Current)" for the running
// window manager or "(Not found)" when its program is missing.
func rowTitle(d *wm.Descriptor, isCurrent bool) string {
	switch {
	case isCurrent:
		return d.Name + " (Current)"
	case !d.IsPresent:
		return d.Name + " (Not found)"
	default:
		return d.Name
	}
}

func (l *WMList) addRow(d *wm.Descriptor, isCurrent bool) *WMRow {
	row := gtk.NewListBoxRow()
	row.AddCSSClass("wm-row")
	if isCurrent {
		row.AddCSSClass("current")
	}

	mainBox := gtk.NewBox(gtk.OrientationHorizontal, 12)
	mainBox.SetMarginTop(8)
	mainBox.SetMarginBottom(8)
	mainBox.SetMarginStart(12)
	mainBox.SetMarginEnd(12)

	infoBox := gtk.NewBox(gtk.OrientationVertical, 2)
	infoBox.SetHExpand(true)

	nameLabel := gtk.NewLabel(rowTitle(d, isCurrent))
	nameLabel.SetXAlign(0)
	nameLabel.AddCSSClass("wm-name")
	if !d.IsPresent {
		nameLabel.AddCSSClass("dim-label")
	}
	infoBox.Append(nameLabel)

	cmdLabel := gtk.NewLabel(d.Exec)
	cmdLabel.SetXAlign(0)
	cmdLabel.AddCSSClass("dim-label")
	cmdLabel.AddCSSClass("caption")
	infoBox.Append(cmdLabel)

	if d.SessionManaged {
		badge := gtk.NewLabel("Session managed")
		badge.SetHAlign(gtk.AlignStart)
		badge.AddCSSClass("session-badge")
		infoBox.Append(badge)
	}

	mainBox.Append(infoBox)

	editBtn := gtk.NewButton()
	editBtn.SetIconName("document-edit-symbolic")
	editBtn.SetTooltipText("Edit")
	editBtn.AddCSSClass("flat")
	editBtn.SetVAlign(gtk.AlignCenter)
	editBtn.SetSensitive(d.IsUser)
	editBtn.ConnectClicked(func() {
		NewEditorDialog(l.mainWindow, d).Show()
	})
	mainBox.Append(editBtn)

	deleteBtn := gtk.NewButton()
	deleteBtn.SetIconName("user-trash-symbolic")
	deleteBtn.SetTooltipText("Delete")
	deleteBtn.AddCSSClass("flat")
	deleteBtn.SetVAlign(gtk.AlignCenter)
	deleteBtn.ConnectClicked(func() {
		l.onDelete(d)
	})
	mainBox.Append(deleteBtn)

	row.SetChild(mainBox)
	l.listBox.Append(row)

	r := &WMRow{wm: d, row: row, editBtn: editBtn, deleteBtn: deleteBtn}
	l.rows = append(l.rows, r)
	return r
}

func (l *WMList) onRowSelected(row *gtk.ListBoxRow) {
	if l.loading || row == nil {
		return
	}
	idx := row.Index()
	if idx < 0 || idx >= len(l.rows) {
		return
	}
	if err := l.mainWindow.controller.Select(l.rows[idx].wm); err != nil {
		common.LogDebug("Selection ignored: %v", err)
	}
}

func (l *WMList) onDelete(d *wm.Descriptor) {
	ctl := l.mainWindow.controller
	if err := ctl.Select(d); err != nil {
		common.LogDebug("Delete ignored: %v", err)
		return
	}

	err := ctl.DeleteSelected()
	switch {
	case errors.Is(err, common.ErrDeleteCurrent):
		l.mainWindow.showError("Delete", "You cannot delete the current window manager.")
	case err != nil:
		l.mainWindow.showError("Delete", err.Error())
	default:
		l.mainWindow.toast(d.Name + " removed")
	}
}
