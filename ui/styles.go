// Package ui is the GTK4 window manager preferences dialog.
// This file contains the CSS for the window manager list.
package ui

import (
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// appCSS uses theme-aware colors so it works in dark and light mode.
const appCSS = `
/* Window manager rows */
.wm-row {
    border-radius: 12px;
    margin: 4px 12px;
    padding: 4px;
    border: 1px solid alpha(currentColor, 0.15);
}

.wm-row:hover {
    background-color: alpha(currentColor, 0.05);
}

.wm-row.current {
    border-left: 4px solid #2ec27e;
    background-color: alpha(#2ec27e, 0.1);
}

.wm-name {
    font-weight: 600;
    font-size: 14px;
}

.session-badge {
    background-color: alpha(#3584e4, 0.2);
    color: #3584e4;
    font-size: 10px;
    font-weight: 600;
    padding: 2px 8px;
    border-radius: 10px;
}

/* Restart progress */
progressbar.restart-progress trough,
progressbar.restart-progress progress {
    min-height: 4px;
}

label.error {
    color: #e01b24;
    font-weight: 500;
}

/* Status Bar */
.status-bar {
    border-top: 1px solid alpha(currentColor, 0.15);
    padding: 6px 12px;
    opacity: 0.8;
}

list.wm-list {
    background-color: transparent;
}

list.wm-list > row:selected {
    background-color: alpha(#3584e4, 0.15);
}

.wm-row button.flat:hover {
    background-color: alpha(currentColor, 0.1);
}
`

// LoadStyles installs appCSS on the default display.
func LoadStyles() {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return
	}

	provider := gtk.NewCSSProvider()
	provider.LoadFromString(appCSS)

	gtk.StyleContextAddProviderForDisplay(
		display,
		provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
}
