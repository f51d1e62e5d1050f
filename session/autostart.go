// Package session connects window manager switches to the desktop session.
// This file contains the autostart entry that starts the current window
// manager at login.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/switcher"
	"github.com/yllada/wm-properties/wm"
	"gopkg.in/ini.v1"
)

// AutostartFileName is the autostart entry that starts the current
// window manager at login.
const AutostartFileName = "wm-properties-init.desktop"

// Autostart keeps an XDG autostart entry in sync with the current
// window manager. A session managed window manager is restored by the
// session manager itself, so the entry is removed; any other one is
// started at login by running the init command.
type Autostart struct {
	dir     string
	command string
}

var _ switcher.SessionUpdater = (*Autostart)(nil)

// NewAutostart creates an updater writing into dir. command is the
// program that starts the current window manager, normally
// "wm-properties init".
func NewAutostart(dir, command string) *Autostart {
	return &Autostart{dir: dir, command: command}
}

// DefaultAutostartDir returns $XDG_CONFIG_HOME/autostart.
func DefaultAutostartDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "autostart"), nil
}

// Path returns the autostart entry path.
func (a *Autostart) Path() string {
	return filepath.Join(a.dir, AutostartFileName)
}

// UpdateSession implements switcher.SessionUpdater.
func (a *Autostart) UpdateSession(current *wm.Descriptor) error {
	if current == nil {
		return nil
	}

	if current.SessionManaged {
		err := os.Remove(a.Path())
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove autostart entry: %w", err)
		}
		common.LogInfo("%s is session managed, autostart entry removed", current.Name)
		return nil
	}

	if err := common.EnsureDir(a.dir); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}

	f := ini.Empty()
	sec := f.Section("Desktop Entry")
	sec.Key("Type").SetValue("Application")
	sec.Key("Name").SetValue(common.AppName)
	sec.Key("Comment").SetValue("Start " + current.Name)
	sec.Key("Exec").SetValue(a.command)
	sec.Key("NoDisplay").SetValue("true")
	sec.Key("X-GNOME-Autostart-Phase").SetValue("WindowManager")

	if err := f.SaveTo(a.Path()); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}
	common.LogInfo("Autostart entry written for %s", current.Name)
	return nil
}
