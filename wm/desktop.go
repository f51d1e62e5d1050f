// Package wm implements the window manager registry.
// This file contains reading and writing descriptor desktop files.
package wm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yllada/wm-properties/common"
	"gopkg.in/ini.v1"
)

const (
	sectionDesktopEntry  = "Desktop Entry"
	sectionWindowManager = "Window Manager"
	sectionDefault       = "Default"
)

var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	SkipUnrecognizableLines: true,
}

// ReadDesktopFile parses a window manager desktop file. Blank
// [Window Manager] values are treated as absent.
func ReadDesktopFile(path string) (*Descriptor, error) {
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	entry := f.Section(sectionDesktopEntry)
	manager := f.Section(sectionWindowManager)

	d := &Descriptor{
		Name:          strings.TrimSpace(entry.Key("Name").String()),
		Exec:          strings.TrimSpace(entry.Key("Exec").String()),
		TryExec:       strings.TrimSpace(entry.Key("TryExec").String()),
		ConfigExec:    strings.TrimSpace(manager.Key("ConfigExec").String()),
		ConfigTryExec: strings.TrimSpace(manager.Key("ConfigTryExec").String()),
		Location:      path,
	}
	d.SessionManaged = manager.Key("SessionManaged").MustBool(false)

	return d, nil
}

// WriteDesktopFile writes d to d.Location, keeping any unrelated keys
// already present in the file.
func WriteDesktopFile(d *Descriptor) error {
	if d.Location == "" {
		return fmt.Errorf("%w: %s has no location", common.ErrInvalidDescriptor, d.Name)
	}

	f := ini.Empty(loadOptions)
	if common.FileExists(d.Location) {
		loaded, err := ini.LoadSources(loadOptions, d.Location)
		if err == nil {
			f = loaded
		}
	}

	entry := f.Section(sectionDesktopEntry)
	entry.Key("Type").SetValue("Application")
	entry.Key("Name").SetValue(d.Name)
	entry.Key("Exec").SetValue(d.Exec)
	setOrDelete(entry, "TryExec", d.TryExec)

	manager := f.Section(sectionWindowManager)
	setOrDelete(manager, "ConfigExec", d.ConfigExec)
	setOrDelete(manager, "ConfigTryExec", d.ConfigTryExec)
	manager.Key("SessionManaged").SetValue(formatBool(d.SessionManaged))

	if err := os.MkdirAll(filepath.Dir(d.Location), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(d.Location), err)
	}
	if err := f.SaveTo(d.Location); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.Location, err)
	}
	return nil
}

// readLegacyDefault returns the WM named by the [Default] WM key of path.
func readLegacyDefault(path string) (string, bool) {
	if path == "" || !common.FileExists(path) {
		return "", false
	}
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return "", false
	}
	name := strings.TrimSpace(f.Section(sectionDefault).Key("WM").String())
	return name, name != ""
}

func setOrDelete(s *ini.Section, key, value string) {
	if value == "" {
		s.DeleteKey(key)
		return
	}
	s.Key(key).SetValue(value)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
