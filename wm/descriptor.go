// Package wm implements the window manager registry.
// This file contains the Descriptor type and its presence checks.
package wm

import (
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/yllada/wm-properties/common"
)

// Descriptor describes one installable window manager.
type Descriptor struct {
	// Name is the display name, also the sort key.
	Name string
	// Exec is the shell-style launch command.
	Exec string
	// TryExec, when set, must resolve on $PATH for the descriptor to be present.
	TryExec string
	// ConfigExec launches the window manager's own configuration tool.
	ConfigExec string
	// ConfigTryExec overrides the program probed for IsConfigPresent.
	ConfigTryExec string
	// SessionManaged is set for window managers that restore themselves
	// through the session manager.
	SessionManaged bool
	// IsUser marks descriptors loaded from (or saved to) the user directory.
	IsUser bool
	// IsPresent reports whether the launch command was found.
	IsPresent bool
	// IsConfigPresent reports whether the configuration tool was found.
	IsConfigPresent bool
	// Location is the desktop file backing the descriptor, if any.
	Location string
}

// Edit carries the fields the editor dialog may change.
type Edit struct {
	Name           string
	Exec           string
	ConfigExec     string
	SessionManaged bool
}

// LookPathFunc resolves a program name on the search path.
type LookPathFunc func(file string) (string, error)

// Argv splits Exec into an argument vector. The configuration command
// is run through the shell instead, so it has no counterpart.
func (d *Descriptor) Argv() ([]string, error) {
	args, err := shellwords.Parse(d.Exec)
	if err != nil {
		return nil, common.WrapError(err, "failed to parse command "+d.Exec)
	}
	if len(args) == 0 {
		return nil, common.ErrInvalidDescriptor
	}
	return args, nil
}

// CheckPresent probes the descriptor's programs and updates IsPresent
// and IsConfigPresent.
func (d *Descriptor) CheckPresent(lookPath LookPathFunc) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	switch {
	case d.Exec == "":
		d.IsPresent = false
	case d.TryExec != "":
		d.IsPresent = programInPath(lookPath, d.TryExec)
	default:
		d.IsPresent = true
	}

	switch {
	case d.ConfigExec == "":
		d.IsConfigPresent = false
	case d.ConfigTryExec != "":
		d.IsConfigPresent = programInPath(lookPath, d.ConfigTryExec)
	default:
		d.IsConfigPresent = programInPath(lookPath, d.ConfigExec)
	}
}

// programInPath resolves the first word of cmd.
func programInPath(lookPath LookPathFunc, cmd string) bool {
	args, err := shellwords.Parse(cmd)
	if err != nil || len(args) == 0 {
		return false
	}
	_, err = lookPath(args[0])
	return err == nil
}

// valid reports whether a descriptor may enter the list.
func (d *Descriptor) valid() bool {
	return d.Name != "" && d.Exec != "" && (d.IsUser || d.IsPresent)
}

func (d *Descriptor) clone() *Descriptor {
	c := *d
	return &c
}

// lessName orders descriptors case-insensitively by display name.
func lessName(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
