// Package xprobe answers whether a window manager runs on an X display.
// This file contains the Probe logic, independent of the X connection.
package xprobe

import (
	"errors"

	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/switcher"
)

// Properties advertising a window manager's check window, newest first.
var supportingCheckAtoms = []string{
	"_NET_SUPPORTING_WM_CHECK",
	"_WIN_SUPPORTING_WM_CHECK",
}

// errAccess is returned by server.selectInput when another client
// already selected the requested events.
var errAccess = errors.New("access denied")

// server is the slice of the X protocol the probe uses.
type server interface {
	root() switcher.Window
	eventMask(w switcher.Window) (uint32, error)
	selectInput(w switcher.Window, mask uint32) error
	windowProperty(w switcher.Window, atom string) (switcher.Window, error)
	queryTree(w switcher.Window) (parent switcher.Window, children []switcher.Window, err error)
	hasWMState(w switcher.Window) bool
	killClient(w switcher.Window) error
}

// substructureRedirect is the event mask bit only one client may hold.
const substructureRedirect = 1 << 20

// Probe implements switcher.WindowSystem against an X server.
type Probe struct {
	srv   server
	close func()
}

var _ switcher.WindowSystem = (*Probe)(nil)

// IsWindowManagerRunning tries to select SubstructureRedirect on the
// root window. The server refuses when a window manager holds it.
func (p *Probe) IsWindowManagerRunning() bool {
	root := p.srv.root()
	mask, err := p.srv.eventMask(root)
	if err != nil {
		common.LogDebug("Failed to read root event mask: %v", err)
		return false
	}

	err = p.srv.selectInput(root, mask|substructureRedirect)
	if errors.Is(err, errAccess) {
		return true
	}
	if err != nil {
		common.LogDebug("Root input selection failed: %v", err)
	}

	if err := p.srv.selectInput(root, mask); err != nil {
		common.LogWarn("Failed to restore root event mask: %v", err)
	}
	return false
}

// FindWindowManagerWindow returns a window owned by the running window
// manager, or switcher.NoWindow.
func (p *Probe) FindWindowManagerWindow(client switcher.Window) switcher.Window {
	if w := p.fromSupportingCheck(); w != switcher.NoWindow {
		common.LogDebug("Window manager found through check window 0x%x", uint32(w))
		return w
	}
	if client != switcher.NoWindow {
		if w := p.fromClient(client); w != switcher.NoWindow {
			common.LogDebug("Window manager found through frame of 0x%x", uint32(client))
			return w
		}
	}
	if w := p.fromHunt(); w != switcher.NoWindow {
		common.LogDebug("Window manager guessed from frame 0x%x", uint32(w))
		return w
	}
	return switcher.NoWindow
}

// KillClient disconnects the client owning w.
func (p *Probe) KillClient(w switcher.Window) error {
	if w == switcher.NoWindow {
		return common.ErrDescriptorNotFound
	}
	return p.srv.killClient(w)
}

// fromSupportingCheck follows the check property on the root window and
// accepts the target only when it points back at itself.
func (p *Probe) fromSupportingCheck() switcher.Window {
	root := p.srv.root()
	for _, atom := range supportingCheckAtoms {
		w, err := p.srv.windowProperty(root, atom)
		if err != nil || w == switcher.NoWindow {
			continue
		}
		self, err := p.srv.windowProperty(w, atom)
		if err != nil || self != w {
			continue
		}
		return w
	}
	return switcher.NoWindow
}

// fromClient walks up from client to the child of the root it lives
// in, which is the frame the window manager reparented it into.
func (p *Probe) fromClient(client switcher.Window) switcher.Window {
	root := p.srv.root()
	w := client
	for {
		parent, _, err := p.srv.queryTree(w)
		if err != nil || parent == switcher.NoWindow {
			return switcher.NoWindow
		}
		if parent == root {
			if w == client {
				// not reparented, so nothing manages it
				return switcher.NoWindow
			}
			return w
		}
		w = parent
	}
}

// fromHunt looks for a top-level window without WM_STATE that has a
// managed descendant.
func (p *Probe) fromHunt() switcher.Window {
	_, children, err := p.srv.queryTree(p.srv.root())
	if err != nil {
		return switcher.NoWindow
	}
	for _, child := range children {
		if p.srv.hasWMState(child) {
			continue
		}
		if p.hasManagedDescendant(child) {
			return child
		}
	}
	return switcher.NoWindow
}

func (p *Probe) hasManagedDescendant(w switcher.Window) bool {
	_, children, err := p.srv.queryTree(w)
	if err != nil {
		return false
	}
	for _, child := range children {
		if p.srv.hasWMState(child) || p.hasManagedDescendant(child) {
			return true
		}
	}
	return false
}
