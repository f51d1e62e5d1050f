// Package xprobe answers whether a window manager runs on an X display.
// This file contains the X11 connection behind the Probe.
package xprobe

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/switcher"
)

// Open connects to display, or to $DISPLAY when display is empty.
func Open(display string) (*Probe, error) {
	if display == "" && os.Getenv("DISPLAY") == "" {
		return nil, common.ErrNoDisplay
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNoDisplay, err)
	}
	common.LogDebug("Connected to X display, root window 0x%x", uint32(xu.RootWin()))

	return &Probe{
		srv:   &xServer{xu: xu},
		close: func() { xu.Conn().Close() },
	}, nil
}

// Close drops the X connection.
func (p *Probe) Close() {
	if p.close != nil {
		p.close()
		p.close = nil
	}
}

// ClientFromEnv returns the window named by $WINDOWID, which terminal
// emulators export, or switcher.NoWindow.
func ClientFromEnv() switcher.Window {
	v := strings.TrimSpace(os.Getenv("WINDOWID"))
	if v == "" {
		return switcher.NoWindow
	}
	id, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		common.LogDebug("Ignoring WINDOWID %q: %v", v, err)
		return switcher.NoWindow
	}
	return switcher.Window(id)
}

type xServer struct {
	xu *xgbutil.XUtil
}

func (s *xServer) root() switcher.Window {
	return switcher.Window(s.xu.RootWin())
}

func (s *xServer) eventMask(w switcher.Window) (uint32, error) {
	attrs, err := xproto.GetWindowAttributes(s.xu.Conn(), xproto.Window(w)).Reply()
	if err != nil {
		return 0, err
	}
	return attrs.YourEventMask, nil
}

func (s *xServer) selectInput(w switcher.Window, mask uint32) error {
	err := xproto.ChangeWindowAttributesChecked(
		s.xu.Conn(),
		xproto.Window(w),
		xproto.CwEventMask,
		[]uint32{mask},
	).Check()
	if _, ok := err.(xproto.AccessError); ok {
		return errAccess
	}
	return err
}

func (s *xServer) windowProperty(w switcher.Window, atom string) (switcher.Window, error) {
	v, err := xprop.PropValWindow(xprop.GetProperty(s.xu, xproto.Window(w), atom))
	if err != nil {
		return switcher.NoWindow, err
	}
	return switcher.Window(v), nil
}

func (s *xServer) queryTree(w switcher.Window) (switcher.Window, []switcher.Window, error) {
	reply, err := xproto.QueryTree(s.xu.Conn(), xproto.Window(w)).Reply()
	if err != nil {
		return switcher.NoWindow, nil, err
	}
	children := make([]switcher.Window, len(reply.Children))
	for i, c := range reply.Children {
		children[i] = switcher.Window(c)
	}
	return switcher.Window(reply.Parent), children, nil
}

func (s *xServer) hasWMState(w switcher.Window) bool {
	_, err := icccm.WmStateGet(s.xu, xproto.Window(w))
	return err == nil
}

func (s *xServer) killClient(w switcher.Window) error {
	return xproto.KillClientChecked(s.xu.Conn(), uint32(w)).Check()
}
