// Package manager wires the window manager registry, the X probe, the
// settings store and the session glue into the pieces a frontend needs.
// This file contains the switches run without a dialog, for the command line
// and for session startup.
package manager

import (
	"context"
	"fmt"
	"strings"

	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/switcher"
	"github.com/yllada/wm-properties/wm"
)

// headlessView is the switcher.View of commands without a window. Every
// message is logged and kept for the error returned to the caller.
type headlessView struct {
	loop     *switcher.Loop
	messages []string
	saveNow  bool
	save     func()
}

func (v *headlessView) SetSensitive(bool) {}
func (v *headlessView) Refresh() {}
func (v *headlessView) HideRestartProgress() {}
func (v *headlessView) ShowRestartProgress(n string) { common.LogInfo("Starting %s...", n) }

func (v *headlessView) ShowMessage(msg string, modal bool) {
	v.messages = append(v.messages, msg)
	if modal {
		common.LogError("%s", oneLine(msg))
	} else {
		common.LogWarn("%s", oneLine(msg))
	}
}

func (v *headlessView) OfferSessionSave(then func()) {
	if v.saveNow && v.save != nil {
		v.save()
	} else {
		common.LogInfo("%s", oneLine(sessionHint))
	}
	if then != nil {
		then()
	}
}

func (v *headlessView) Quit() {
	v.loop.Quit()
}

const sessionHint = "The window manager has been changed. Save your session " +
	"to keep it after logging out."

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SwitchOptions tunes a headless switch.
type SwitchOptions struct {
	// SaveSession saves the session after a successful switch.
	SaveSession bool
	// Client is a window of ours used to find the window manager.
	Client switcher.Window
}

// Switch makes the window manager called name current, exactly like
// selecting it and pressing OK in the dialog, and blocks until the
// restart is over.
func (m *Manager) Switch(ctx context.Context, name string, opts SwitchOptions) (*wm.Descriptor, error) {
	target, err := m.registry.Find(name)
	if err != nil {
		return nil, err
	}

	loop := switcher.NewLoop()
	seq, err := m.NewSequencer(loop)
	if err != nil {
		return nil, err
	}

	view := &headlessView{loop: loop, saveNow: opts.SaveSession}
	view.save = func() {
		if err := m.saver.Save(ctx); err != nil {
			common.LogWarn("Failed to save session: %v", err)
		}
	}
	ctl := m.NewController(seq, view, opts.Client)

	var startErr error
	loop.Post(func() {
		if err := ctl.Select(target); err != nil {
			startErr = err
			loop.Quit()
			return
		}
		if err := ctl.OK(); err != nil {
			startErr = err
			loop.Quit()
		}
	})
	if err := loop.Run(ctx); err != nil {
		return nil, err
	}
	if startErr != nil {
		return nil, startErr
	}

	current := m.registry.Current()
	if current == nil || current.Name != target.Name {
		if len(view.messages) > 0 {
			return current, fmt.Errorf("%w: %s", common.ErrSwitchFailed, oneLine(view.messages[0]))
		}
		return current, common.ErrSwitchFailed
	}
	return current, nil
}

// InitSession starts the current window manager when nothing manages
// the display yet. It is what the autostart entry runs at login. Session
// managed window managers are left to the session manager.
func (m *Manager) InitSession(ctx context.Context) error {
	current := m.registry.Current()
	if current == nil {
		common.LogWarn("No window manager configured")
		return nil
	}
	if current.SessionManaged {
		common.LogInfo("%s is session managed, nothing to do", current.Name)
		return nil
	}

	ws, err := m.WindowSystem()
	if err != nil {
		return err
	}
	if ws.IsWindowManagerRunning() {
		common.LogInfo("A window manager is already running")
		return nil
	}

	loop := switcher.NewLoop()
	seq, err := m.NewSequencer(loop)
	if err != nil {
		return err
	}

	var outcome switcher.Outcome
	loop.Post(func() {
		err := seq.Restart(current, switcher.NoWindow, func(o switcher.Outcome) {
			outcome = o
			m.recordOutcome(nil, current, o)
			loop.Quit()
		})
		if err != nil {
			outcome = switcher.NewDidNotStart
			loop.Quit()
		}
	})
	if err := loop.Run(ctx); err != nil {
		return err
	}

	if outcome != switcher.Success {
		return fmt.Errorf("%w: %s: %s", common.ErrSwitchFailed, current.Name, outcome)
	}
	return nil
}
