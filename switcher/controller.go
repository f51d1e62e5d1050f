// Package switcher swaps the running window manager for another one.
// This file contains the Controller state machine behind the dialog buttons.
package switcher

import (
	"errors"
	"fmt"

	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/wm"
)

// State is the dialog state of the Controller.
type State int

const (
	StateIdle State = iota
	StateTry
	StateRevert
	StateOK
	StateCancel
	// StateTryRevert is trying now and reverting afterwards.
	StateTryRevert
	// StateTryCancel is trying now and cancelling afterwards.
	StateTryCancel
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTry:
		return "try"
	case StateRevert:
		return "revert"
	case StateOK:
		return "ok"
	case StateCancel:
		return "cancel"
	case StateTryRevert:
		return "try-revert"
	case StateTryCancel:
		return "try-cancel"
	default:
		return "unknown"
	}
}

// Messages shown when a restart fails.
const (
	MsgPreviousDidNotDie = "Previous window manager did not die"
	MsgFallingBack       = "Could not start '%s'.\nFalling back to previous window manager '%s'"
	MsgGiveUp            = "Could not start fallback window manager.\n" +
		"Please run a window manager manually. You can do this by\n" +
		"selecting \"Run Program\" in the main menu."
)

// View is what the controller needs from a frontend.
type View interface {
	// SetSensitive enables or disables the dialog controls.
	SetSensitive(sensitive bool)
	// Refresh redraws the window manager list.
	Refresh()
	// ShowRestartProgress tells the user name is being started.
	ShowRestartProgress(name string)
	// HideRestartProgress removes the progress indicator.
	HideRestartProgress()
	// ShowMessage reports a failure. Modal messages must be acknowledged
	// before the frontend exits.
	ShowMessage(msg string, modal bool)
	// OfferSessionSave tells the user the session should be saved. then,
	// when non-nil, runs after the user dismissed the offer.
	OfferSessionSave(then func())
	// Quit closes the frontend.
	Quit()
}

// Restarter is the part of Sequencer the controller drives.
type Restarter interface {
	Restart(target *wm.Descriptor, client Window, done func(Outcome)) error
}

// SessionUpdater tells the session manager how to treat the current
// window manager.
type SessionUpdater interface {
	UpdateSession(current *wm.Descriptor) error
}

// OutcomeHook observes every finished restart.
type OutcomeHook func(previous, target *wm.Descriptor, o Outcome)

// Controller sequences Try, Revert, OK and Cancel against a restarter.
// It is not safe for concurrent use; all calls come from the event loop.
type Controller struct {
	registry *wm.Registry
	seq      Restarter
	view     View
	client   Window
	fallback *wm.Descriptor
	session  SessionUpdater
	hook     OutcomeHook

	state              State
	selected           *wm.Descriptor
	restartTarget      *wm.Descriptor
	restartPending     bool
	quitPending        bool
	lastTryWasFallback bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithClientWindow passes a window of ours to the probe as a hint.
func WithClientWindow(w Window) ControllerOption {
	return func(c *Controller) { c.client = w }
}

// WithFallbackCommand sets the command tried when nothing is selected.
func WithFallbackCommand(cmd string) ControllerOption {
	return func(c *Controller) {
		if cmd != "" {
			c.fallback = &wm.Descriptor{Name: cmd, Exec: cmd, IsPresent: true}
		}
	}
}

// WithSessionUpdater sets the session hook run when OK is finalized.
func WithSessionUpdater(s SessionUpdater) ControllerOption {
	return func(c *Controller) { c.session = s }
}

// WithOutcomeHook registers a function called after every restart.
func WithOutcomeHook(h OutcomeHook) ControllerOption {
	return func(c *Controller) { c.hook = h }
}

// NewController creates an idle controller with the registry's current
// window manager selected.
func NewController(registry *wm.Registry, seq Restarter, view View, opts ...ControllerOption) *Controller {
	c := &Controller{
		registry: registry,
		seq:      seq,
		view:     view,
		fallback: &wm.Descriptor{Name: common.FallbackCommand, Exec: common.FallbackCommand, IsPresent: true},
		selected: registry.Current(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the dialog state.
func (c *Controller) State() State {
	return c.state
}

// Selected returns the selected window manager, or nil.
func (c *Controller) Selected() *wm.Descriptor {
	return c.selected
}

// RestartPending reports whether a restart is outstanding.
func (c *Controller) RestartPending() bool {
	return c.restartPending
}

// Registry returns the registry the controller works on.
func (c *Controller) Registry() *wm.Registry {
	return c.registry
}

// Select changes the selection. Only allowed while idle.
func (c *Controller) Select(d *wm.Descriptor) error {
	if c.state != StateIdle {
		return c.invalid("select")
	}
	if d != nil && !c.inList(d) {
		return common.ErrNotInList
	}
	c.selected = d
	return nil
}

// DeleteSelected removes the selected window manager from the registry.
func (c *Controller) DeleteSelected() error {
	if c.state != StateIdle {
		return c.invalid("delete")
	}
	if c.selected == nil {
		return common.ErrDescriptorNotFound
	}
	if err := c.registry.Delete(c.selected); err != nil {
		return err
	}
	c.selected = nil
	c.view.Refresh()
	return nil
}

// Try switches to the selection and stays open.
func (c *Controller) Try() error {
	if c.state != StateIdle {
		return c.invalid("try")
	}
	c.state = StateTry
	c.restart(false)
	return nil
}

// OK switches to the selection, saves, and quits.
func (c *Controller) OK() error {
	switch c.state {
	case StateIdle:
		c.state = StateOK
		c.restart(false)
	case StateTry:
		c.state = StateOK
	case StateRevert:
		c.state = StateCancel
	case StateTryRevert:
		c.state = StateTryCancel
	default:
		return c.invalid("ok")
	}
	return nil
}

// Revert goes back to the window manager running when the dialog opened.
func (c *Controller) Revert() error {
	old := c.state
	switch c.state {
	case StateIdle, StateTryRevert:
		c.revertRegistry()
		c.state = StateRevert
		c.restart(old == StateTryRevert)
		c.view.Refresh()
	case StateTry:
		c.state = StateTryRevert
	default:
		return c.invalid("revert")
	}
	return nil
}

// Cancel reverts and quits.
func (c *Controller) Cancel() error {
	old := c.state
	switch c.state {
	case StateIdle, StateTryCancel:
		c.revertRegistry()
		c.state = StateCancel
		if c.selected == nil {
			common.LogWarn("No window manager to go back to")
			c.finalize(false)
			return nil
		}
		c.restart(old == StateTryCancel)
	case StateTry, StateTryRevert:
		c.state = StateTryCancel
	case StateRevert:
		c.state = StateCancel
	default:
		return c.invalid("cancel")
	}
	return nil
}

// RequestQuit is called when the frontend wants to close. It returns
// true when closing is safe now; otherwise the controller quits once
// the outstanding restart is finalized.
func (c *Controller) RequestQuit() bool {
	if !c.restartPending {
		return true
	}
	c.quitPending = true
	return false
}

func (c *Controller) invalid(op string) error {
	common.LogWarn("%s in state %s", op, c.state)
	return fmt.Errorf("%w: %s in state %s", common.ErrInvalidTransition, op, c.state)
}

func (c *Controller) inList(d *wm.Descriptor) bool {
	for _, x := range c.registry.List() {
		if x == d {
			return true
		}
	}
	return false
}

func (c *Controller) revertRegistry() {
	if err := c.registry.Revert(); err != nil {
		common.LogWarn("Failed to revert window manager list: %v", err)
	}
	c.selected = c.registry.RevertTarget()
}

func (c *Controller) restart(force bool) {
	current := c.registry.Current()

	var target *wm.Descriptor
	switch {
	case c.selected != nil:
		c.lastTryWasFallback = false
		target = c.selected
	case !c.lastTryWasFallback && c.fallback != nil:
		c.lastTryWasFallback = true
		target = c.fallback
	default:
		c.finalize(false)
		return
	}

	if !force && current == target {
		c.finalize(false)
		return
	}

	c.view.ShowRestartProgress(target.Name)
	if c.state != StateOK && c.state != StateCancel {
		c.view.SetSensitive(false)
	}
	c.restartPending = true
	c.restartTarget = target

	if err := c.seq.Restart(target, c.client, c.restartDone); err != nil {
		if errors.Is(err, common.ErrRestartInProgress) {
			common.LogWarn("Restart of %s refused: %v", target.Name, err)
			return
		}
		common.LogError("Failed to restart window manager: %v", err)
		c.restartDone(NewDidNotStart)
	}
}

func (c *Controller) restartDone(o Outcome) {
	if c.hook != nil {
		c.hook(c.registry.Current(), c.restartTarget, o)
	}
	c.restartTarget = nil

	if o == Success {
		c.finish()
	} else {
		c.failure(o)
	}
}

func (c *Controller) finish() {
	switch c.state {
	case StateTry, StateRevert, StateOK, StateCancel:
		c.view.HideRestartProgress()
		c.finalize(c.switchedAway())
	case StateTryRevert:
		_ = c.Revert()
	case StateTryCancel:
		_ = c.Cancel()
	default:
		common.LogWarn("Restart finished in state %s", c.state)
	}
}

// switchedAway reports whether the selection differs from the window
// manager that was running when the dialog opened.
func (c *Controller) switchedAway() bool {
	return c.selected != nil && c.selected != c.registry.RevertTarget()
}

func (c *Controller) failure(o Outcome) {
	current := c.registry.Current()

	switch {
	case o == PreviousDidNotDie:
		c.view.ShowMessage(MsgPreviousDidNotDie, false)
		switch c.state {
		case StateTry, StateRevert, StateOK, StateCancel:
			c.selected = current
			c.finalize(false)
		case StateTryRevert:
			_ = c.Revert()
		case StateTryCancel:
			_ = c.Cancel()
		default:
			common.LogWarn("Restart failed in state %s", c.state)
		}

	case current != c.selected:
		switch c.state {
		case StateTry, StateRevert, StateOK, StateCancel:
			c.view.ShowMessage(fmt.Sprintf(MsgFallingBack, nameOf(c.selected), nameOf(current)), false)
			c.selected = current
			c.restart(true)
		case StateTryRevert:
			_ = c.Revert()
		case StateTryCancel:
			_ = c.Cancel()
		default:
			common.LogWarn("Restart failed in state %s", c.state)
		}

	default:
		switch c.state {
		case StateOK, StateCancel:
			c.view.ShowMessage(MsgGiveUp, true)
			c.finalize(false)
		case StateTry, StateRevert:
			c.view.ShowMessage(MsgGiveUp, false)
			c.finalize(false)
		case StateTryRevert:
			_ = c.Revert()
		case StateTryCancel:
			_ = c.Cancel()
		default:
			common.LogWarn("Restart failed in state %s", c.state)
		}
	}
}

func (c *Controller) finalize(offerSave bool) {
	if err := c.registry.SetCurrent(c.selected); err != nil {
		common.LogWarn("Failed to set current window manager: %v", err)
	}
	c.view.HideRestartProgress()
	c.restartPending = false

	switch c.state {
	case StateTry, StateRevert:
		c.view.SetSensitive(true)
		c.view.Refresh()
		c.state = StateIdle
		if c.quitPending {
			c.quitAfter(offerSave)
		} else if offerSave {
			c.view.OfferSessionSave(nil)
		}

	case StateOK:
		if err := c.registry.Save(); err != nil {
			common.LogError("Failed to save window managers: %v", err)
		}
		if c.session != nil {
			if err := c.session.UpdateSession(c.registry.Current()); err != nil {
				common.LogWarn("Failed to update session: %v", err)
			}
		}
		c.quitAfter(offerSave)

	case StateCancel:
		c.quitAfter(offerSave)

	default:
		common.LogWarn("Finalize in state %s", c.state)
	}
}

func (c *Controller) quitAfter(offerSave bool) {
	if offerSave {
		c.view.OfferSessionSave(c.view.Quit)
		return
	}
	c.view.Quit()
}

func nameOf(d *wm.Descriptor) string {
	if d == nil {
		return "Unknown"
	}
	return d.Name
}
