// Package session connects window manager switches to the desktop session.
// This file contains the Saver that asks the session manager to save.
package session

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/godbus/dbus/v5"
	"github.com/yllada/wm-properties/common"
)

const (
	xfceSessionService    = "org.xfce.SessionManager"
	xfceSessionPath       = "/org/xfce/SessionManager"
	xfceSessionCheckpoint = "org.xfce.Session.Manager.Checkpoint"
)

// ErrNoSessionSaver is returned when neither the save command nor a
// session manager that can checkpoint is available.
var ErrNoSessionSaver = errors.New("no way to save the session")

// Saver asks the session manager to save the running session so the new
// window manager is started at the next login.
type Saver struct {
	command  string
	lookPath func(string) (string, error)
	// checkpoint is swapped in tests.
	checkpoint func(ctx context.Context) error
}

// NewSaver creates a saver that prefers command and falls back to a
// session manager checkpoint over D-Bus.
func NewSaver(command string) *Saver {
	return &Saver{
		command:    command,
		lookPath:   exec.LookPath,
		checkpoint: busCheckpoint,
	}
}

// CanSaveNow reports whether the save command is installed, which
// decides if the session prompt offers to save immediately.
func (s *Saver) CanSaveNow() bool {
	if s.command == "" {
		return false
	}
	_, err := s.lookPath(s.command)
	return err == nil
}

// Save runs the save command, or asks the session manager to checkpoint.
func (s *Saver) Save(ctx context.Context) error {
	if s.CanSaveNow() {
		common.LogInfo("Saving session with %s", s.command)
		cmd := exec.CommandContext(ctx, "/bin/sh", "-c", s.command)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s: %w: %s", s.command, err, out)
		}
		return nil
	}

	if err := s.checkpoint(ctx); err != nil {
		common.LogDebug("Session checkpoint failed: %v", err)
		return fmt.Errorf("%w: %v", ErrNoSessionSaver, err)
	}
	common.LogInfo("Session checkpoint requested")
	return nil
}

func busCheckpoint(ctx context.Context) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	obj := conn.Object(xfceSessionService, dbus.ObjectPath(xfceSessionPath))
	return obj.CallWithContext(ctx, xfceSessionCheckpoint, 0, "").Err
}

// RestartInfo is the text shown after a successful switch.
func RestartInfo(canSaveNow bool) string {
	if canSaveNow {
		return "Your current window manager has been changed. In order for\n" +
			"this change to be saved, you will need to save your current\n" +
			"session. You can do so immediately by selecting \"Save Session Now\"\n" +
			"below, or you can save your session later when you log out."
	}
	return "Your current window manager has been changed. In order for\n" +
		"this change to be saved, you will need to save your current\n" +
		"session. This can be done by turning on \"Save Current Setup\"\n" +
		"when you log out."
}
