// Package switcher swaps the running window manager for another one.
// This file contains the process launcher for window managers and their
// configuration tools.
package switcher

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/yllada/wm-properties/common"
)

// ExecLauncher starts programs detached from our process group so a
// window manager survives the dialog exiting.
type ExecLauncher struct{}

// Launch starts argv and reaps it in the background.
func (ExecLauncher) Launch(argv []string) error {
	if len(argv) == 0 {
		return common.ErrInvalidDescriptor
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	common.LogDebug("Process %s started with PID %d", argv[0], cmd.Process.Pid)

	go func() {
		err := cmd.Wait()
		if err != nil {
			common.LogDebug("Process %s exited: %v", argv[0], err)
		}
	}()
	return nil
}

// LaunchShell runs command through /bin/sh, the way configuration tools
// are started.
func (l ExecLauncher) LaunchShell(command string) error {
	return l.Launch([]string{"/bin/sh", "-c", command})
}

// CommandExists reports whether command resolves on $PATH.
func CommandExists(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
