// Package session connects window manager switches to the desktop session.
// This file contains desktop notifications for switch outcomes.
package session

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/yllada/wm-properties/common"
)

const (
	notifyService   = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyInterface = notifyService + ".Notify"
)

// NotificationType selects the icon and urgency of a notification.
type NotificationType int

const (
	NotificationInfo NotificationType = iota
	NotificationSuccess
	NotificationWarning
	NotificationError
)

// Notification is one desktop notification.
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
	Icon    string
}

// urgency values defined by freedesktop notifications.
const (
	urgencyLow byte = iota
	urgencyNormal
	urgencyCritical
)

func (n Notification) icon() string {
	if n.Icon != "" {
		return n.Icon
	}
	switch n.Type {
	case NotificationWarning:
		return "dialog-warning"
	case NotificationError:
		return "dialog-error"
	default:
		return "preferences-system-windows"
	}
}

func (n Notification) urgency() byte {
	switch n.Type {
	case NotificationError:
		return urgencyCritical
	case NotificationWarning:
		return urgencyNormal
	default:
		return urgencyLow
	}
}

func urgencyName(u byte) string {
	switch u {
	case urgencyCritical:
		return "critical"
	case urgencyNormal:
		return "normal"
	default:
		return "low"
	}
}

// Notifier posts notifications over the session bus and falls back to
// notify-send when no bus is reachable.
type Notifier struct {
	enabled bool

	mu   sync.Mutex
	conn *dbus.Conn
	// send is swapped in tests.
	send func(n Notification) error
}

// NewNotifier creates a notifier. A disabled notifier drops everything.
func NewNotifier(enabled bool) *Notifier {
	n := &Notifier{enabled: enabled}
	n.send = n.deliver
	return n
}

// Show posts n.
func (n *Notifier) Show(note Notification) {
	if !n.enabled {
		return
	}
	if err := n.send(note); err != nil {
		common.LogWarn("Error showing notification: %v", err)
	}
}

// NotifySwitched reports a completed switch.
func (n *Notifier) NotifySwitched(name string) {
	n.Show(Notification{
		Title:   "Window Manager Changed",
		Message: "Now running " + name,
		Type:    NotificationSuccess,
	})
}

// NotifyFailed reports a switch that did not complete.
func (n *Notifier) NotifyFailed(name, reason string) {
	n.Show(Notification{
		Title:   "Window Manager Not Changed",
		Message: name + ": " + reason,
		Type:    NotificationError,
	})
}

// Close releases the bus connection.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
	}
}

func (n *Notifier) deliver(note Notification) error {
	err := n.notifyBus(note)
	if err == nil {
		return nil
	}
	common.LogDebug("Notification over D-Bus failed, using notify-send: %v", err)
	return notifySend(note)
}

func (n *Notifier) bus() (*dbus.Conn, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn != nil {
		return n.conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	n.conn = conn
	return conn, nil
}

func (n *Notifier) notifyBus(note Notification) error {
	conn, err := n.bus()
	if err != nil {
		return err
	}
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(note.urgency()),
	}
	obj := conn.Object(notifyService, dbus.ObjectPath(notifyPath))
	call := obj.Call(notifyInterface, 0,
		common.AppName,
		uint32(0),
		note.icon(),
		note.Title,
		note.Message,
		[]string{},
		hints,
		int32(-1),
	)
	return call.Err
}

func notifySend(note Notification) error {
	cmd := exec.Command("notify-send",
		"--app-name="+common.AppName,
		"--icon="+note.icon(),
		"--urgency="+urgencyName(note.urgency()),
		note.Title,
		note.Message,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notify-send: %w: %s", err, out)
	}
	return nil
}
