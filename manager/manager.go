// Package manager wires the window manager registry, the X probe, the
// settings store and the session glue into the pieces a frontend needs.
package manager

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/config"
	"github.com/yllada/wm-properties/session"
	"github.com/yllada/wm-properties/settings"
	"github.com/yllada/wm-properties/switcher"
	"github.com/yllada/wm-properties/wm"
	"github.com/yllada/wm-properties/xprobe"
)

// Store is the persistence the manager needs: preference keys plus the
// switch history.
type Store interface {
	common.SettingsStore
	Record(from, to, outcome string) (*settings.Record, error)
	History(limit int) ([]settings.Record, error)
	Close() error
}

type notifier interface {
	NotifySwitched(name string)
	NotifyFailed(name, reason string)
}

// Manager owns the long-lived objects shared by every frontend.
type Manager struct {
	cfg          *config.Config
	store        Store
	registry     *wm.Registry
	registryOpts []wm.Option

	ws       switcher.WindowSystem
	launcher switcher.Launcher
	closeWS  func()

	notifier  notifier
	saver     *session.Saver
	autostart switcher.SessionUpdater
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore uses store instead of opening the configured database.
func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithWindowSystem uses ws instead of connecting to $DISPLAY.
func WithWindowSystem(ws switcher.WindowSystem) Option {
	return func(m *Manager) { m.ws = ws }
}

// WithLauncher replaces the process launcher.
func WithLauncher(l switcher.Launcher) Option {
	return func(m *Manager) { m.launcher = l }
}

// WithSessionUpdater replaces the autostart entry updater.
func WithSessionUpdater(u switcher.SessionUpdater) Option {
	return func(m *Manager) { m.autostart = u }
}

// WithRegistryOptions adds options applied after the configured
// descriptor locations.
func WithRegistryOptions(opts ...wm.Option) Option {
	return func(m *Manager) { m.registryOpts = append(m.registryOpts, opts...) }
}

// NewManager opens the settings store and loads the window manager
// list described by cfg.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		launcher: switcher.ExecLauncher{},
		notifier: session.NewNotifier(cfg.ShowNotifications),
		saver:    session.NewSaver(cfg.SaveSessionCommand),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		path, err := cfg.SettingsPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate settings database: %w", err)
		}
		store, err := settings.Open(path)
		if err != nil {
			return nil, err
		}
		m.store = store
	}

	m.registry = wm.NewRegistry(m.store, append(registryOptions(cfg), m.registryOpts...)...)
	if err := m.registry.Initialize(); err != nil {
		m.store.Close()
		return nil, fmt.Errorf("failed to load window managers: %w", err)
	}

	if m.autostart == nil {
		if dir, err := session.DefaultAutostartDir(); err == nil {
			m.autostart = session.NewAutostart(dir, initCommand())
		} else {
			common.LogWarn("No autostart directory: %v", err)
		}
	}

	common.LogInfo("Loaded %d window managers, current is %s",
		len(m.registry.List()), nameOf(m.registry.Current()))
	return m, nil
}

func registryOptions(cfg *config.Config) []wm.Option {
	return []wm.Option{
		wm.WithSystemDir(cfg.SystemDir),
		wm.WithUserDir(cfg.UserDir),
		wm.WithDefaultFile(cfg.DefaultFile),
	}
}

// initCommand is the command line the autostart entry runs.
func initCommand() string {
	exe, err := os.Executable()
	if err != nil {
		exe = filepath.Base(os.Args[0])
	}
	return fmt.Sprintf("%q init", exe)
}

// Config returns the configuration the manager was built from.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Registry returns the window manager list.
func (m *Manager) Registry() *wm.Registry {
	return m.registry
}

// Store returns the settings store.
func (m *Manager) Store() Store {
	return m.store
}

// Saver returns the session saver.
func (m *Manager) Saver() *session.Saver {
	return m.saver
}

// WindowSystem connects to the X display on first use.
func (m *Manager) WindowSystem() (switcher.WindowSystem, error) {
	if m.ws != nil {
		return m.ws, nil
	}
	probe, err := xprobe.Open("")
	if err != nil {
		return nil, err
	}
	m.ws = probe
	m.closeWS = probe.Close
	return probe, nil
}

// NewSequencer creates a sequencer driven by sched.
func (m *Manager) NewSequencer(sched switcher.Scheduler) (*switcher.Sequencer, error) {
	ws, err := m.WindowSystem()
	if err != nil {
		return nil, err
	}
	return switcher.NewSequencer(ws, m.launcher, sched,
		switcher.WithPollInterval(m.cfg.PollInterval),
		switcher.WithPollAttempts(m.cfg.PollAttempts),
	), nil
}

// NewController creates a controller whose restarts are recorded in the
// history and reported through notifications.
func (m *Manager) NewController(seq switcher.Restarter, view switcher.View, client switcher.Window) *switcher.Controller {
	opts := []switcher.ControllerOption{
		switcher.WithClientWindow(client),
		switcher.WithFallbackCommand(m.cfg.FallbackCommand),
		switcher.WithOutcomeHook(m.recordOutcome),
	}
	if m.autostart != nil {
		opts = append(opts, switcher.WithSessionUpdater(m.autostart))
	}
	return switcher.NewController(m.registry, seq, view, opts...)
}

func (m *Manager) recordOutcome(previous, target *wm.Descriptor, o switcher.Outcome) {
	if _, err := m.store.Record(nameOf(previous), nameOf(target), o.String()); err != nil {
		common.LogWarn("Failed to record switch: %v", err)
	}

	switch o {
	case switcher.Success:
		common.LogInfo("Switched from %s to %s", nameOf(previous), nameOf(target))
		m.notifier.NotifySwitched(nameOf(target))
	case switcher.PreviousDidNotDie:
		common.LogWarn("Switch to %s failed: %s", nameOf(target), o)
		m.notifier.NotifyFailed(nameOf(target), switcher.MsgPreviousDidNotDie)
	default:
		common.LogWarn("Switch to %s failed: %s", nameOf(target), o)
		m.notifier.NotifyFailed(nameOf(target), "did not start")
	}
}

// History returns the most recent switches.
func (m *Manager) History(limit int) ([]settings.Record, error) {
	return m.store.History(limit)
}

// Close releases the X connection and the settings store.
func (m *Manager) Close() error {
	if m.closeWS != nil {
		m.closeWS()
		m.closeWS = nil
	}
	if n, ok := m.notifier.(*session.Notifier); ok {
		n.Close()
	}
	return m.store.Close()
}

func nameOf(d *wm.Descriptor) string {
	if d == nil {
		return "none"
	}
	return d.Name
}
