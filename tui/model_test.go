package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/config"
	"github.com/yllada/wm-properties/manager"
	"github.com/yllada/wm-properties/settings"
	"github.com/yllada/wm-properties/switcher"
	"github.com/yllada/wm-properties/wm"
)

// fakeDisplay makes every launched program that is not broken the
// running window manager.
type fakeDisplay struct {
	running bool
	broken  map[string]bool
}

func (d *fakeDisplay) IsWindowManagerRunning() bool { return d.running }

func (d *fakeDisplay) FindWindowManagerWindow(switcher.Window) switcher.Window {
	if d.running {
		return 3
	}
	return switcher.NoWindow
}

func (d *fakeDisplay) KillClient(switcher.Window) error {
	d.running = false
	return nil
}

func (d *fakeDisplay) Launch(argv []string) error {
	if !d.broken[argv[0]] {
		d.running = true
	}
	return nil
}

type harness struct {
	m       *Model
	display *fakeDisplay
	msgs    chan tea.Msg
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	for name, exec := range map[string]string{"Broken": "broken-wm", "Metacity": "metacity", "Sawfish": "sawfish"} {
		content := "[Desktop Entry]\nName=" + name + "\nExec=" + exec + "\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, exec+".desktop"), []byte(content), 0644))
	}

	cfg := config.DefaultConfig()
	cfg.SystemDir = dir
	cfg.UserDir = filepath.Join(dir, "user")
	cfg.DefaultFile = ""
	cfg.PollInterval = time.Millisecond
	cfg.PollAttempts = 3
	cfg.ShowNotifications = false
	cfg.SaveSessionCommand = ""

	store, err := settings.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.SetString(common.SettingsKeyCurrent, "metacity"))

	display := &fakeDisplay{running: true, broken: map[string]bool{"broken-wm": true}}
	mgr, err := manager.NewManager(cfg,
		manager.WithStore(store),
		manager.WithWindowSystem(display),
		manager.WithLauncher(display),
		manager.WithSessionUpdater(nopUpdater{}),
		manager.WithRegistryOptions(wm.WithLookPath(func(file string) (string, error) {
			return "/usr/bin/" + file, nil
		})),
	)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	m, err := New(mgr)
	require.NoError(t, err)

	msgs := make(chan tea.Msg, 16)
	m.sched.attach(func(msg tea.Msg) { msgs <- msg })
	return &harness{m: m, display: display, msgs: msgs}
}

type nopUpdater struct{}

func (nopUpdater) UpdateSession(*wm.Descriptor) error { return nil }

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		h.m.Update(msg)
	}
}

// settle delivers scheduled callbacks until no restart is pending.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for h.m.ctl.RestartPending() {
		select {
		case msg := <-h.msgs:
			h.m.Update(msg)
		case <-deadline:
			t.Fatal("restart did not finish")
		}
	}
}

func (h *harness) current() string {
	return h.m.mgr.Registry().Current().Name
}

func TestModel_InitialState(t *testing.T) {
	h := newHarness(t)

	require.Len(t, h.m.rows, 3)
	assert.Equal(t, "Metacity", h.m.rows[h.m.cursor].Name)
	assert.Contains(t, h.m.View(), "Metacity (Current)")
	assert.Contains(t, h.m.View(), "Current window manager: Metacity")
}

func TestModel_TryThenSaveLater(t *testing.T) {
	h := newHarness(t)

	h.press("down", "t")
	assert.Equal(t, "Sawfish", h.m.restarting)
	assert.False(t, h.m.sensitive)

	h.settle(t)
	assert.Equal(t, "Sawfish", h.current())
	assert.True(t, h.m.sensitive)
	assert.Empty(t, h.m.restarting)
	require.True(t, h.m.savePrompt, "switching away offers to save the session")
	assert.Contains(t, h.m.View(), "has been changed")

	h.press("esc")
	assert.False(t, h.m.savePrompt)
	assert.False(t, h.m.done)

	h.press("q")
	assert.True(t, h.m.done)
}

func TestModel_OKFallsBack(t *testing.T) {
	h := newHarness(t)

	h.press("up", "enter")
	h.settle(t)

	assert.Equal(t, "Metacity", h.current())
	assert.Contains(t, h.m.message, "Could not start 'Broken'")
	assert.False(t, h.m.messageModal)
	assert.True(t, h.m.done, "non-modal messages do not hold back quitting")
}

func TestModel_GiveUpHoldsQuit(t *testing.T) {
	h := newHarness(t)
	h.display.broken["metacity"] = true

	h.press("up", "enter")
	h.settle(t)

	assert.Equal(t, switcher.MsgGiveUp, h.m.message)
	assert.True(t, h.m.messageModal)
	assert.True(t, h.m.quitQueued)
	assert.False(t, h.m.done)

	h.press("enter")
	assert.Empty(t, h.m.message)
	assert.True(t, h.m.done)
}

func TestModel_KeysIgnoredWhileRestarting(t *testing.T) {
	h := newHarness(t)

	h.press("down", "t", "up")
	assert.Equal(t, "Sawfish", h.m.rows[h.m.cursor].Name)

	h.press("q")
	assert.False(t, h.m.done, "quit waits for the restart")
	assert.Contains(t, h.m.View(), "Starting Sawfish")

	h.settle(t)
	// Quitting after a switch still offers to save the session first.
	require.True(t, h.m.savePrompt)
	h.press("esc")
	assert.True(t, h.m.done)
}

func TestModel_DeleteCurrent(t *testing.T) {
	h := newHarness(t)

	h.press("d")
	assert.Equal(t, "You cannot delete the current window manager", h.m.status)
	assert.Len(t, h.m.rows, 3)

	h.press("down", "d")
	assert.Equal(t, "Sawfish removed", h.m.status)
	assert.Len(t, h.m.rows, 2)
}

func TestModel_ConfigTool(t *testing.T) {
	h := newHarness(t)
	var ran []string
	h.m.shell = func(cmd string) error {
		ran = append(ran, cmd)
		return nil
	}

	h.press("g")
	assert.Empty(t, ran)
	assert.Contains(t, h.m.status, "no configuration tool")
}
