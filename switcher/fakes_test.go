package switcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yllada/wm-properties/settings"
	"github.com/yllada/wm-properties/wm"
)

// manualScheduler queues callbacks and runs them only when asked.
type manualScheduler struct {
	queue  []scheduled
	delays []time.Duration
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

func (m *manualScheduler) Schedule(delay time.Duration, fn func()) {
	m.queue = append(m.queue, scheduled{delay: delay, fn: fn})
	m.delays = append(m.delays, delay)
}

// step runs the oldest queued callback and reports whether there was one.
func (m *manualScheduler) step() bool {
	if len(m.queue) == 0 {
		return false
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	next.fn()
	return true
}

// drain runs callbacks until the queue is empty, up to limit steps.
func (m *manualScheduler) drain(t *testing.T, limit int) int {
	t.Helper()
	n := 0
	for m.step() {
		n++
		if n > limit {
			t.Fatalf("scheduler did not drain after %d steps", limit)
		}
	}
	return n
}

// fakeWindowSystem models one X server with at most one window manager.
type fakeWindowSystem struct {
	running   bool
	window    Window
	killed    []Window
	probes    int
	dieOnKill bool
}

func (f *fakeWindowSystem) IsWindowManagerRunning() bool {
	f.probes++
	return f.running
}

func (f *fakeWindowSystem) FindWindowManagerWindow(client Window) Window {
	if !f.running {
		return NoWindow
	}
	return f.window
}

func (f *fakeWindowSystem) KillClient(w Window) error {
	f.killed = append(f.killed, w)
	if f.dieOnKill {
		f.running = false
	}
	return nil
}

type fakeLauncher struct {
	ws       *fakeWindowSystem
	launched [][]string
	starts   bool
	err      error
}

func (f *fakeLauncher) Launch(argv []string) error {
	if f.err != nil {
		return f.err
	}
	f.launched = append(f.launched, argv)
	if f.starts && f.ws != nil {
		f.ws.running = true
	}
	return nil
}

// fakeView records every call the controller makes.
type fakeView struct {
	sensitive    []bool
	refreshes    int
	progress     []string
	hides        int
	messages     []string
	modal        []bool
	sessionSaves int
	quits        int
}

func (v *fakeView) SetSensitive(s bool) { v.sensitive = append(v.sensitive, s) }
func (v *fakeView) Refresh() { v.refreshes++ }
func (v *fakeView) ShowRestartProgress(n string) { v.progress = append(v.progress, n) }
func (v *fakeView) HideRestartProgress() { v.hides++ }
func (v *fakeView) Quit() { v.quits++ }
func (v *fakeView) ShowMessage(m string, modal bool) {
	v.messages = append(v.messages, m)
	v.modal = append(v.modal, modal)
}

func (v *fakeView) OfferSessionSave(then func()) {
	v.sessionSaves++
	if then != nil {
		then()
	}
}

func (v *fakeView) lastSensitive() bool {
	if len(v.sensitive) == 0 {
		return true
	}
	return v.sensitive[len(v.sensitive)-1]
}

// fakeRestarter records restarts and lets the test complete them.
type fakeRestarter struct {
	targets []*wm.Descriptor
	pending func(Outcome)
}

func (f *fakeRestarter) Restart(target *wm.Descriptor, client Window, done func(Outcome)) error {
	f.targets = append(f.targets, target)
	f.pending = done
	return nil
}

func (f *fakeRestarter) complete(t *testing.T, o Outcome) {
	t.Helper()
	require.NotNil(t, f.pending, "no restart outstanding")
	done := f.pending
	f.pending = nil
	done(o)
}

func lookPathAll(file string) (string, error) {
	return "/usr/bin/" + file, nil
}

// newRegistry builds an initialized registry with one system descriptor
// per name; the launch command is the name plus "-bin".
func newRegistry(t *testing.T, store *settings.MemoryStore, names ...string) *wm.Registry {
	t.Helper()
	root := t.TempDir()
	sys := filepath.Join(root, "system")
	require.NoError(t, os.MkdirAll(sys, 0755))
	for _, name := range names {
		content := "[Desktop Entry]\nName=" + name + "\nExec=" + name + "-bin\n"
		require.NoError(t, os.WriteFile(filepath.Join(sys, name+".desktop"), []byte(content), 0644))
	}

	r := wm.NewRegistry(store,
		wm.WithSystemDir(sys),
		wm.WithUserDir(filepath.Join(root, "user")),
		wm.WithDefaultFile(""),
		wm.WithLookPath(lookPathAll),
	)
	require.NoError(t, r.Initialize())
	return r
}

func mustFind(t *testing.T, r *wm.Registry, name string) *wm.Descriptor {
	t.Helper()
	d, err := r.Find(name)
	require.NoError(t, err)
	return d
}
