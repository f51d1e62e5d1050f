package switcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/settings"
	"github.com/yllada/wm-properties/wm"
)

type controllerFixture struct {
	store    *settings.MemoryStore
	registry *wm.Registry
	seq      *fakeRestarter
	view     *fakeView
	ctl      *Controller
}

// newControllerFixture builds a controller over Alpha, Beta and Gamma
// with Alpha current.
func newControllerFixture(t *testing.T, opts ...ControllerOption) *controllerFixture {
	t.Helper()
	f := &controllerFixture{
		store: settings.NewMemoryStore(),
		seq:   &fakeRestarter{},
		view:  &fakeView{},
	}
	f.registry = newRegistry(t, f.store, "Alpha", "Beta", "Gamma")
	f.ctl = NewController(f.registry, f.seq, f.view, opts...)
	require.Equal(t, "Alpha", f.registry.Current().Name)
	return f
}

func (f *controllerFixture) selectName(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, f.ctl.Select(mustFind(t, f.registry, name)))
}

func TestController_TrySuccess(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Beta")

	require.NoError(t, f.ctl.Try())
	assert.Equal(t, StateTry, f.ctl.State())
	assert.True(t, f.ctl.RestartPending())
	assert.False(t, f.view.lastSensitive())
	assert.Equal(t, []string{"Beta"}, f.view.progress)
	require.Len(t, f.seq.targets, 1)
	assert.Equal(t, "Beta", f.seq.targets[0].Name)

	f.seq.complete(t, Success)

	assert.Equal(t, StateIdle, f.ctl.State())
	assert.False(t, f.ctl.RestartPending())
	assert.True(t, f.view.lastSensitive())
	assert.Equal(t, "Beta", f.registry.Current().Name)
	assert.Equal(t, 1, f.view.sessionSaves, "switched away from the startup window manager")
	assert.Zero(t, f.view.quits)
}

func TestController_TrySameIsNoop(t *testing.T) {
	f := newControllerFixture(t)

	require.NoError(t, f.ctl.Try())

	assert.Empty(t, f.seq.targets)
	assert.Equal(t, StateIdle, f.ctl.State())
	assert.Zero(t, f.view.sessionSaves)
}

func TestController_NoDoubleDispatch(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Beta")

	require.NoError(t, f.ctl.Try())
	require.NoError(t, f.ctl.OK())

	assert.Equal(t, StateOK, f.ctl.State())
	assert.Len(t, f.seq.targets, 1, "OK while trying must not start a second restart")

	f.seq.complete(t, Success)

	assert.Len(t, f.seq.targets, 1)
	assert.Equal(t, 1, f.view.quits)
	current, ok, err := f.store.GetString(common.SettingsKeyCurrent)
	require.NoError(t, err)
	assert.True(t, ok, "OK saves the registry")
	assert.Equal(t, "Beta-bin", current)
}

func TestController_FallbackOnStartFailure(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Beta")

	require.NoError(t, f.ctl.Try())
	f.seq.complete(t, NewDidNotStart)

	require.Len(t, f.seq.targets, 2, "exactly one fallback restart")
	assert.Equal(t, "Alpha", f.seq.targets[1].Name)
	assert.Same(t, f.registry.Current(), f.seq.targets[1])
	require.Len(t, f.view.messages, 1)
	assert.Contains(t, f.view.messages[0], "Could not start 'Beta'")
	assert.Contains(t, f.view.messages[0], "'Alpha'")
	assert.Equal(t, StateTry, f.ctl.State())

	f.seq.complete(t, NewDidNotStart)

	assert.Len(t, f.seq.targets, 2, "no further automatic retries")
	require.Len(t, f.view.messages, 2)
	assert.Equal(t, MsgGiveUp, f.view.messages[1])
	assert.False(t, f.view.modal[1])
	assert.Equal(t, StateIdle, f.ctl.State())
	assert.Equal(t, "Alpha", f.registry.Current().Name)
	assert.True(t, f.view.lastSensitive())
}

func TestController_GiveUpIsModalWhenQuitting(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Beta")

	require.NoError(t, f.ctl.OK())
	f.seq.complete(t, NewDidNotStart)
	f.seq.complete(t, NewDidNotStart)

	require.Len(t, f.view.modal, 2)
	assert.True(t, f.view.modal[1])
	assert.Equal(t, 1, f.view.quits)
}

func TestController_PreviousDidNotDie(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Gamma")

	require.NoError(t, f.ctl.Try())
	f.seq.complete(t, PreviousDidNotDie)

	assert.Len(t, f.seq.targets, 1)
	assert.Equal(t, []string{MsgPreviousDidNotDie}, f.view.messages)
	assert.Equal(t, StateIdle, f.ctl.State())
	assert.Equal(t, "Alpha", f.ctl.Selected().Name, "selection falls back to the running window manager")
	assert.Equal(t, "Alpha", f.registry.Current().Name)
}

func TestController_TryThenRevert(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Beta")

	require.NoError(t, f.ctl.Try())
	require.NoError(t, f.ctl.Revert())
	assert.Equal(t, StateTryRevert, f.ctl.State())
	assert.Len(t, f.seq.targets, 1)

	f.seq.complete(t, Success)

	assert.Equal(t, StateRevert, f.ctl.State())
	require.Len(t, f.seq.targets, 2, "queued revert runs after the try")
	assert.Equal(t, "Alpha", f.seq.targets[1].Name)

	f.seq.complete(t, Success)
	assert.Equal(t, StateIdle, f.ctl.State())
	assert.Equal(t, "Alpha", f.registry.Current().Name)
	assert.Same(t, f.registry.RevertTarget(), f.registry.Current())
}

func TestController_RevertAfterTry(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Beta")

	require.NoError(t, f.ctl.Try())
	f.seq.complete(t, Success)
	require.Equal(t, StateIdle, f.ctl.State())
	require.Equal(t, "Beta", f.registry.Current().Name)

	require.NoError(t, f.ctl.Revert())
	assert.Equal(t, StateRevert, f.ctl.State())
	require.Len(t, f.seq.targets, 2, "revert restarts the startup window manager")
	assert.Equal(t, "Alpha", f.seq.targets[1].Name)
	assert.Equal(t, "Beta", f.registry.Current().Name, "Beta runs until the restart finishes")

	f.seq.complete(t, Success)
	assert.Equal(t, StateIdle, f.ctl.State())
	assert.Equal(t, "Alpha", f.registry.Current().Name)
	assert.Same(t, f.registry.RevertTarget(), f.registry.Current())
	assert.Equal(t, 1, f.view.sessionSaves, "switching back does not offer another save")
}

func TestController_CancelAfterTry(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Beta")

	require.NoError(t, f.ctl.Try())
	f.seq.complete(t, Success)

	require.NoError(t, f.ctl.Cancel())
	assert.Equal(t, StateCancel, f.ctl.State())
	require.Len(t, f.seq.targets, 2)
	assert.Equal(t, "Alpha", f.seq.targets[1].Name)
	assert.Zero(t, f.view.quits, "cancel waits for the restart")

	f.seq.complete(t, Success)
	assert.Equal(t, 1, f.view.quits)
	assert.Equal(t, "Alpha", f.registry.Current().Name)
}

func TestController_TryRevertFailureStillReverts(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Beta")

	require.NoError(t, f.ctl.Try())
	require.NoError(t, f.ctl.Revert())
	f.seq.complete(t, NewDidNotStart)

	assert.Equal(t, StateRevert, f.ctl.State())
	require.Len(t, f.seq.targets, 2)
	assert.Equal(t, "Alpha", f.seq.targets[1].Name, "revert is forced even though Alpha is current")
}

func TestController_TryThenCancel(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Beta")

	require.NoError(t, f.ctl.Try())
	require.NoError(t, f.ctl.Cancel())
	assert.Equal(t, StateTryCancel, f.ctl.State())

	f.seq.complete(t, Success)
	assert.Equal(t, StateCancel, f.ctl.State())
	require.Len(t, f.seq.targets, 2)
	assert.Equal(t, "Alpha", f.seq.targets[1].Name)
	assert.Zero(t, f.view.quits)

	f.seq.complete(t, Success)
	assert.Equal(t, 1, f.view.quits)
}

func TestController_TryRevertThenOK(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Beta")

	require.NoError(t, f.ctl.Try())
	require.NoError(t, f.ctl.Revert())
	require.NoError(t, f.ctl.OK())
	assert.Equal(t, StateTryCancel, f.ctl.State())
}

func TestController_OKWithoutChange(t *testing.T) {
	f := newControllerFixture(t)

	require.NoError(t, f.ctl.OK())

	assert.Empty(t, f.seq.targets)
	assert.Equal(t, 1, f.view.quits)
	current, _, err := f.store.GetString(common.SettingsKeyCurrent)
	require.NoError(t, err)
	assert.Equal(t, "Alpha-bin", current)
}

func TestController_CancelFromIdle(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Gamma")

	require.NoError(t, f.ctl.Cancel())

	assert.Empty(t, f.seq.targets, "Alpha is still running")
	assert.Equal(t, 1, f.view.quits)
}

func TestController_InvalidTransitions(t *testing.T) {
	f := newControllerFixture(t)
	f.selectName(t, "Beta")
	require.NoError(t, f.ctl.Try())

	err := f.ctl.Try()
	assert.True(t, errors.Is(err, common.ErrInvalidTransition))
	err = f.ctl.Select(mustFind(t, f.registry, "Gamma"))
	assert.True(t, errors.Is(err, common.ErrInvalidTransition))
	assert.True(t, errors.Is(f.ctl.DeleteSelected(), common.ErrInvalidTransition))

	require.NoError(t, f.ctl.OK())
	assert.True(t, errors.Is(f.ctl.Revert(), common.ErrInvalidTransition))
	assert.True(t, errors.Is(f.ctl.OK(), common.ErrInvalidTransition))
	assert.Len(t, f.seq.targets, 1)
}

func TestController_FallbackCommandOnce(t *testing.T) {
	store := settings.NewMemoryStore()
	registry := newRegistry(t, store)
	seq := &fakeRestarter{}
	view := &fakeView{}
	ctl := NewController(registry, seq, view, WithFallbackCommand("twm"))

	require.Nil(t, ctl.Selected())
	require.NoError(t, ctl.Try())
	require.Len(t, seq.targets, 1)
	assert.Equal(t, "twm", seq.targets[0].Exec)

	seq.complete(t, NewDidNotStart)
	assert.Equal(t, StateIdle, ctl.State())
	assert.Equal(t, []string{MsgGiveUp}, view.messages)

	require.NoError(t, ctl.Try())
	assert.Len(t, seq.targets, 1, "the fallback is only tried once")
	assert.Equal(t, StateIdle, ctl.State())
}

func TestController_DeleteSelected(t *testing.T) {
	f := newControllerFixture(t)

	err := f.ctl.DeleteSelected()
	assert.True(t, errors.Is(err, common.ErrDeleteCurrent))
	assert.Len(t, f.registry.List(), 3)

	f.selectName(t, "Gamma")
	require.NoError(t, f.ctl.DeleteSelected())
	assert.Nil(t, f.ctl.Selected())
	assert.Len(t, f.registry.List(), 2)
	assert.Equal(t, 1, f.view.refreshes)
}

func TestController_QuitWhilePending(t *testing.T) {
	f := newControllerFixture(t)
	assert.True(t, f.ctl.RequestQuit())

	f.selectName(t, "Beta")
	require.NoError(t, f.ctl.Try())
	assert.False(t, f.ctl.RequestQuit())
	assert.Zero(t, f.view.quits)

	f.seq.complete(t, Success)
	assert.Equal(t, 1, f.view.quits)
	assert.Equal(t, 1, f.view.sessionSaves)
}

type recordingSession struct {
	updated []*wm.Descriptor
}

func (r *recordingSession) UpdateSession(current *wm.Descriptor) error {
	r.updated = append(r.updated, current)
	return nil
}

func TestController_HooksOnOK(t *testing.T) {
	sess := &recordingSession{}
	type call struct {
		from, to string
		o        Outcome
	}
	var calls []call
	hook := func(previous, target *wm.Descriptor, o Outcome) {
		calls = append(calls, call{nameOf(previous), nameOf(target), o})
	}

	f := newControllerFixture(t, WithSessionUpdater(sess), WithOutcomeHook(hook))
	f.selectName(t, "Gamma")
	require.NoError(t, f.ctl.OK())
	f.seq.complete(t, Success)

	assert.Equal(t, []call{{"Alpha", "Gamma", Success}}, calls)
	require.Len(t, sess.updated, 1)
	assert.Equal(t, "Gamma", sess.updated[0].Name)
}

// TestController_WithSequencer wires the real sequencer to check that a
// queued OK never produces a second launch.
func TestController_WithSequencer(t *testing.T) {
	store := settings.NewMemoryStore()
	registry := newRegistry(t, store, "Alpha", "Beta")
	ws := &fakeWindowSystem{running: true, window: 9, dieOnKill: true}
	launcher := &fakeLauncher{ws: ws, starts: true}
	sched := &manualScheduler{}
	seq := NewSequencer(ws, launcher, sched)
	view := &fakeView{}
	ctl := NewController(registry, seq, view)

	require.NoError(t, ctl.Select(mustFind(t, registry, "Beta")))
	require.NoError(t, ctl.Try())
	require.NoError(t, ctl.OK())
	sched.drain(t, 100)

	assert.Equal(t, [][]string{{"Beta-bin"}}, launcher.launched)
	assert.Equal(t, 1, view.quits)
	assert.Equal(t, "Beta", registry.Current().Name)
}
