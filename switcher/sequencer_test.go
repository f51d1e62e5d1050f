package switcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/wm"
)

var sawfish = &wm.Descriptor{Name: "Sawfish", Exec: "sawfish --replace"}

type outcomes []Outcome

func (o *outcomes) record(out Outcome) { *o = append(*o, out) }

func TestSequencer_PreviousNeverDies(t *testing.T) {
	ws := &fakeWindowSystem{running: true, window: 42}
	sched := &manualScheduler{}
	seq := NewSequencer(ws, &fakeLauncher{ws: ws}, sched, WithPollInterval(0))

	var got outcomes
	require.NoError(t, seq.Restart(sawfish, NoWindow, got.record))

	fires := sched.drain(t, 100)

	assert.Equal(t, outcomes{PreviousDidNotDie}, got)
	assert.Equal(t, 10, fires, "exactly ten timer-driven polls")
	assert.Equal(t, PollStats{DeathPolls: 10}, seq.Stats())
	assert.Equal(t, []Window{42}, ws.killed)
	assert.False(t, seq.Busy())
}

func TestSequencer_SuccessPath(t *testing.T) {
	ws := &fakeWindowSystem{running: true, window: 7, dieOnKill: true}
	launcher := &fakeLauncher{ws: ws, starts: true}
	sched := &manualScheduler{}
	seq := NewSequencer(ws, launcher, sched)

	var got outcomes
	require.NoError(t, seq.Restart(sawfish, NoWindow, got.record))
	sched.drain(t, 100)

	assert.Equal(t, outcomes{Success}, got)
	assert.Equal(t, PollStats{DeathPolls: 1, StartPolls: 1}, seq.Stats())
	assert.Equal(t, [][]string{{"sawfish", "--replace"}}, launcher.launched)
	for _, d := range sched.delays {
		assert.Equal(t, common.PollInterval, d)
	}
}

func TestSequencer_NothingRunning(t *testing.T) {
	ws := &fakeWindowSystem{}
	launcher := &fakeLauncher{ws: ws, starts: true}
	sched := &manualScheduler{}
	seq := NewSequencer(ws, launcher, sched)

	var got outcomes
	require.NoError(t, seq.Restart(sawfish, NoWindow, got.record))
	assert.Len(t, launcher.launched, 1, "launches right away")
	assert.Empty(t, ws.killed)

	sched.drain(t, 100)
	assert.Equal(t, outcomes{Success}, got)
	assert.Equal(t, PollStats{StartPolls: 1}, seq.Stats())
}

func TestSequencer_NewNeverStarts(t *testing.T) {
	ws := &fakeWindowSystem{}
	sched := &manualScheduler{}
	seq := NewSequencer(ws, &fakeLauncher{ws: ws}, sched, WithPollAttempts(3))

	var got outcomes
	require.NoError(t, seq.Restart(sawfish, NoWindow, got.record))
	fires := sched.drain(t, 100)

	assert.Equal(t, outcomes{NewDidNotStart}, got)
	assert.Equal(t, 3, fires)
}

func TestSequencer_WindowNotFound(t *testing.T) {
	ws := &fakeWindowSystem{running: true, window: NoWindow}
	sched := &manualScheduler{}
	seq := NewSequencer(ws, &fakeLauncher{ws: ws}, sched)

	var got outcomes
	require.NoError(t, seq.Restart(sawfish, NoWindow, got.record))
	assert.Empty(t, got, "outcome is never delivered from inside Restart")
	assert.True(t, seq.Busy())

	sched.drain(t, 10)
	assert.Equal(t, outcomes{PreviousDidNotDie}, got)
	assert.Empty(t, ws.killed)
	assert.Zero(t, seq.Stats().Total())
}

func TestSequencer_LaunchFails(t *testing.T) {
	ws := &fakeWindowSystem{}
	sched := &manualScheduler{}
	seq := NewSequencer(ws, &fakeLauncher{err: errors.New("exec format error")}, sched)

	var got outcomes
	require.NoError(t, seq.Restart(sawfish, NoWindow, got.record))
	sched.drain(t, 10)

	assert.Equal(t, outcomes{NewDidNotStart}, got)
	assert.Zero(t, seq.Stats().Total())
}

func TestSequencer_BadCommand(t *testing.T) {
	ws := &fakeWindowSystem{}
	sched := &manualScheduler{}
	launcher := &fakeLauncher{ws: ws}
	seq := NewSequencer(ws, launcher, sched)

	var got outcomes
	require.NoError(t, seq.Restart(&wm.Descriptor{Name: "Broken", Exec: `"unterminated`}, NoWindow, got.record))
	sched.drain(t, 10)

	assert.Equal(t, outcomes{NewDidNotStart}, got)
	assert.Empty(t, launcher.launched)
}

func TestSequencer_RefusesSecondRestart(t *testing.T) {
	ws := &fakeWindowSystem{running: true, window: 3, dieOnKill: true}
	launcher := &fakeLauncher{ws: ws, starts: true}
	sched := &manualScheduler{}
	seq := NewSequencer(ws, launcher, sched)

	var first, second outcomes
	require.NoError(t, seq.Restart(sawfish, NoWindow, first.record))

	err := seq.Restart(&wm.Descriptor{Name: "Other", Exec: "other"}, NoWindow, second.record)
	assert.True(t, errors.Is(err, common.ErrRestartInProgress))

	sched.drain(t, 100)
	assert.Equal(t, outcomes{Success}, first)
	assert.Empty(t, second)
	assert.Equal(t, [][]string{{"sawfish", "--replace"}}, launcher.launched)
}

func TestSequencer_RestartFromCallback(t *testing.T) {
	ws := &fakeWindowSystem{}
	launcher := &fakeLauncher{ws: ws}
	sched := &manualScheduler{}
	seq := NewSequencer(ws, launcher, sched, WithPollAttempts(1))

	var got outcomes
	require.NoError(t, seq.Restart(sawfish, NoWindow, func(o Outcome) {
		got.record(o)
		launcher.starts = true
		require.NoError(t, seq.Restart(sawfish, NoWindow, got.record))
	}))
	sched.drain(t, 10)

	assert.Equal(t, outcomes{NewDidNotStart, Success}, got)
}

func TestSequencer_InvalidArguments(t *testing.T) {
	seq := NewSequencer(&fakeWindowSystem{}, &fakeLauncher{}, &manualScheduler{})
	assert.Error(t, seq.Restart(nil, NoWindow, func(Outcome) {}))
	assert.Error(t, seq.Restart(sawfish, NoWindow, nil))
	assert.False(t, seq.Busy())
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{Success, "success"},
		{PreviousDidNotDie, "previous-did-not-die"},
		{NewDidNotStart, "new-did-not-start"},
		{Outcome(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("Outcome.String() = %v, want %v", got, tt.want)
		}
	}
}
