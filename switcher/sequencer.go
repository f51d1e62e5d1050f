// Package switcher swaps the running window manager for another one.
// This file contains the Sequencer that kills the running window manager,
// starts the new one and polls until it appears.
package switcher

import (
	"time"

	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/wm"
)

type phase int

const (
	phaseIdle phase = iota
	phaseWaitingForDeath
	phaseWaitingForStart
	phaseCompleting
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseWaitingForDeath:
		return "waiting-for-death"
	case phaseWaitingForStart:
		return "waiting-for-start"
	case phaseCompleting:
		return "completing"
	default:
		return "unknown"
	}
}

// PollStats counts the probes made by the most recent restart.
type PollStats struct {
	DeathPolls int
	StartPolls int
}

// Total returns the number of timer-driven probes.
func (p PollStats) Total() int {
	return p.DeathPolls + p.StartPolls
}

// Sequencer replaces the running window manager with another one,
// polling the window system on a timer until the old one is gone and
// the new one is up.
//
// All methods and callbacks run on the scheduler's event loop.
type Sequencer struct {
	ws       WindowSystem
	launcher Launcher
	sched    Scheduler
	interval time.Duration
	attempts int

	phase  phase
	target *wm.Descriptor
	done   func(Outcome)
	tries  int
	stats  PollStats
}

// SequencerOption configures a Sequencer.
type SequencerOption func(*Sequencer)

// WithPollInterval sets the delay between probes.
func WithPollInterval(d time.Duration) SequencerOption {
	return func(s *Sequencer) { s.interval = d }
}

// WithPollAttempts sets how many probes each phase may take.
func WithPollAttempts(n int) SequencerOption {
	return func(s *Sequencer) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// NewSequencer creates an idle sequencer.
func NewSequencer(ws WindowSystem, launcher Launcher, sched Scheduler, opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		ws:       ws,
		launcher: launcher,
		sched:    sched,
		interval: common.PollInterval,
		attempts: common.PollAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Busy reports whether a restart is outstanding.
func (s *Sequencer) Busy() bool {
	return s.phase != phaseIdle
}

// Stats returns the probe counts of the current or last restart.
func (s *Sequencer) Stats() PollStats {
	return s.stats
}

// Restart kills the running window manager, if any, and starts target.
// done is called exactly once, from the event loop, with the outcome.
// It returns ErrRestartInProgress without side effects while another
// restart is outstanding.
func (s *Sequencer) Restart(target *wm.Descriptor, client Window, done func(Outcome)) error {
	if s.phase != phaseIdle {
		return common.ErrRestartInProgress
	}
	if target == nil || done == nil {
		return common.ErrInvalidDescriptor
	}

	s.target = target
	s.done = done
	s.tries = 0
	s.stats = PollStats{}

	if !s.ws.IsWindowManagerRunning() {
		common.LogDebug("No window manager running, starting %s", target.Name)
		s.launch()
		return nil
	}

	w := s.ws.FindWindowManagerWindow(client)
	if w == NoWindow {
		common.LogWarn("A window manager is running but its window could not be found")
		s.completeLater(PreviousDidNotDie)
		return nil
	}

	common.LogDebug("Killing window manager client owning window 0x%x", uint32(w))
	if err := s.ws.KillClient(w); err != nil {
		common.LogWarn("Failed to kill window manager: %v", err)
	}
	s.phase = phaseWaitingForDeath
	s.schedulePoll()
	return nil
}

func (s *Sequencer) launch() {
	argv, err := s.target.Argv()
	if err == nil {
		err = s.launcher.Launch(argv)
	}
	if err != nil {
		common.LogError("Failed to launch %s: %v", s.target.Name, err)
		s.completeLater(NewDidNotStart)
		return
	}

	common.LogInfo("Started %s", s.target.Name)
	s.phase = phaseWaitingForStart
	s.tries = 0
	s.schedulePoll()
}

func (s *Sequencer) schedulePoll() {
	s.sched.Schedule(s.interval, s.poll)
}

func (s *Sequencer) poll() {
	running := s.ws.IsWindowManagerRunning()
	s.tries++

	switch s.phase {
	case phaseWaitingForDeath:
		s.stats.DeathPolls++
		if !running {
			s.launch()
			return
		}
		if s.tries >= s.attempts {
			s.complete(PreviousDidNotDie)
			return
		}
	case phaseWaitingForStart:
		s.stats.StartPolls++
		if running {
			s.complete(Success)
			return
		}
		if s.tries >= s.attempts {
			s.complete(NewDidNotStart)
			return
		}
	default:
		common.LogWarn("Restart poll in phase %s", s.phase)
		return
	}

	s.schedulePoll()
}

// completeLater delivers the outcome on the next loop iteration so
// callers never see it from inside Restart.
func (s *Sequencer) completeLater(o Outcome) {
	s.phase = phaseCompleting
	s.sched.Schedule(0, func() { s.complete(o) })
}

func (s *Sequencer) complete(o Outcome) {
	done := s.done
	name := s.target.Name
	s.phase = phaseIdle
	s.done = nil
	s.target = nil

	common.LogInfo("Restart of %s finished: %s (%d death polls, %d start polls)",
		name, o, s.stats.DeathPolls, s.stats.StartPolls)
	done(o)
}
