// Package switcher swaps the running window manager for another one.
// This file contains Loop, the scheduler used when there is no GUI main loop.
package switcher

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Loop is a minimal single-goroutine event loop for frontends without a
// main loop of their own. Schedule may be called from any goroutine;
// callbacks run one at a time on the goroutine that called Run, ordered
// by due time and then by scheduling order.
type Loop struct {
	mu     sync.Mutex
	timers timerQueue
	seq    uint64
	wake   chan struct{}
	quit   bool
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Schedule runs fn after delay.
func (l *Loop) Schedule(delay time.Duration, fn func()) {
	l.mu.Lock()
	l.seq++
	heap.Push(&l.timers, &timer{when: time.Now().Add(delay), seq: l.seq, fn: fn})
	l.mu.Unlock()
	l.notify()
}

// Post runs fn as soon as possible.
func (l *Loop) Post(fn func()) {
	l.Schedule(0, fn)
}

// Quit makes Run return after the callback currently running.
func (l *Loop) Quit() {
	l.mu.Lock()
	l.quit = true
	l.mu.Unlock()
	l.notify()
}

// Pending returns the number of callbacks not yet run.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.timers.Len()
}

// Run dispatches callbacks until Quit is called or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		if l.quit {
			l.mu.Unlock()
			return nil
		}
		var wait time.Duration = -1
		if l.timers.Len() > 0 {
			next := l.timers[0]
			wait = time.Until(next.when)
			if wait <= 0 {
				heap.Pop(&l.timers)
				l.mu.Unlock()
				next.fn()
				continue
			}
		}
		l.mu.Unlock()

		var t *time.Timer
		var tick <-chan time.Time
		if wait > 0 {
			t = time.NewTimer(wait)
			tick = t.C
		}

		select {
		case <-ctx.Done():
			stopTimer(t)
			return ctx.Err()
		case <-l.wake:
		case <-tick:
		}
		stopTimer(t)
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

func (l *Loop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

type timer struct {
	when time.Time
	seq  uint64
	fn   func()
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].when.Equal(q[j].when) {
		return q[i].seq < q[j].seq
	}
	return q[i].when.Before(q[j].when)
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*timer)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
