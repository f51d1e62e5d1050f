// Package tui is a terminal version of the window manager dialog.
// This file contains the scheduler that runs restart polls inside Update.
package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yllada/wm-properties/switcher"
)

// callbackMsg carries a scheduled switcher callback into Update.
type callbackMsg struct{ fn func() }

// scheduler turns switcher timers into bubbletea messages. send is set
// once the program exists.
type scheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

var _ switcher.Scheduler = (*scheduler)(nil)

func (s *scheduler) Schedule(delay time.Duration, fn func()) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()
		if send != nil {
			send(callbackMsg{fn: fn})
		}
	})
}

func (s *scheduler) attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}
