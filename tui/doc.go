// Package tui is a terminal version of the window manager dialog, built
// on bubbletea. Model is the switcher.View; restart timers are delivered
// to it as messages so every controller call runs inside Update.
package tui
