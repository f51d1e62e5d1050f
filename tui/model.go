// Package tui is a terminal version of the window manager dialog.
// This file contains the Bubble Tea model, which is the controller's view.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/manager"
	"github.com/yllada/wm-properties/session"
	"github.com/yllada/wm-properties/switcher"
	"github.com/yllada/wm-properties/wm"
)

// sessionSavedMsg reports the end of a "Save Session Now".
type sessionSavedMsg struct{ err error }

// Model is the bubbletea model of the dialog and the controller's View.
type Model struct {
	mgr   *manager.Manager
	ctl   *switcher.Controller
	sched *scheduler
	shell func(string) error

	rows   []*wm.Descriptor
	cursor int

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	sensitive  bool
	restarting string
	status     string

	message      string
	messageModal bool
	savePrompt   bool
	saveThen     func()
	saving       bool

	quitQueued bool
	done       bool
	tick       bool
}

var _ switcher.View = (*Model)(nil)

// New builds the model and its controller. The window system is opened
// here, so a missing display is reported before the terminal is taken.
func New(mgr *manager.Manager) (*Model, error) {
	m := &Model{
		mgr:       mgr,
		sched:     &scheduler{},
		shell:     switcher.ExecLauncher{}.LaunchShell,
		keys:      defaultKeys(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		sensitive: true,
	}

	seq, err := mgr.NewSequencer(m.sched)
	if err != nil {
		return nil, err
	}
	m.ctl = mgr.NewController(seq, m, switcher.NoWindow)
	m.reload()
	if current := mgr.Registry().Current(); current != nil {
		m.status = "Current window manager: " + current.Name
	}
	return m, nil
}

// Run shows the dialog on the terminal until it quits or ctx ends.
func Run(ctx context.Context, mgr *manager.Manager) error {
	m, err := New(mgr)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.sched.attach(p.Send)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	// A message still on screen at exit would be lost with the alt screen.
	if m.message != "" {
		fmt.Fprintln(os.Stderr, m.message)
	}
	return err
}

// reload copies the registry into the rows and puts the cursor on the
// selected window manager.
func (m *Model) reload() {
	m.rows = m.mgr.Registry().List()
	selected := m.ctl.Selected()
	for i, d := range m.rows {
		if d == selected {
			m.cursor = i
			return
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case callbackMsg:
		msg.fn()

	case sessionSavedMsg:
		m.saving = false
		if msg.err != nil {
			common.LogWarn("Failed to save session: %v", msg.err)
			m.status = "Could not save the session"
		} else {
			m.status = "Session saved"
		}
		m.finishSavePrompt()

	case spinner.TickMsg:
		if m.restarting != "" {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if m.tick {
		m.tick = false
		cmds = append(cmds, m.spinner.Tick)
	}
	if m.quitQueued && !m.messageModal && !m.savePrompt {
		m.done = true
		cmds = append(cmds, tea.Quit)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case m.message != "":
		if key.Matches(msg, m.keys.Close) {
			m.message = ""
			m.messageModal = false
		}
		return nil

	case m.savePrompt:
		if m.saving {
			return nil
		}
		switch {
		case key.Matches(msg, m.keys.Save) && m.mgr.Saver().CanSaveNow():
			m.saving = true
			m.status = "Saving session..."
			return m.saveSession()
		case key.Matches(msg, m.keys.Later), key.Matches(msg, m.keys.Close):
			m.finishSavePrompt()
		}
		return nil
	}

	if key.Matches(msg, m.keys.Quit) {
		if m.ctl.RequestQuit() {
			m.quitQueued = true
		} else {
			m.status = "Quitting after the restart..."
		}
		return nil
	}
	if !m.sensitive {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Try):
		m.act(m.ctl.Try)
	case key.Matches(msg, m.keys.Revert):
		m.act(m.ctl.Revert)
	case key.Matches(msg, m.keys.OK):
		m.act(m.ctl.OK)
	case key.Matches(msg, m.keys.Cancel):
		m.act(m.ctl.Cancel)
	case key.Matches(msg, m.keys.Delete):
		m.deleteSelected()
	case key.Matches(msg, m.keys.Config):
		m.runConfigTool()
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	if err := m.ctl.Select(m.rows[m.cursor]); err != nil {
		common.LogDebug("Selection ignored: %v", err)
	}
}

func (m *Model) act(fn func() error) {
	if err := fn(); err != nil && !errors.Is(err, common.ErrInvalidTransition) {
		m.status = err.Error()
	}
}

func (m *Model) deleteSelected() {
	d := m.ctl.Selected()
	err := m.ctl.DeleteSelected()
	switch {
	case errors.Is(err, common.ErrDeleteCurrent):
		m.status = "You cannot delete the current window manager"
	case err != nil:
		m.status = err.Error()
	default:
		m.status = d.Name + " removed"
	}
}

func (m *Model) runConfigTool() {
	current := m.mgr.Registry().Current()
	if current == nil || current.ConfigExec == "" {
		m.status = "The current window manager has no configuration tool"
		return
	}
	if err := m.shell(current.ConfigExec); err != nil {
		m.status = fmt.Sprintf("Could not run %s: %v", current.ConfigExec, err)
	}
}

func (m *Model) saveSession() tea.Cmd {
	saver := m.mgr.Saver()
	return func() tea.Msg {
		return sessionSavedMsg{err: saver.Save(context.Background())}
	}
}

func (m *Model) finishSavePrompt() {
	m.savePrompt = false
	then := m.saveThen
	m.saveThen = nil
	if then != nil {
		then()
	}
}

// SetSensitive implements switcher.View.
func (m *Model) SetSensitive(sensitive bool) { m.sensitive = sensitive }

// Refresh implements switcher.View.
func (m *Model) Refresh() { m.reload() }

// ShowRestartProgress implements switcher.View.
func (m *Model) ShowRestartProgress(name string) {
	if m.restarting == "" {
		m.tick = true
	}
	m.restarting = name
}

// HideRestartProgress implements switcher.View.
func (m *Model) HideRestartProgress() {
	m.restarting = ""
	if current := m.mgr.Registry().Current(); current != nil {
		m.status = "Current window manager: " + current.Name
	}
}

// ShowMessage implements switcher.View. Only one message is shown; a
// modal one is never replaced by a non-modal one. Modal messages hold
// back Quit until they are closed.
func (m *Model) ShowMessage(msg string, modal bool) {
	if m.messageModal && !modal {
		return
	}
	m.message = msg
	m.messageModal = modal
}

// OfferSessionSave implements switcher.View.
func (m *Model) OfferSessionSave(then func()) {
	m.savePrompt = true
	m.saveThen = then
}

// Quit implements switcher.View. The program exits once no message or
// prompt is waiting for the user.
func (m *Model) Quit() { m.quitQueued = true }

// View implements tea.Model.
func (m *Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(common.AppName))
	b.WriteString("\n")

	current := m.mgr.Registry().Current()
	if len(m.rows) == 0 {
		b.WriteString(missingStyle.Render("  No window managers found"))
		b.WriteString("\n")
	}
	for i, d := range m.rows {
		b.WriteString(m.renderRow(i, d, d == current))
		b.WriteString("\n")
	}

	switch {
	case m.restarting != "":
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s Starting %s...", m.spinner.View(), m.restarting)))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	switch {
	case m.message != "":
		b.WriteString(dialogStyle.Render(errorStyle.Render(m.message) + "\n\n" + m.help.ShortHelpView([]key.Binding{m.keys.Close})))
	case m.savePrompt:
		canSave := m.mgr.Saver().CanSaveNow()
		bindings := []key.Binding{m.keys.Close}
		if canSave {
			bindings = []key.Binding{m.keys.Save, m.keys.Later}
		}
		b.WriteString(dialogStyle.Render(session.RestartInfo(canSave) + "\n\n" + m.help.ShortHelpView(bindings)))
	default:
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderRow(i int, d *wm.Descriptor, isCurrent bool) string {
	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("> ")
	}

	name := d.Name
	switch {
	case isCurrent:
		name = currentStyle.Render(name + " (Current)")
	case !d.IsPresent:
		name = missingStyle.Render(name + " (Not found)")
	}
	return cursor + name + "  " + execStyle.Render(d.Exec)
}
