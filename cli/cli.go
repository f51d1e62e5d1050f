// Package cli provides the command-line interface of the window manager
// tool. It can list, switch and import window managers without opening
// the dialog.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/yllada/wm-properties/manager"
	"golang.org/x/term"
)

// CLI runs the non-interactive commands against a manager.
type CLI struct {
	manager *manager.Manager
	out     io.Writer
	// width is the terminal width, or zero when out is not a terminal.
	width int
	now   func() time.Time
}

// New creates a CLI writing to out.
func New(mgr *manager.Manager, out io.Writer) *CLI {
	return &CLI{
		manager: mgr,
		out:     out,
		width:   terminalWidth(out),
		now:     time.Now,
	}
}

func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// List prints the known window managers. The current one is marked
// with a star.
func (c *CLI) List() error {
	registry := c.manager.Registry()
	list := registry.List()

	if len(list) == 0 {
		fmt.Fprintln(c.out, "No window managers found.")
		fmt.Fprintln(c.out, "Add one with the dialog: wm-properties")
		return nil
	}

	current := registry.Current()
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, " \tNAME\tCOMMAND\tSESSION\tSOURCE")
	if c.width > 0 {
		fmt.Fprintln(w, " \t----\t-------\t-------\t------")
	}

	for _, d := range list {
		mark := " "
		if d == current {
			mark = "*"
		}

		name := d.Name
		if !d.IsPresent {
			name += " (not found)"
		}

		session := "no"
		if d.SessionManaged {
			session = "yes"
		}

		source := "system"
		if d.IsUser {
			source = "user"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			mark, name, c.truncate(d.Exec), session, source)
	}

	return w.Flush()
}

// truncate shortens long commands so a row fits the terminal.
func (c *CLI) truncate(s string) string {
	if c.width == 0 {
		return s
	}
	limit := max(c.width/3, 12)
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}

// Switch makes name the current window manager.
func (c *CLI) Switch(ctx context.Context, name string, saveSession bool) error {
	fmt.Fprintf(c.out, "Switching to %s...\n", name)

	current, err := c.manager.Switch(ctx, name, manager.SwitchOptions{SaveSession: saveSession})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✓ %s is now running\n", current.Name)
	return nil
}

// Init starts the current window manager if none is running.
func (c *CLI) Init(ctx context.Context) error {
	return c.manager.InitSession(ctx)
}

// ExportXML writes the window manager list to path, or to the output
// when path is empty or "-".
func (c *CLI) ExportXML(path string) error {
	registry := c.manager.Registry()
	if path == "" || path == "-" {
		return registry.WriteXML(c.out)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := registry.WriteXML(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✓ Exported %d window managers to %s\n", len(registry.List()), path)
	return nil
}

// ImportXML adds the window managers listed in path and saves the list.
func (c *CLI) ImportXML(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	registry := c.manager.Registry()
	added, err := registry.ReadXML(f)
	if err != nil {
		return err
	}
	if err := registry.Save(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✓ Imported %d window managers\n", added)
	return nil
}

// History prints the most recent switches, newest first.
func (c *CLI) History(limit int) error {
	records, err := c.manager.History(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(c.out, "No window manager switches recorded.")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tFROM\tTO\tOUTCOME")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			formatAge(c.now().Sub(r.CreatedAt)), r.From, r.To, strings.ReplaceAll(r.Outcome, "-", " "))
	}
	return w.Flush()
}

// formatAge formats how long ago something happened.
func formatAge(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh ago", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm ago", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds ago", minutes, seconds)
	default:
		return fmt.Sprintf("%ds ago", seconds)
	}
}
