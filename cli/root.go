// Package cli provides the command-line interface of the window manager tool.
// This file contains the cobra command tree and the process exit code.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yllada/wm-properties/common"
	"github.com/yllada/wm-properties/config"
	"github.com/yllada/wm-properties/manager"
	"github.com/yllada/wm-properties/tui"
)

// BuildInfo is the version information injected at build time.
type BuildInfo struct {
	Version string
	Time    string
	Commit  string
}

func (b BuildInfo) String() string {
	if b.Time == "" || b.Time == "unknown" {
		return b.Version
	}
	return fmt.Sprintf("%s (built %s, commit %s)", b.Version, b.Time, b.Commit)
}

// Options wires the command tree to the rest of the program.
type Options struct {
	Build BuildInfo
	// RunGUI runs the dialog and returns its exit code.
	RunGUI func(ctx context.Context, mgr *manager.Manager) int
	// LoadConfig reads the configuration file; an empty path means the
	// default location.
	LoadConfig func(path string) (*config.Config, error)
	// NewManager builds the manager from the configuration.
	NewManager func(cfg *config.Config) (*manager.Manager, error)
	// NoLogFile keeps the log out of the user's log directory.
	NoLogFile bool

	Out io.Writer
	Err io.Writer
}

func (o *Options) defaults() {
	if o.LoadConfig == nil {
		o.LoadConfig = func(path string) (*config.Config, error) {
			if path == "" {
				return config.Load()
			}
			return config.LoadFrom(path)
		}
	}
	if o.NewManager == nil {
		o.NewManager = func(cfg *config.Config) (*manager.Manager, error) {
			return manager.NewManager(cfg)
		}
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
}

// app holds what the persistent pre-run sets up for the commands.
type app struct {
	opts    Options
	verbose bool
	cfgPath string
	manager *manager.Manager
}

// NewRootCommand builds the command tree. Without a subcommand it runs
// the dialog.
func NewRootCommand(opts Options) *cobra.Command {
	root, _ := newRoot(opts)
	return root
}

func newRoot(opts Options) (*cobra.Command, *app) {
	opts.defaults()
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "wm-properties",
		Short:         "Choose the window manager of your X session",
		Long:          `Lists the installed window managers and switches between them, restarting the window manager and falling back to the previous one when the new one does not start.`,
		Version:       opts.Build.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// The dialog logs to stdout; everything else keeps stdout for data.
			console := opts.Err
			if cmd.Parent() == nil {
				console = opts.Out
			}
			return a.setup(console)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.RunGUI == nil {
				return fmt.Errorf("this build has no graphical interface, try %q", "wm-properties tui")
			}
			common.LogInfo("Starting %s %s", common.AppName, opts.Build.Version)
			if code := opts.RunGUI(cmd.Context(), a.manager); code != 0 {
				return fmt.Errorf("application exited with code %d", code)
			}
			return nil
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.SetVersionTemplate("Window Manager Properties {{.Version}}\n")

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "",
		"config file (default: ~/.config/"+common.ConfigDirName+"/"+common.ConfigFileName+")")

	root.AddCommand(
		a.tuiCommand(),
		a.listCommand(),
		a.switchCommand(),
		a.initCommand(),
		a.exportCommand(),
		a.importCommand(),
		a.historyCommand(),
	)
	return root, a
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, opts Options, args []string) int {
	root, a := newRoot(opts)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) setup(console io.Writer) error {
	cfg, err := a.opts.LoadConfig(a.cfgPath)
	if err != nil {
		return err
	}

	level := common.ParseLogLevel(cfg.LogLevel)
	if a.verbose {
		level = common.LevelDebug
	}
	if err := common.InitLogger(common.LogConfig{
		Level:       level,
		EnableFile:  !a.opts.NoLogFile,
		MaxFileSize: 5 * 1024 * 1024, // 5MB
		MaxBackups:  5,
		Console:     console,
	}); err != nil {
		fmt.Fprintf(a.opts.Err, "Warning: Could not initialize file logging: %v\n", err)
	}

	a.manager, err = a.opts.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize window manager list: %w", err)
	}
	return nil
}

// close releases the manager the pre-run opened, if any.
func (a *app) close() error {
	if a.manager == nil {
		return nil
	}
	err := a.manager.Close()
	a.manager = nil
	return err
}

func (a *app) cli() *CLI {
	return New(a.manager, a.opts.Out)
}

func (a *app) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the window manager dialog in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tui.Run(cmd.Context(), a.manager)
		},
	}
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the known window managers",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.cli().List()
		},
	}
}

func (a *app) switchCommand() *cobra.Command {
	var saveSession bool
	cmd := &cobra.Command{
		Use:   "switch NAME",
		Short: "Make NAME the current window manager",
		Long:  `Starts NAME in place of the running window manager and keeps it, exactly like selecting it and pressing OK in the dialog. If NAME does not start, the previous window manager is started again.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli().Switch(cmd.Context(), args[0], saveSession)
		},
	}
	cmd.Flags().BoolVar(&saveSession, "save-session", false, "save the session after switching")
	return cmd
}

func (a *app) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Start the current window manager if none is running",
		Long:  `Run at login by the autostart entry. Session managed window managers are left to the session manager.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.cli().Init(cmd.Context())
		},
	}
}

func (a *app) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-xml [FILE]",
		Short: "Write the window manager list as XML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return a.cli().ExportXML(path)
		},
	}
}

func (a *app) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-xml FILE",
		Short: "Add the window managers listed in an XML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.cli().ImportXML(args[0])
		},
	}
}

func (a *app) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent window manager switches",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.cli().History(limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of switches to show, 0 for all")
	return cmd
}
