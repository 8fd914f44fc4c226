package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/richgo/task-cli/pkg/config"
	"github.com/richgo/task-cli/pkg/logging"
	"github.com/richgo/task-cli/pkg/task"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const helpText = `Usage: task-cli <command>

Commands:    list                        - lists existing todos
             add '[TASK]'                - add a new todo
             update [TASK-ID] '[TASK]'   - update an existing todo
             delete [TASK-ID]            - delete an existing todo
             mark-in-progress [TASK-ID]  - mark an existing todo 'in progress'
             mark-done [TASK-ID]         - mark an existing todo 'done'

`

var errUsage = &task.Error{Kind: task.KindUsage, Err: errors.New("usage")}

// globalFlags are accepted before the command name only.
type globalFlags struct {
	file     string
	config   string
	logLevel string
	noColor  bool
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.file, "file", "", "path to the task store (default ./todos.json)")
	fs.StringVar(&g.config, "config", "", "config file (default ./.task-cli.yaml if present)")
	fs.StringVar(&g.logLevel, "log-level", "", "diagnostics level: debug, info, warn, error")
	fs.BoolVar(&g.noColor, "no-color", false, "disable colored output")
}

// app carries per-invocation state between the root hooks and the commands.
type app struct {
	out    io.Writer
	errOut io.Writer
	flags  globalFlags

	svc    *task.Service
	logger *slog.Logger
	closer io.Closer

	helpRequested bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "task-cli <command> [args]",
		Short:         "Track tasks in a local JSON file",
		SilenceErrors: true,
		SilenceUsage:  true,

		// Global flags are parsed up to the command name; the rest of the
		// line belongs to the command.
		TraverseChildren: true,

		// Reached with no command or an unknown one; fails before setup runs.
		Args: func(cmd *cobra.Command, args []string) error {
			return errUsage
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return errUsage
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.CompletionOptions.DisableDefaultCmd = true
	// -h and --help are not commands either; Run reports them as a usage
	// error.
	root.SetHelpFunc(func(*cobra.Command, []string) {
		a.helpRequested = true
	})
	// `task-cli help` is not a command; treat it like any unknown one.
	root.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		Args: func(cmd *cobra.Command, args []string) error {
			return errUsage
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return errUsage
		},
	})
	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &task.Error{Kind: task.KindUsage, Err: err}
	})

	a.flags.register(root.Flags())

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newMarkCmd(a, "mark-in-progress", task.StatusInProgress),
		newMarkCmd(a, "mark-done", task.StatusDone),
	)
	// Task text and IDs may start with "-".
	for _, c := range root.Commands() {
		c.DisableFlagParsing = true
	}
	return root
}

// exactArgs enforces the argument count; a mismatch falls through to help.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errUsage
		}
		return nil
	}
}

// setup resolves configuration and builds the service. Flags win over
// environment, environment over the config file.
func (a *app) setup() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, used, err := config.Discover(wd, a.flags.config)
	if err != nil {
		return err
	}
	if a.flags.file != "" {
		cfg.Store.Path = a.flags.file
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.noColor {
		cfg.Color = config.ColorNever
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, closer, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Stderr:     a.errOut,
	})
	if err != nil {
		return err
	}
	a.logger, a.closer = logger, closer
	if used != "" {
		logger.Debug("loaded config", "path", used)
	}

	store := task.NewStore(cfg.StorePath(wd), logger)
	a.svc = task.NewService(store,
		task.WithLogger(logger),
		task.WithFormatter(listFormatter(colorEnabled(cfg.Color, a.out))),
	)
	return nil
}

// print writes a command result, one line per entry.
func (a *app) print(res task.Result) {
	for _, line := range res.Lines {
		fmt.Fprintln(a.out, line)
	}
}

// run executes one command and prints its result.
func (a *app) run(name string, fn func() (task.Result, error)) error {
	a.logger.Debug("dispatch", "command", name, "store", a.svc.Store().Path)
	res, err := fn()
	if err != nil {
		return err
	}
	a.print(res)
	return nil
}

// Run executes the CLI with args and returns the process exit status.
func Run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	a := &app{out: stdout, errOut: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.Execute()
	if a.closer != nil {
		defer a.closer.Close()
	}
	if err == nil && a.helpRequested {
		err = errUsage
	}
	if err == nil {
		return 0
	}

	if isUsage(err) {
		if a.logger != nil {
			a.logger.Debug("usage error", "error", err)
		}
		fmt.Fprint(stdout, helpText)
		return 1
	}
	fmt.Fprintln(stdout, err.Error())
	return 1
}

// isUsage reports whether err means the command line itself was wrong.
// Flags before the command name are parsed while cobra walks the tree, so
// their errors arrive unwrapped.
func isUsage(err error) bool {
	var (
		notExist *pflag.NotExistError
		required *pflag.ValueRequiredError
		invalid  *pflag.InvalidValueError
		syntax   *pflag.InvalidSyntaxError
	)
	return task.KindOf(err) == task.KindUsage ||
		errors.Is(err, pflag.ErrHelp) ||
		errors.As(err, &notExist) ||
		errors.As(err, &required) ||
		errors.As(err, &invalid) ||
		errors.As(err, &syntax)
}

// Execute runs the CLI against the process arguments.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}
