// Package cli wires configuration, the task API client, history and the
// terminal UI into the taskwatch command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/akyairhashvil/taskwatch/internal/config"
	"github.com/akyairhashvil/taskwatch/internal/history"
	"github.com/akyairhashvil/taskwatch/internal/taskapi"
	"github.com/akyairhashvil/taskwatch/internal/tasks"
	"github.com/akyairhashvil/taskwatch/internal/tui"
	"github.com/akyairhashvil/taskwatch/internal/util"
)

var (
	Version = "dev"
	Commit  = "none"
)

// ServiceFactory creates the task service from resolved settings.
// Used to inject the backend during tests.
type ServiceFactory func(s config.Settings, logger *slog.Logger) (taskapi.Service, error)

// NewClientFactory builds the HTTP client for the configured server.
func NewClientFactory() ServiceFactory {
	return func(s config.Settings, logger *slog.Logger) (taskapi.Service, error) {
		return taskapi.New(s.Server, s.APIPrefix,
			taskapi.WithToken(s.Token),
			taskapi.WithTimeout(s.RequestTimeout),
			taskapi.WithRetry(s.RetryAttempts, config.RetryDelay),
			taskapi.WithLogger(logger),
		)
	}
}

// App holds the state of one command invocation.
type App struct {
	factory   ServiceFactory
	readToken func(w io.Writer) (string, error)
	runTUI    func(ctx context.Context, m tea.Model) error
	out       io.Writer
	errOut    io.Writer
	now       func() time.Time

	settings config.Settings
	logger   *slog.Logger

	configPath string
	server     string
	token      string
	types      string
	askToken   bool
	debug      bool
}

// NewApp creates an App writing to out and errOut.
func NewApp(factory ServiceFactory, out, errOut io.Writer) *App {
	return &App{
		factory:   factory,
		readToken: promptForToken,
		runTUI:    runProgram,
		out:       out,
		errOut:    errOut,
		now:       time.Now,
	}
}

// Run executes the command line and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return Success
	}
	cliErr := MapError(err)
	fmt.Fprintf(a.errOut, "error: %v\n", cliErr)
	if cliErr.Hint != "" {
		fmt.Fprintf(a.errOut, "hint: %s\n", cliErr.Hint)
	}
	return cliErr.ExitCode
}

func (a *App) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Monitor and manage background tasks of a file-listing server",
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: a.runDashboard,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&a.server, "server", "", "server base URL, e.g. http://localhost:5244")
	pf.StringVar(&a.token, "token", "", "admin token")
	pf.StringVar(&a.types, "types", "", "comma separated task types")
	pf.BoolVar(&a.askToken, "ask-token", false, "prompt for the admin token")
	pf.BoolVar(&a.debug, "debug", false, "verbose logging")

	root.AddCommand(
		a.listCmd(),
		a.watchCmd(),
		a.clearCmd(),
		a.clearCompleteCmd(),
		a.retryFailedCmd(),
		a.historyCmd(),
		a.reportCmd(),
	)
	return root
}

// setup resolves settings: file, then environment, then flags.
func (a *App) setup() error {
	s, err := config.Load(a.configPath)
	if err != nil {
		return NewCLIError(AuthError, "cannot load config", "", err)
	}
	if a.server != "" {
		s.Server = a.server
	}
	if a.token != "" {
		s.Token = a.token
	}
	if a.types != "" {
		s.Types = config.SplitTypes(a.types)
	}
	a.settings = s
	if a.logger == nil {
		a.logger = util.NewLogger(a.errOut, a.debug)
	}
	return nil
}

// service validates the settings and builds the task service.
func (a *App) service() (taskapi.Service, error) {
	if a.askToken {
		tok, err := a.readToken(a.errOut)
		if err != nil {
			return nil, NewCLIError(AuthError, "cannot read token", "", err)
		}
		a.settings.Token = tok
	}
	if err := a.settings.Validate(); err != nil {
		return nil, NewCLIError(AuthError, "invalid configuration", "", err)
	}
	svc, err := a.factory(a.settings, a.logger)
	if err != nil {
		return nil, NewCLIError(AuthError, "cannot create client", "", err)
	}
	return svc, nil
}

// openHistory opens the history store. Failure is logged, not fatal: the
// actions themselves do not depend on it.
func (a *App) openHistory(ctx context.Context) *history.Store {
	store, err := history.Open(ctx, a.settings.HistoryPath)
	if err != nil {
		util.LogError(a.logger, "open history", err)
		return nil
	}
	return store
}

func (a *App) listOptions(store *history.Store) []tasks.Option {
	opts := []tasks.Option{
		tasks.WithInterval(a.settings.PollInterval),
		tasks.WithLogger(a.logger),
		// Failures are returned and reported by the command itself.
		tasks.WithReporter(tasks.ReporterFunc(func(string, error) {})),
	}
	if store != nil {
		opts = append(opts, tasks.WithRecorder(store))
	}
	return opts
}

// runDashboard starts the TUI. Logs go to a file since the terminal is taken.
func (a *App) runDashboard(cmd *cobra.Command, _ []string) error {
	dataDir := filepath.Dir(a.settings.HistoryPath)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return NewCLIError(UserError, "cannot create data dir", "", err)
	}
	logFile, err := tea.LogToFile(filepath.Join(dataDir, config.LogFileName), config.AppName)
	if err != nil {
		return NewCLIError(UserError, "cannot open log file", "", err)
	}
	defer logFile.Close()
	a.logger = util.NewLogger(logFile, a.debug)

	svc, err := a.service()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := tui.Options{
		Types:     a.settings.Types,
		Server:    a.settings.Server,
		Interval:  a.settings.PollInterval,
		ReportDir: a.settings.ReportDir,
		Theme:     a.settings.Theme,
		Logger:    a.logger,
	}
	if store := a.openHistory(ctx); store != nil {
		defer store.Close()
		opts.Recorder = store
	}
	return a.runTUI(ctx, tui.New(ctx, svc, opts))
}

func runProgram(ctx context.Context, m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
