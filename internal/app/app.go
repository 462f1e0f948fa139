package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/easeplay/internal/cli"
	"github.com/agbru/easeplay/internal/config"
	"github.com/agbru/easeplay/internal/easing"
	apperrors "github.com/agbru/easeplay/internal/errors"
	"github.com/agbru/easeplay/internal/logging"
	"github.com/agbru/easeplay/internal/metrics"
	"github.com/agbru/easeplay/internal/orchestration"
	"github.com/agbru/easeplay/internal/server"
	"github.com/agbru/easeplay/internal/tui"
	"github.com/agbru/easeplay/internal/ui"
)

// Application represents the easeplay application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	sessionOpts []orchestration.SessionOption
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSessionOptions appends options to every session the application
// creates, e.g. a fake clock in tests.
func WithSessionOptions(opts ...orchestration.SessionOption) AppOption {
	return func(a *Application) { a.sessionOpts = append(a.sessionOpts, opts...) }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "easeplay"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	presenter := cli.CLIResultPresenter{Quiet: a.Config.Quiet}
	if err := ui.InitTheme(a.Config.Theme, a.Config.NoColor); err != nil {
		return presenter.HandleError(apperrors.NewConfigError("--theme: %v", err), a.ErrWriter)
	}

	if err := a.Config.Validate(); err != nil {
		return presenter.HandleError(err, a.ErrWriter)
	}
	if _, err := logging.New(io.Discard, a.Config.LogLevel, a.Config.LogFormat); err != nil {
		return presenter.HandleError(apperrors.NewConfigError("--log-format: %v", err), a.ErrWriter)
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	switch {
	case a.Config.TUI:
		return a.runTUI(ctx)
	case a.Config.REPL:
		return a.runREPL(ctx, out)
	default:
		return a.runPlay(ctx, out)
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// logger writes structured logs to the error writer. Interactive modes
// keep the terminal clean unless debug logs were asked for.
func (a *Application) logger(interactive bool) logging.Logger {
	if interactive && a.Config.LogLevel != "debug" {
		return logging.Nop()
	}
	logger, err := logging.New(a.ErrWriter, a.Config.LogLevel, a.Config.LogFormat)
	if err != nil {
		return logging.Nop()
	}
	return logger
}

// newSession builds the session and its metrics services.
func (a *Application) newSession(logger logging.Logger) (*orchestration.Session, []orchestration.Runner, error) {
	playback := metrics.NewPlayback()
	opts := append([]orchestration.SessionOption{
		orchestration.WithLogger(logger),
		orchestration.WithObserver(playback),
	}, a.sessionOpts...)

	session, err := orchestration.NewSession(a.Config.ToEasingConfig(), opts...)
	if err != nil {
		return nil, nil, apperrors.NewConfigError("%v", err)
	}

	var services []orchestration.Runner
	if a.Config.MetricsAddr != "" {
		srv := server.New(a.Config.MetricsAddr, server.NewMetrics(playback.Registry()),
			server.WithLogger(logger),
			server.WithStatus(func() any { return session.Status() }),
			server.WithSecurity(server.ParseOrigins(a.Config.MetricsOrigins)),
		)
		services = append(services, srv)
	}
	return session, services, nil
}

// runPlay plays the configured segment once and prints the result.
func (a *Application) runPlay(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()

	presenter := cli.CLIResultPresenter{Quiet: a.Config.Quiet}
	logger := a.logger(false)

	session, services, err := a.newSession(logger)
	if err != nil {
		return presenter.HandleError(err, a.ErrWriter)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	} else {
		f, interval := curveFactors(a.Config.ToEasingConfig())
		cli.PrintExecutionConfig(f, interval, a.Config.Timeout, out)
	}

	result, err := orchestration.Play(ctx, session, orchestration.PlayOptions{
		Reverse:  a.Config.Reverse,
		Services: services,
	}, reporter, progressOut)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.TimeoutError{Operation: "play", Limit: a.Config.Timeout}
		}
		return presenter.HandleError(err, a.ErrWriter)
	}

	logger.Info("playback complete",
		logging.Int("final", result.Final),
		logging.Int("reported", result.Reported),
		logging.Bool("backward", result.Backward),
		logging.Duration("wall", result.Wall),
	)
	presenter.PresentResult(result, a.Config.Verbose, out)
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard. The session loop and the
// metrics server run until the dashboard exits.
func (a *Application) runTUI(ctx context.Context) int {
	session, services, err := a.newSession(a.logger(true))
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, a.ErrWriter)
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	startBackground(g, gctx, session, services)

	code := tui.Run(gctx, session, tui.Options{
		Curve:   a.Config.ToEasingConfig(),
		Reverse: a.Config.Reverse,
		Version: Version,
	})
	cancel()
	if err := waitBackground(g); err != nil && code == apperrors.ExitSuccess {
		return cli.CLIResultPresenter{}.HandleError(err, a.ErrWriter)
	}
	return code
}

// runREPL starts the interactive prompt on a running session.
func (a *Application) runREPL(ctx context.Context, out io.Writer) int {
	session, services, err := a.newSession(a.logger(true))
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, a.ErrWriter)
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	startBackground(g, gctx, session, services)
	// Nothing renders live updates in the REPL; keep the buffer drained.
	go orchestration.DrainChannel(session.Updates())

	repl := cli.NewREPL(session, cli.REPLConfig{
		Curve:   a.Config.ToEasingConfig(),
		Timeout: a.Config.Timeout,
		Verbose: a.Config.Verbose,
	})
	repl.SetOutput(out)
	repl.Start(gctx)

	cancel()
	if err := waitBackground(g); err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, a.ErrWriter)
	}
	return apperrors.ExitSuccess
}

func startBackground(g *errgroup.Group, ctx context.Context, session *orchestration.Session, services []orchestration.Runner) {
	g.Go(func() error { return session.Run(ctx) })
	for _, svc := range services {
		g.Go(func() error { return svc.Run(ctx) })
	}
}

// waitBackground waits for the session loop and services. Shutdown by
// cancellation is not a failure.
func waitBackground(g *errgroup.Group) error {
	err := g.Wait()
	if err == nil || apperrors.IsContextError(err) {
		return nil
	}
	return apperrors.WrapError(err, "background service")
}

// curveFactors derives the factors printed before playback starts.
func curveFactors(cfg easing.Config) (easing.Factors, time.Duration) {
	if cfg.Degenerate() {
		f := easing.Factors{Start: cfg.Start, End: cfg.End}
		return f, easing.TickInterval(f)
	}
	f, err := (easing.ThreePhase{}).Derive(cfg)
	if err != nil {
		return easing.Factors{Start: cfg.Start, End: cfg.End}, 0
	}
	return f, easing.TickInterval(f)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
