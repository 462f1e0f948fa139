package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/easeplay/internal/easing"
	"github.com/agbru/easeplay/internal/format"
	"github.com/agbru/easeplay/internal/orchestration"
	"github.com/agbru/easeplay/internal/player"
	"github.com/agbru/easeplay/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Curve is the configuration the session was created with. The set
	// command edits a copy of it.
	Curve easing.Config
	// Timeout bounds each command, and wait in particular.
	Timeout time.Duration
	// Verbose prints the curve factors with each result.
	Verbose bool
}

// REPL drives a running session from an interactive prompt.
type REPL struct {
	config  REPLConfig
	session *orchestration.Session
	in      io.Reader
	out     io.Writer
}

// NewREPL creates a new REPL instance. The session's Run must already be
// running, or every command blocks until the timeout.
func NewREPL(session *orchestration.Session, config REPLConfig) *REPL {
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}
	return &REPL{
		config:  config,
		session: session,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start reads commands until exit, EOF, or ctx is done.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(r.in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"ease> "+ui.ColorReset())

		var input string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		case err := <-readErr:
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		case input = <-lines:
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !r.processCommand(ctx, input) {
			return
		}
	}
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sEaseplay - Interactive Mode%s                          %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstart%s           - Play forward from the configured start\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scontinue%s        - Resume forward playback\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sreverse%s         - Resume playback towards the start\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstop%s            - Pause playback\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %swait%s            - Wait for the running session to complete\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %svalue%s           - Print the current value\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s          - Display the session status\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sset <k> <v>%s     - Change from, to, duration, rate, accel, decel, max\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sconfig%s          - Display the curve configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s            - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s     - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	cmdCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	switch cmd {
	case "start", "s":
		r.report("Started", r.session.Start(cmdCtx))
	case "continue", "c":
		r.report("Continuing", r.session.Continue(cmdCtx))
	case "reverse", "r":
		r.report("Reversing", r.session.Reverse(cmdCtx))
	case "stop", "x":
		r.report("Stopped", r.session.Stop(cmdCtx))
	case "wait", "w":
		r.cmdWait(cmdCtx)
	case "value", "v":
		r.cmdValue(cmdCtx)
	case "status", "st":
		r.cmdStatus()
	case "set":
		r.cmdSet(cmdCtx, args)
	case "config", "cfg":
		r.cmdConfig(cmdCtx)
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

func (r *REPL) report(done string, err error) {
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "%s%s%s (state: %s)\n", ui.ColorGreen(), done, ui.ColorReset(), r.session.Status().State)
}

// cmdWait blocks until the next completion result or the command timeout.
func (r *REPL) cmdWait(ctx context.Context) {
	select {
	case result := <-r.session.Done():
		DisplayResult(result, r.config.Verbose, r.out)
		fmt.Fprintln(r.out)
	case <-ctx.Done():
		fmt.Fprintf(r.out, "%sNo completion: %v%s\n", ui.ColorYellow(), ctx.Err(), ui.ColorReset())
	}
}

func (r *REPL) cmdValue(ctx context.Context) {
	v, err := r.session.Value(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "Value: %s%s%s\n", ui.ColorGreen(), format.FormatValue(v), ui.ColorReset())
}

// cmdStatus displays the session status.
func (r *REPL) cmdStatus() {
	st := r.session.Status()
	fmt.Fprintf(r.out, "\n%sSession status:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  State:        %s%s%s\n", ui.ColorCyan(), st.State, ui.ColorReset())
	fmt.Fprintf(r.out, "  Value:        %s%s%s\n", ui.ColorCyan(), format.FormatValue(st.Value), ui.ColorReset())
	fmt.Fprintf(r.out, "  Elapsed:      %s%.1f / %.1f ms%s\n", ui.ColorCyan(), st.ElapsedMs, st.TotalMs, ui.ColorReset())
	fmt.Fprintf(r.out, "  Sessions:     %s%d%s (%d completed)\n", ui.ColorCyan(), st.Sessions, ui.ColorReset(), st.Completions)
	fmt.Fprintf(r.out, "  Stale ticks:  %s%d%s\n", ui.ColorCyan(), st.StaleTicks, ui.ColorReset())
	fmt.Fprintln(r.out)
}

// cmdSet edits one field of the curve and reconfigures the session.
func (r *REPL) cmdSet(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintf(r.out, "%sUsage: set <from|to|duration|rate|accel|decel|max> <value>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	next, err := applySetting(r.config.Curve, strings.ToLower(args[0]), args[1])
	if err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	if err := r.session.Reconfigure(ctx, next); err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	r.config.Curve = next
	fmt.Fprintf(r.out, "%s%s set to %s%s\n", ui.ColorGreen(), args[0], args[1], ui.ColorReset())
}

// applySetting returns cfg with key changed. Durations accept Go duration
// syntax or plain milliseconds.
func applySetting(cfg easing.Config, key, value string) (easing.Config, error) {
	switch key {
	case "from", "to":
		n, err := strconv.Atoi(value)
		if err != nil {
			return cfg, fmt.Errorf("invalid integer: %s", value)
		}
		if key == "from" {
			cfg.Start = n
		} else {
			cfg.End = n
		}
	case "duration", "max":
		ms, err := parseMillis(value)
		if err != nil {
			return cfg, err
		}
		if key == "duration" {
			cfg.TotalMs = ms
		} else {
			cfg.MaxTotalMs = ms
		}
	case "rate", "accel", "decel":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid number: %s", value)
		}
		switch key {
		case "rate":
			cfg.LinearRate = f
		case "accel":
			cfg.AccelerateRatio = f
		default:
			cfg.DecelerateRatio = f
		}
	default:
		return cfg, fmt.Errorf("unknown setting: %s", key)
	}
	return cfg, nil
}

func parseMillis(value string) (float64, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return float64(d) / float64(time.Millisecond), nil
	}
	ms, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %s", value)
	}
	return ms, nil
}

// cmdConfig displays the curve configuration and the factors the
// controller derived from it.
func (r *REPL) cmdConfig(ctx context.Context) {
	c := r.config.Curve
	fmt.Fprintf(r.out, "\n%sCurve configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Segment:      %s%s → %s%s\n", ui.ColorCyan(), format.FormatValue(c.Start), format.FormatValue(c.End), ui.ColorReset())
	fmt.Fprintf(r.out, "  Duration:     %s%g ms%s\n", ui.ColorCyan(), c.TotalMs, ui.ColorReset())
	fmt.Fprintf(r.out, "  Rate:         %s%g%s\n", ui.ColorCyan(), c.LinearRate, ui.ColorReset())
	fmt.Fprintf(r.out, "  Accelerate:   %s%g%s\n", ui.ColorCyan(), c.AccelerateRatio, ui.ColorReset())
	fmt.Fprintf(r.out, "  Decelerate:   %s%g%s\n", ui.ColorCyan(), c.DecelerateRatio, ui.ColorReset())
	fmt.Fprintf(r.out, "  Max duration: %s%g ms%s\n", ui.ColorCyan(), c.MaxTotalMs, ui.ColorReset())

	var (
		f        easing.Factors
		interval time.Duration
	)
	if err := r.session.Inspect(ctx, func(ctrl *player.Controller) {
		f, interval = ctrl.Factors(), ctrl.Interval()
	}); err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "  Phases:       %s%g / %g / %g ms%s\n", ui.ColorCyan(),
		f.AcceleratePhaseMs, f.LinearPhaseMs, f.DeceleratePhaseMs, ui.ColorReset())
	fmt.Fprintf(r.out, "  Tick:         %s%s%s\n", ui.ColorCyan(), interval, ui.ColorReset())
	fmt.Fprintln(r.out)
}
