package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"catalogcli/internal/app"
	"catalogcli/internal/config"
	"catalogcli/internal/exporter"
	"catalogcli/internal/operations"
	"catalogcli/pkg/contracts"
)

// Exit codes
const (
	exitOK        = 0
	exitFailed    = 1
	exitUsage     = 2
	exitCancelled = 130
)

// options holds the command line flags. Zero values leave the loaded
// configuration untouched.
type options struct {
	configFile string
	input      string
	sheet      string
	reportsDir string
	formats    string
	horizon    int
	top        int
	logLevel   string
	quiet      bool
	version    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("catalog-report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "config file (defaults to catalog.yaml, configs/catalog.yaml or $CATALOG_CONFIG)")
	fs.StringVar(&opts.input, "in", "", "catalog CSV or xlsx file (defaults to paths.input_file)")
	fs.StringVar(&opts.sheet, "sheet", "", "worksheet to read from an xlsx catalog (defaults to the first sheet)")
	fs.StringVar(&opts.reportsDir, "out", "", "output directory for reports (defaults to paths.reports_dir)")
	fs.StringVar(&opts.formats, "formats", "", "comma separated export formats: csv, xlsx, json (defaults to all)")
	fs.IntVar(&opts.horizon, "horizon", 0, "forecast horizon in years")
	fs.IntVar(&opts.top, "top", 0, "number of top genres to report")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&opts.quiet, "quiet", false, "suppress step progress output")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

// loadConfig layers the command line flags over the file and environment
// configuration
func loadConfig(opts *options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.input != "" {
		cfg.Paths.InputFile = opts.input
	}
	if opts.sheet != "" {
		cfg.Paths.Sheet = opts.sheet
	}
	if opts.reportsDir != "" {
		cfg.Paths.ReportsDir = opts.reportsDir
	}
	if opts.horizon != 0 {
		cfg.Analysis.ForecastHorizonYears = opts.horizon
	}
	if opts.top != 0 {
		cfg.Analysis.TopGenreCount = opts.top
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	formats, err := exporter.ParseFormats(opts.formats)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	rt, err := app.NewRuntime(cfg, nil)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.Shutdown(shutdownCtx); err != nil {
			rt.Logger.Error("Shutdown failed", slog.String("error", err.Error()))
		}
	}()

	var observer operations.StepObserver
	if !opts.quiet {
		observer = newProgressPrinter(stdout)
	}

	state, err := rt.RunPipeline(ctx, "", formats, observer)
	printResult(stdout, state)

	switch {
	case err == nil:
		return exitOK
	case state.Status == operations.RunStatusCancelled:
		fmt.Fprintln(stderr, "run cancelled")
		return exitCancelled
	default:
		fmt.Fprintf(stderr, "run failed: %v\n", err)
		return exitFailed
	}
}

// progressPrinter writes one line per finished step
type progressPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	index int
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

func (p *progressPrinter) StepStarted(runID string, step *operations.StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index++
}

func (p *progressPrinter) StepFinished(runID string, step *operations.StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := fmt.Sprintf("[%d] %-10s %-9s %s", p.index, step.ID, step.GetStatus(), step.Duration().Round(time.Millisecond))
	if step.Message != "" {
		line += "  " + step.Message
	}
	fmt.Fprintln(p.w, line)
}

// printResult summarizes a run: status, skipped steps and written files
func printResult(w io.Writer, state *operations.RunState) {
	if state == nil {
		return
	}
	fmt.Fprintf(w, "run %s %s in %s\n", state.ID, state.Status, state.Duration().Round(time.Millisecond))
	if titles := state.Titles(); titles != nil {
		fmt.Fprintf(w, "titles: %d\n", len(titles))
	}

	skipped := state.Skipped()
	ids := make([]string, 0, len(skipped))
	for id := range skipped {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "skipped %s: %s\n", id, skipped[id])
	}

	for _, path := range state.Outputs() {
		fmt.Fprintf(w, "wrote %s\n", path)
	}
}
