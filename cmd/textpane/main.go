// Command textpane shows a file or piped output in a scrollable, searchable,
// selectable full-screen text pane.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/mono-ball/MonoBall-sub005/pkg/config"
	tperrors "github.com/mono-ball/MonoBall-sub005/pkg/errors"
	"github.com/mono-ball/MonoBall-sub005/pkg/filewatch"
	"github.com/mono-ball/MonoBall-sub005/pkg/logging"
	"github.com/mono-ball/MonoBall-sub005/pkg/source"
	"github.com/mono-ball/MonoBall-sub005/pkg/telemetry"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
	tcellbackend "github.com/mono-ball/MonoBall-sub005/pkg/ui/backend/tcell"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/clipboard"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/textbuffer"
)

// Version information - set via ldflags during build
var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

type options struct {
	configPath  string
	follow      bool
	virtual     bool
	maxLines    int
	metricsAddr string
	metricsSet  bool
	logLevel    string
	showVersion bool
	path        string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("textpane", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: textpane [flags] [file]\n\nWith no file, lines are read from stdin.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.configPath, "config", "", "config file (default: user and project config)")
	fs.BoolVar(&opts.follow, "follow", false, "keep reading the file as it grows")
	fs.BoolVar(&opts.virtual, "virtual", false, "page the file from disk instead of loading it")
	fs.IntVar(&opts.maxLines, "max-lines", 0, "lines kept in memory (overrides config)")
	fs.StringVar(&opts.metricsAddr, "metrics", "", "serve Prometheus metrics on this address")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "metrics" {
			opts.metricsSet = true
		}
	})

	switch fs.NArg() {
	case 0:
	case 1:
		opts.path = fs.Arg(0)
	default:
		return nil, tperrors.Newf(tperrors.ErrCodeInvalidInput, "expected at most one file, got %d", fs.NArg())
	}
	if opts.maxLines < 0 {
		return nil, tperrors.New(tperrors.ErrCodeInvalidInput, "-max-lines must not be negative")
	}
	if (opts.follow || opts.virtual) && opts.path == "" {
		return nil, tperrors.New(tperrors.ErrCodeInvalidInput, "-follow and -virtual need a file argument")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(exitOK)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", displayError(err))
		os.Exit(exitUsage)
	}
	if opts.showVersion {
		fmt.Printf("textpane %s (%s)\n", version, commit)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", displayError(err))
		stop()
		os.Exit(exitCodeForError(err))
	}
}

func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.maxLines > 0 {
		cfg.Buffer.MaxLines = opts.maxLines
	}
	if opts.metricsSet {
		cfg.Metrics.Listen = strings.TrimSpace(opts.metricsAddr)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.path == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		return withExitCode(tperrors.New(tperrors.ErrCodeInvalidInput, "no input").
			WithUserMessage("nothing to show: pass a file or pipe output into textpane"), exitUsage)
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	logger, err := logging.Open(cfg.Log.Path, "textpane", level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		logger = logging.Discard()
	}
	defer logger.Close()
	logger.For(logging.CategoryConfig).Debug("config loaded",
		"max_lines", cfg.Buffer.MaxLines, "metrics", cfg.Metrics.Listen, "path", opts.path)

	th, err := cfg.BuildTheme(termenv.EnvColorProfile())
	if err != nil {
		return err
	}
	cls, err := newClassifier(cfg.Categories, th)
	if err != nil {
		return err
	}

	var src *source.File
	if opts.virtual {
		src, err = source.Open(opts.path, source.Options{
			Classify: cls.Classify,
			Logger:   logger.For(logging.CategorySource),
		})
		if err != nil {
			return err
		}
		defer src.Close()
	}

	hub := telemetry.NewHub()
	defer hub.Close()
	metrics := telemetry.NewMetrics(hub)

	var clipOut io.Writer
	if term.IsTerminal(int(os.Stdout.Fd())) {
		clipOut = os.Stdout
	}
	clip := clipboard.New(clipboard.Options{Out: clipOut, Logger: logger.For(logging.CategoryInput)})

	// Frame timing and multi-click timing share one clock.
	clock := time.Now
	bufOpts := cfg.BufferOptions()
	bufOpts.Clock = clock
	bufOpts.Theme = th
	bufOpts.Clipboard = clip
	bufOpts.Observer = hub
	bufOpts.Logger = logger.For(logging.CategoryBuffer)
	buf := textbuffer.New(bufOpts)

	be, err := tcellbackend.New()
	if err != nil {
		return tperrors.Wrap(err, tperrors.ErrCodeTerminalInit, "opening terminal")
	}
	if err := be.Init(); err != nil {
		return tperrors.Wrap(err, tperrors.ErrCodeTerminalInit, "initializing terminal")
	}
	var finiOnce sync.Once
	fini := func() { finiOnce.Do(be.Fini) }
	defer fini()

	a := newApp(appConfig{
		Screen:     be,
		Buffer:     buf,
		Theme:      th,
		Classifier: cls,
		Source:     src,
		Metrics:    metrics,
		Logger:     logger.For(logging.CategoryInput),
		Clock:      clock,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	// PollEvent only returns once the backend is finalized, so the poller
	// lives outside the group.
	events := make(chan terminal.Event, 64)
	go pollEvents(gctx, be, events)

	batches := make(chan lineBatch, 16)
	var refresh chan struct{}
	batchLines := cfg.Follow.BatchLines

	switch {
	case src != nil && opts.follow:
		refresh = make(chan struct{}, 1)
		g.Go(func() error { return tickRefresh(gctx, cfg.Follow.PollInterval, refresh) })
	case src != nil:
	case opts.follow:
		follower := filewatch.NewFollower(opts.path, filewatch.Options{
			PollInterval: cfg.Follow.PollInterval,
			BatchLines:   batchLines,
			FromStart:    true,
			Logger:       logger.For(logging.CategoryFollow),
		})
		follower.Subscribe(func(b filewatch.Batch) {
			var lb lineBatch
			switch b.Type {
			case filewatch.ChangeAppended:
				lb.lines = b.Lines
			case filewatch.ChangeTruncated:
				lb.reset = true
			default:
				return
			}
			select {
			case batches <- lb:
			case <-gctx.Done():
			}
		})
		g.Go(func() error { return follower.Run(gctx) })
	case opts.path != "":
		g.Go(func() error {
			f, err := os.Open(opts.path)
			if err != nil {
				return tperrors.Wrap(err, tperrors.ErrCodeSourceOpen, "opening input").WithContext("path", opts.path)
			}
			defer f.Close()
			return readLines(gctx, f, batchLines, batches)
		})
	default:
		// A blocked stdin read cannot be interrupted, so this reader is not
		// waited for either.
		go func() {
			if err := readLines(gctx, os.Stdin, batchLines, batches); err != nil {
				logger.For(logging.CategorySource).Warn("stdin read failed", "error", err)
			}
		}()
	}

	g.Go(func() error {
		metrics.Consume(gctx, hub)
		return nil
	})
	if cfg.Metrics.Listen != "" {
		g.Go(func() error {
			return telemetry.Serve(gctx, cfg.Metrics.Listen, metrics, logger.For(logging.CategoryMetrics))
		})
	}

	g.Go(func() error {
		defer cancel()
		defer fini()
		return a.run(gctx, events, batches, refresh)
	})
	return g.Wait()
}

func pollEvents(ctx context.Context, src backend.EventSource, out chan<- terminal.Event) {
	for {
		ev := src.PollEvent()
		if ev == nil {
			close(out)
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func tickRefresh(ctx context.Context, interval time.Duration, out chan<- struct{}) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

// readLines sends r's lines in batches of up to n. A batch is also sent
// whenever the reader has nothing more buffered, so slow streams show up
// line by line.
func readLines(ctx context.Context, r io.Reader, n int, out chan<- lineBatch) error {
	if n <= 0 {
		n = 512
	}
	br := bufio.NewReaderSize(r, 64*1024)
	batch := make([]string, 0, n)
	send := func() bool {
		if len(batch) == 0 {
			return true
		}
		select {
		case out <- lineBatch{lines: batch}:
			batch = make([]string, 0, n)
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			batch = append(batch, line)
		}
		if err == io.EOF {
			send()
			return nil
		}
		if err != nil {
			send()
			return tperrors.Wrap(err, tperrors.ErrCodeSourceRead, "reading input")
		}
		if len(batch) >= n || br.Buffered() == 0 {
			if !send() {
				return nil
			}
		}
	}
}
