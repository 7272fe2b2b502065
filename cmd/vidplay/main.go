// Package main provides the CLI entry point for vidplay.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidplay/pkg/adapters/libav"
	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/adapters/osfilesystem"
	"github.com/user/vidplay/pkg/config"
	"github.com/user/vidplay/pkg/metrics"
	"github.com/user/vidplay/pkg/playback"
	"github.com/user/vidplay/pkg/ports"
	"github.com/user/vidplay/pkg/probe"
	"github.com/user/vidplay/pkg/summarizer"
)

var version = "dev"

func init() {
	// SDL must be driven from the main OS thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// errUsage is returned when the video file argument is missing.
var errUsage = errors.New("usage")

// run executes the CLI and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.Run(args); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, l10n.F("Usage: %s [flags] <video_file>", app.Name))
		} else {
			fmt.Fprintf(stderr, "ERROR %s\n", err)
		}
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:           "vidplay",
		Usage:          l10n.T("Play the video track of a media file"),
		ArgsUsage:      "<video_file>",
		Version:        version,
		HideVersion:    true,
		Writer:         stdout,
		ErrWriter:      stderr,
		ExitErrHandler: func(*cli.Context, error) {},
		Flags:          playFlags(),
		Action: func(c *cli.Context) error {
			return playAction(c, stdout)
		},
		Commands: []*cli.Command{
			{
				Name:      "probe",
				Usage:     l10n.T("List the streams of media files without decoding"),
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: "text", Usage: l10n.T("Output format (text, yaml)")},
					&cli.StringFlag{Name: "demuxer", Value: config.BackendLibav, Usage: l10n.T("Demuxer backend (libav, mp4)")},
					&cli.IntFlag{Name: "concurrency", Value: probe.DefaultConcurrency, Usage: l10n.T("Number of files opened at once")},
				},
				Action: probeAction,
			},
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("vidplay version %s", version))
					return nil
				},
			},
		},
	}
}

func playFlags() []cli.Flag {
	return []cli.Flag{
		// Configuration
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file")},

		// Backends
		&cli.StringFlag{Name: "demuxer", Usage: l10n.T("Demuxer backend (libav, mp4)")},
		&cli.StringFlag{Name: "converter", Usage: l10n.T("Pixel converter backend (libav, go)")},
		&cli.StringFlag{Name: "av1-decoder", Usage: l10n.T("AV1 decoder backend (libav, aom)")},
		&cli.StringFlag{Name: "presenter", Usage: l10n.T("Presenter backend (sdl, png)")},

		// Presentation
		&cli.StringFlag{Name: "title", Usage: l10n.T("Window title")},
		&cli.StringFlag{Name: "png-dir", Usage: l10n.T("Output directory of the png presenter")},
		&cli.IntFlag{Name: "png-every", Usage: l10n.T("Write one PNG every N frames")},
		&cli.BoolFlag{Name: "png-caption", Usage: l10n.T("Draw the frame index and timestamp on PNG frames")},

		// Pacing
		&cli.StringFlag{Name: "pacing", Usage: l10n.T("Pacing strategy (clock, fixed)")},
		&cli.DurationFlag{Name: "max-wait", Usage: l10n.T("Largest frame wait before the clock is re-based")},
		&cli.Float64Flag{Name: "fallback-fps", Usage: l10n.T("Frame rate used when the stream has none")},

		// Telemetry
		&cli.StringFlag{Name: "metrics-addr", Usage: l10n.T("Serve Prometheus metrics on this address")},
		&cli.StringFlag{Name: "summary", Usage: l10n.T("Write a Markdown playback summary to this file")},

		// Logging
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output")},
	}
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(osfilesystem.New(), path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("demuxer") {
		cfg.Demuxer = c.String("demuxer")
	}
	if c.IsSet("converter") {
		cfg.Converter = c.String("converter")
	}
	if c.IsSet("av1-decoder") {
		cfg.AV1Decoder = c.String("av1-decoder")
	}
	if c.IsSet("presenter") {
		cfg.Presenter = c.String("presenter")
	}
	if c.IsSet("title") {
		cfg.Title = c.String("title")
	}
	if c.IsSet("png-dir") {
		cfg.PNG.Dir = c.String("png-dir")
	}
	if c.IsSet("png-every") {
		cfg.PNG.Every = c.Int("png-every")
	}
	if c.IsSet("png-caption") {
		cfg.PNG.Caption = c.Bool("png-caption")
	}
	if c.IsSet("pacing") {
		cfg.Pacing = c.String("pacing")
	}
	if c.IsSet("max-wait") {
		cfg.MaxWaitMs = int(c.Duration("max-wait") / time.Millisecond)
	}
	if c.IsSet("fallback-fps") {
		cfg.FallbackFPS = c.Float64("fallback-fps")
	}
	if c.IsSet("metrics-addr") {
		cfg.MetricsAddr = c.String("metrics-addr")
	}
	if c.IsSet("summary") {
		cfg.Summary = c.String("summary")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("quiet") {
		cfg.LogLevel = ports.LevelQuiet.String()
	}

	return cfg, cfg.Validate()
}

func newLogger(level string) ports.Logger {
	l := ports.ParseLogLevel(level)
	if l == ports.LevelQuiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(l)
}

// playAction plays the file named by the first argument.
func playAction(c *cli.Context, stdout io.Writer) error {
	if c.NArg() < 1 {
		return errUsage
	}
	path := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)
	libav.RouteLogs(log.WithComponent("libav"))

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	fs := osfilesystem.New()
	p := newPipeline(cfg, fs, log)

	// Metrics
	var observer ports.PlaybackObserver = ports.NopObserver{}
	if cfg.MetricsAddr != "" {
		m := metrics.New()
		srv, err := metrics.Serve(cfg.MetricsAddr, m, log.WithComponent("metrics"))
		if err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		observer = m
	}

	player := playback.New(
		p.demuxer,
		p.decoder,
		p.converter,
		p.presenter,
		observer,
		ports.SystemClock{},
		stdout,
		log.WithComponent("player"),
		cfg.ToPlaybackOptions(),
	)

	result, runErr := player.Run(ctx, path)

	if cfg.Summary != "" {
		writeSummary(cfg, fs, log, p, path, result, runErr)
	}
	return runErr
}

func writeSummary(cfg config.Config, fs ports.FileSystem, log ports.Logger, p pipeline, path string, result playback.Result, runErr error) {
	var size int64
	if fi, err := os.Stat(path); err == nil {
		size = fi.Size()
	}

	info := p.pipelineInfo(cfg, result)
	summary := summarizer.NewBuilder().
		WithSource(path, size).
		WithPipeline(info).
		WithResult(result).
		WithError(runErr).
		Build()

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(version),
	)
	if err := summarizer.NewWriter(formatter, fs).Write(cfg.Summary, summary); err != nil {
		log.Error("Failed to write summary: %s", err)
		return
	}
	log.Info("Summary saved to %s", cfg.Summary)
}

// probeAction lists the streams of every file argument.
func probeAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("probe: no files given")
	}

	cfg := config.Defaults()
	cfg.Demuxer = c.String("demuxer")
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.NewConsole(ports.LevelError)
	libav.RouteLogs(log.WithComponent("libav"))
	p := newPipeline(cfg, nil, log)

	reports, err := probe.New(p.demuxer, p.decoder, c.Int("concurrency")).Probe(c.Context, c.Args().Slice())
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "yaml":
		err = probe.WriteYAML(c.App.Writer, reports)
	case "text":
		err = probe.WriteText(c.App.Writer, reports)
	default:
		return fmt.Errorf("unknown format %q", c.String("format"))
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.Err != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be probed", failed, len(reports))
	}
	return nil
}
