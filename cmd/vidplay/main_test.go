package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/user/vidplay/pkg/config"
	"github.com/user/vidplay/pkg/playback"
)

func TestRun_MissingArgument(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if code := run([]string{"vidplay"}, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "<video_file>") {
		t.Errorf("expected usage on stderr, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", stdout.String())
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if code := run([]string{"vidplay", "version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d (%s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), version) {
		t.Errorf("expected version in output, got %q", stdout.String())
	}
}

func TestRun_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown demuxer", []string{"vidplay", "--demuxer", "gstreamer", "movie.mp4"}, "demuxer"},
		{"unknown pacing", []string{"vidplay", "--pacing", "vsync", "movie.mp4"}, "pacing"},
		{"missing config", []string{"vidplay", "--config", filepath.Join(os.TempDir(), "vidplay-missing.yaml"), "movie.mp4"}, "load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Errorf("expected exit code 1, got %d", code)
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("expected %q on stderr, got %q", tt.want, stderr.String())
			}
		})
	}
}

func TestRun_ProbeMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing.mp4")

	if code := run([]string{"vidplay", "probe", "--demuxer", "mp4", path}, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), path+"\n  error: ") {
		t.Errorf("expected per-file error in report, got %q", stdout.String())
	}
}

func parseConfig(t *testing.T, args ...string) config.Config {
	t.Helper()

	var cfg config.Config
	var loadErr error
	app := &cli.App{
		Flags:          playFlags(),
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			cfg, loadErr = loadConfig(c)
			return nil
		},
	}
	if err := app.Run(append([]string{"vidplay"}, args...)); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if loadErr != nil {
		t.Fatalf("load failed: %v", loadErr)
	}
	return cfg
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	cfg := parseConfig(t, "--pacing", "fixed", "--max-wait", "250ms", "--png-every", "3", "--quiet", "movie.mp4")

	if cfg.Pacing != "fixed" || cfg.MaxWaitMs != 250 || cfg.PNG.Every != 3 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.LogLevel != "quiet" {
		t.Errorf("expected quiet log level, got %q", cfg.LogLevel)
	}
	if cfg.Demuxer != config.BackendLibav || cfg.Presenter != config.BackendSDL {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vidplay.yaml")
	if err := os.WriteFile(path, []byte("presenter: png\npacing: fixed\nfallback_fps: 30\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := parseConfig(t, "--config", path, "--pacing", "clock", "movie.mp4")

	if cfg.Presenter != config.BackendPNG || cfg.FallbackFPS != 30 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Pacing != "clock" {
		t.Errorf("expected flag to override file, got %q", cfg.Pacing)
	}
}

func TestNewPipeline_ConverterFollowsDecoder(t *testing.T) {
	log := newLogger("quiet")

	tests := []struct {
		name   string
		modify func(c *config.Config)
		wantGo bool
	}{
		{"defaults", func(*config.Config) {}, false},
		{"go converter", func(c *config.Config) { c.Converter = config.BackendGo }, true},
		{"libaom forces go converter", func(c *config.Config) { c.AV1Decoder = config.BackendAOM }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.modify(&cfg)

			p := newPipeline(cfg, nil, log)
			info := p.pipelineInfo(cfg, playbackResult("h264"))

			if got := info.Converter == config.BackendGo; got != tt.wantGo {
				t.Errorf("expected go converter=%v, got %s", tt.wantGo, info.Converter)
			}
		})
	}
}

// TestRun_EndToEnd plays a real file headlessly. Set VIDPLAY_E2E_FILE to run it.
func TestRun_EndToEnd(t *testing.T) {
	file := os.Getenv("VIDPLAY_E2E_FILE")
	if file == "" {
		t.Skip("Skipping end-to-end test (set VIDPLAY_E2E_FILE to run)")
	}

	dir := t.TempDir()
	summary := filepath.Join(dir, "summary.md")
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"vidplay",
		"--presenter", "png",
		"--png-dir", filepath.Join(dir, "frames"),
		"--png-every", "25",
		"--summary", summary,
		"--quiet",
		file,
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "Video Codec: resolution ") || !strings.Contains(stdout.String(), "Frame rate: ") {
		t.Errorf("expected report lines, got %q", stdout.String())
	}
	if _, err := os.Stat(summary); err != nil {
		t.Errorf("expected summary file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "frames", "frame-000000.png")); err != nil {
		t.Errorf("expected first frame written: %v", err)
	}
}

func playbackResult(codec string) playback.Result {
	return playback.Result{Stream: playback.StreamInfo{Codec: codec}}
}
