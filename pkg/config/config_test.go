package config

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/user/vidplay/pkg/mocks"
	"github.com/user/vidplay/pkg/playback"
)

func TestDefaults_Valid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestParse_OverridesDefaults(t *testing.T) {
	data := []byte(`
demuxer: mp4
presenter: png
pacing: fixed
png:
  dir: /tmp/out
  every: 5
  caption: true
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Demuxer != BackendMP4 || cfg.Presenter != BackendPNG || cfg.Pacing != "fixed" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.PNG.Dir != "/tmp/out" || cfg.PNG.Every != 5 || !cfg.PNG.Caption {
		t.Errorf("png overrides not applied: %+v", cfg.PNG)
	}
	if cfg.Converter != BackendLibav || cfg.FallbackFPS != 25 || cfg.PNG.FontSize != 14 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("demuxer: [")); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	fs := mocks.NewFileSystem()
	if err := fs.WriteFile("vidplay.yaml", []byte("fallback_fps: 30\n")); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs, "vidplay.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FallbackFPS != 30 {
		t.Errorf("expected 30, got %f", cfg.FallbackFPS)
	}

	if _, err := Load(fs, "missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"demuxer", func(c *Config) { c.Demuxer = "gstreamer" }},
		{"converter", func(c *Config) { c.Converter = "opencv" }},
		{"av1 decoder", func(c *Config) { c.AV1Decoder = "dav1d" }},
		{"presenter", func(c *Config) { c.Presenter = "x11" }},
		{"pacing", func(c *Config) { c.Pacing = "vsync" }},
		{"log level", func(c *Config) { c.LogLevel = "trace" }},
		{"align zero", func(c *Config) { c.Align = 0 }},
		{"align not power of two", func(c *Config) { c.Align = 24 }},
		{"fallback fps", func(c *Config) { c.FallbackFPS = 0 }},
		{"max wait", func(c *Config) { c.MaxWaitMs = -1 }},
		{"png every", func(c *Config) { c.PNG.Every = 0 }},
		{"caption color", func(c *Config) { c.PNG.CaptionColor = "white" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.Color
		wantErr bool
	}{
		{"#ff8000", color.RGBA{R: 255, G: 128, B: 0, A: 255}, false},
		{"1A2b3C", color.RGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 255}, false},
		{"#fff", nil, true},
		{"#gg0000", nil, true},
		{"", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.want, got)
		}
	}
}

func TestToPlaybackOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Pacing = "fixed"
	cfg.MaxWaitMs = 250

	opts := cfg.ToPlaybackOptions()
	if opts.Pacing != playback.PacingFixed || opts.MaxWait != 250*time.Millisecond || opts.FallbackFPS != 25 {
		t.Errorf("unexpected options: %+v", opts)
	}
}

func TestToPNGOptions(t *testing.T) {
	cfg := Defaults()
	cfg.PNG.CaptionColor = "#ff0000"

	opts := cfg.ToPNGOptions()
	if opts.Dir != "./frames" || opts.Every != 1 {
		t.Errorf("unexpected options: %+v", opts)
	}
	if opts.CaptionColor != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected red caption, got %v", opts.CaptionColor)
	}
}
