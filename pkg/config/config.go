// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/vidplay/pkg/adapters/ggpresenter"
	"github.com/user/vidplay/pkg/playback"
	"github.com/user/vidplay/pkg/ports"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Backend names.
const (
	BackendLibav = "libav"
	BackendMP4   = "mp4"
	BackendGo    = "go"
	BackendAOM   = "aom"
	BackendSDL   = "sdl"
	BackendPNG   = "png"
)

// Config represents the full configuration for vidplay.
type Config struct {
	// Pipeline backends
	Demuxer    string `yaml:"demuxer"`
	Converter  string `yaml:"converter"`
	AV1Decoder string `yaml:"av1_decoder"`
	Presenter  string `yaml:"presenter"`
	Align      int    `yaml:"align"`

	// Window
	Title string `yaml:"title"`

	// Headless output
	PNG PNGConfig `yaml:"png"`

	// Pacing
	Pacing      string  `yaml:"pacing"`
	MaxWaitMs   int     `yaml:"max_wait_ms"`
	FallbackFPS float64 `yaml:"fallback_fps"`

	// Telemetry
	MetricsAddr string `yaml:"metrics_addr"`
	Summary     string `yaml:"summary"`
	LogLevel    string `yaml:"log_level"`
}

// PNGConfig represents the headless presenter settings.
type PNGConfig struct {
	Dir          string  `yaml:"dir"`
	Every        int     `yaml:"every"`
	Caption      bool    `yaml:"caption"`
	CaptionColor string  `yaml:"caption_color"`
	FontPath     string  `yaml:"font_path"`
	FontSize     float64 `yaml:"font_size"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Demuxer:    BackendLibav,
		Converter:  BackendLibav,
		AV1Decoder: BackendLibav,
		Presenter:  BackendSDL,
		Align:      ports.DefaultRowAlign,

		Title: "Minimal FFmpeg SDL2 Video Player",

		PNG: PNGConfig{
			Dir:          "./frames",
			Every:        1,
			CaptionColor: "#ffffff",
			FontSize:     14,
		},

		Pacing:      string(playback.PacingClock),
		MaxWaitMs:   1000,
		FallbackFPS: 25,

		LogLevel: "info",
	}
}

// Load reads a YAML file through fs on top of the defaults.
func Load(fs ports.FileSystem, path string) (Config, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return cfg, nil
}

// Validate checks backend names and numeric ranges.
func (c Config) Validate() error {
	var errs []error
	check := func(field, value string, allowed ...string) {
		for _, a := range allowed {
			if value == a {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%w: %s must be one of %v, got %q", ErrInvalid, field, allowed, value))
	}

	check("demuxer", c.Demuxer, BackendLibav, BackendMP4)
	check("converter", c.Converter, BackendLibav, BackendGo)
	check("av1_decoder", c.AV1Decoder, BackendLibav, BackendAOM)
	check("presenter", c.Presenter, BackendSDL, BackendPNG)
	check("pacing", c.Pacing, string(playback.PacingClock), string(playback.PacingFixed))
	check("log_level", c.LogLevel, "debug", "info", "warn", "error", "quiet")

	if c.Align < 1 || c.Align&(c.Align-1) != 0 {
		errs = append(errs, fmt.Errorf("%w: align must be a power of two, got %d", ErrInvalid, c.Align))
	}
	if c.FallbackFPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: fallback_fps must be positive, got %g", ErrInvalid, c.FallbackFPS))
	}
	if c.MaxWaitMs <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_wait_ms must be positive, got %d", ErrInvalid, c.MaxWaitMs))
	}
	if c.PNG.Every < 1 {
		errs = append(errs, fmt.Errorf("%w: png.every must be at least 1, got %d", ErrInvalid, c.PNG.Every))
	}
	if _, err := ParseColor(c.PNG.CaptionColor); err != nil {
		errs = append(errs, fmt.Errorf("%w: png.caption_color: %w", ErrInvalid, err))
	}

	return errors.Join(errs...)
}

// ParseColor parses a #rrggbb hex color string.
func ParseColor(hex string) (color.Color, error) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return color.Black, fmt.Errorf("color %q is not #rrggbb", hex)
	}

	var rgb [3]uint8
	for i := range rgb {
		hi, okHi := hexValue(hex[i*2])
		lo, okLo := hexValue(hex[i*2+1])
		if !okHi || !okLo {
			return color.Black, fmt.Errorf("color %q is not #rrggbb", hex)
		}
		rgb[i] = hi<<4 | lo
	}

	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// ToPlaybackOptions converts Config to playback.Options.
func (c Config) ToPlaybackOptions() playback.Options {
	return playback.Options{
		FallbackFPS: c.FallbackFPS,
		Pacing:      playback.Pacing(c.Pacing),
		MaxWait:     time.Duration(c.MaxWaitMs) * time.Millisecond,
	}
}

// ToPNGOptions converts Config to ggpresenter.Options.
func (c Config) ToPNGOptions() ggpresenter.Options {
	captionColor, _ := ParseColor(c.PNG.CaptionColor)
	return ggpresenter.Options{
		Dir:          c.PNG.Dir,
		Every:        c.PNG.Every,
		Caption:      c.PNG.Caption,
		FontPath:     c.PNG.FontPath,
		FontSize:     c.PNG.FontSize,
		CaptionColor: captionColor,
	}
}
