// Package ggpresenter provides a headless presenter that writes frames as
// PNG files using the gg library.
package ggpresenter

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"

	"github.com/user/vidplay/pkg/ports"
)

// Options configures the PNG presenter.
type Options struct {
	// Dir is the output directory.
	Dir string
	// Every writes one frame out of Every presented frames. Values below 1 mean 1.
	Every int
	// Caption draws the frame index and timestamp in the bottom-left corner.
	Caption bool
	// FontPath is an optional TrueType font for the caption.
	FontPath string
	// FontSize is the caption font size in points.
	FontSize float64
	// CaptionColor is the caption text colour. Nil means white.
	CaptionColor color.Color
}

// Presenter implements ports.Presenter by writing PNG snapshots through a
// ports.FileSystem. It never requests quit.
type Presenter struct {
	fs   ports.FileSystem
	opts Options
	log  ports.Logger

	canvas    *image.RGBA
	index     int
	pts       time.Duration
	hasPTS    bool
	uploaded  bool
	presented int
	written   int
}

// New creates a PNG presenter.
func New(fs ports.FileSystem, opts Options, log ports.Logger) *Presenter {
	if opts.Every < 1 {
		opts.Every = 1
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 14
	}
	if opts.CaptionColor == nil {
		opts.CaptionColor = color.White
	}
	return &Presenter{fs: fs, opts: opts, log: log}
}

// CreateSurface creates the output directory and a canvas of width x height.
func (p *Presenter) CreateSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ports.ErrSurface, width, height)
	}
	if p.opts.Dir != "" {
		if err := p.fs.MkdirAll(p.opts.Dir); err != nil {
			return fmt.Errorf("%w: create output directory: %w", ports.ErrSurface, err)
		}
	}
	p.canvas = image.NewRGBA(image.Rect(0, 0, width, height))
	p.log.Debug("Surface created: %dx%d", width, height)
	return nil
}

// Upload copies an RGB24 frame onto the canvas.
func (p *Presenter) Upload(frame *ports.ConvertedFrame) error {
	if p.canvas == nil {
		return ports.ErrClosed
	}

	b := p.canvas.Bounds()
	w := min(frame.Width, b.Dx())
	h := min(frame.Height, b.Dy())
	for y := 0; y < h; y++ {
		src := frame.Pix[y*frame.Stride:]
		dst := p.canvas.Pix[y*p.canvas.Stride:]
		for x := 0; x < w; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}

	p.index = frame.Index
	p.pts = frame.PTS
	p.hasPTS = frame.HasPTS
	p.uploaded = true
	return nil
}

// Present writes the canvas if this frame is one of every Nth.
func (p *Presenter) Present() error {
	if p.canvas == nil {
		return ports.ErrClosed
	}
	if !p.uploaded {
		return nil
	}

	n := p.presented
	p.presented++
	if n%p.opts.Every != 0 {
		return nil
	}

	dc := gg.NewContextForRGBA(p.canvas)
	if p.opts.Caption {
		p.drawCaption(dc)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}

	path := filepath.Join(p.opts.Dir, fmt.Sprintf("frame-%06d.png", p.index))
	if err := p.fs.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	p.written++
	p.log.Debug("Wrote %s", path)
	return nil
}

func (p *Presenter) drawCaption(dc *gg.Context) {
	if p.opts.FontPath != "" {
		if err := dc.LoadFontFace(p.opts.FontPath, p.opts.FontSize); err != nil {
			p.log.Warn("Font %s unavailable, using default: %s", p.opts.FontPath, err)
			p.opts.FontPath = ""
		}
	}

	text := Caption(p.index, p.pts, p.hasPTS)
	x, y := 8.0, float64(dc.Height())-8

	dc.SetColor(color.Black)
	dc.DrawStringAnchored(text, x+1, y+1, 0, 0)
	dc.SetColor(p.opts.CaptionColor)
	dc.DrawStringAnchored(text, x, y, 0, 0)
}

// Caption formats the caption drawn on a frame.
func Caption(index int, pts time.Duration, hasPTS bool) string {
	if !hasPTS {
		return fmt.Sprintf("#%d", index)
	}
	pts = pts.Truncate(time.Millisecond)
	h := int(pts / time.Hour)
	m := int(pts/time.Minute) % 60
	s := int(pts/time.Second) % 60
	ms := int(pts/time.Millisecond) % 1000
	return fmt.Sprintf("#%d %02d:%02d:%02d.%03d", index, h, m, s, ms)
}

// PollInput always continues; a headless run ends at end of stream.
func (p *Presenter) PollInput() ports.InputAction {
	return ports.InputContinue
}

// Written returns the number of PNG files written.
func (p *Presenter) Written() int {
	return p.written
}

// Close drops the canvas.
func (p *Presenter) Close() error {
	p.canvas = nil
	p.uploaded = false
	return nil
}

var _ ports.Presenter = (*Presenter)(nil)
