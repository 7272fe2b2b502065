package ggpresenter

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/mocks"
	"github.com/user/vidplay/pkg/ports"
)

// redFrame creates a packed RGB24 frame filled with pure red.
func redFrame(index, w, h int) *ports.ConvertedFrame {
	stride := ports.RGBStride(w, ports.DefaultRowAlign)
	pix := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix[y*stride+x*3] = 0xff
		}
	}
	return &ports.ConvertedFrame{Index: index, Width: w, Height: h, Stride: stride, Pix: pix}
}

func TestPresenter_WritesPNG(t *testing.T) {
	fs := mocks.NewFileSystem()
	p := New(fs, Options{Dir: "out"}, logger.NewNoop())

	if err := p.CreateSurface(4, 2); err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}
	if !fs.HasDir("out") {
		t.Error("expected output directory to be created")
	}

	if err := p.Upload(redFrame(0, 4, 2)); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if err := p.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	data, ok := fs.GetFile("out/frame-000000.png")
	if !ok {
		t.Fatalf("expected frame-000000.png, got %v", fs.GetAllFiles())
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("expected 4x2, got %dx%d", b.Dx(), b.Dy())
	}
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 0xff || g != 0 || b != 0 {
		t.Errorf("expected red pixel, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestPresenter_Every(t *testing.T) {
	fs := mocks.NewFileSystem()
	p := New(fs, Options{Dir: "out", Every: 2}, logger.NewNoop())
	if err := p.CreateSurface(4, 2); err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := p.Upload(redFrame(i, 4, 2)); err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
		if err := p.Present(); err != nil {
			t.Fatalf("Present failed: %v", err)
		}
	}

	if p.Written() != 3 {
		t.Errorf("expected 3 files, got %d", p.Written())
	}
	for _, name := range []string{"out/frame-000000.png", "out/frame-000002.png", "out/frame-000004.png"} {
		if _, ok := fs.GetFile(name); !ok {
			t.Errorf("expected %s to be written", name)
		}
	}
	if _, ok := fs.GetFile("out/frame-000001.png"); ok {
		t.Error("expected frame 1 to be skipped")
	}
}

func TestPresenter_CaptionDrawn(t *testing.T) {
	fs := mocks.NewFileSystem()
	p := New(fs, Options{Dir: "out", Caption: true}, logger.NewNoop())
	if err := p.CreateSurface(64, 32); err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}

	frame := redFrame(7, 64, 32)
	frame.PTS = 280 * time.Millisecond
	frame.HasPTS = true
	if err := p.Upload(frame); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if err := p.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	if _, ok := fs.GetFile("out/frame-000007.png"); !ok {
		t.Error("expected captioned frame to be written")
	}
}

func TestPresenter_MkdirError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.MkdirAllFunc = func(string) error { return errors.New("read-only") }
	p := New(fs, Options{Dir: "out"}, logger.NewNoop())

	if err := p.CreateSurface(4, 2); !errors.Is(err, ports.ErrSurface) {
		t.Errorf("expected ErrSurface, got %v", err)
	}
}

func TestPresenter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(string, []byte) error { return errors.New("disk full") }
	p := New(fs, Options{Dir: "out"}, logger.NewNoop())
	if err := p.CreateSurface(4, 2); err != nil {
		t.Fatalf("CreateSurface failed: %v", err)
	}
	if err := p.Upload(redFrame(0, 4, 2)); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if err := p.Present(); err == nil {
		t.Error("expected write error from Present")
	}
}

func TestPresenter_NeverQuits(t *testing.T) {
	p := New(mocks.NewFileSystem(), Options{}, logger.NewNoop())
	if p.PollInput() != ports.InputContinue {
		t.Error("expected headless presenter to never request quit")
	}
}

func TestCaption(t *testing.T) {
	tests := []struct {
		index  int
		pts    time.Duration
		hasPTS bool
		want   string
	}{
		{0, 0, false, "#0"},
		{12, 480 * time.Millisecond, true, "#12 00:00:00.480"},
		{3, time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond, true, "#3 01:02:03.045"},
	}
	for _, tt := range tests {
		if got := Caption(tt.index, tt.pts, tt.hasPTS); got != tt.want {
			t.Errorf("Caption(%d, %v, %v) = %q, want %q", tt.index, tt.pts, tt.hasPTS, got, tt.want)
		}
	}
}
