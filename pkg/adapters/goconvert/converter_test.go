package goconvert

import (
	"errors"
	"testing"

	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/ports"
)

func fill(n int, v byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = v
	}
	return b
}

// yuv420Frame creates a uniform yuv420p frame.
func yuv420Frame(index, w, h int, y, cb, cr byte) *ports.DecodedFrame {
	cw, ch := (w+1)/2, (h+1)/2
	return &ports.DecodedFrame{
		Index:   index,
		Width:   w,
		Height:  h,
		Format:  ports.PixelFormatYUV420P,
		Planes:  [][]byte{fill(w*h, y), fill(cw*ch, cb), fill(cw*ch, cr)},
		Strides: []int{w, cw, cw},
	}
}

func TestConvert_DimensionsAndStride(t *testing.T) {
	tests := []struct {
		w, h   int
		stride int
	}{
		{w: 10, h: 4, stride: 32},
		{w: 11, h: 3, stride: 64},
		{w: 64, h: 2, stride: 192},
	}

	for _, tt := range tests {
		c := New(ports.DefaultRowAlign, logger.NewNoop())
		out, err := c.Convert(yuv420Frame(0, tt.w, tt.h, 128, 128, 128))
		if err != nil {
			t.Fatalf("%dx%d: Convert failed: %v", tt.w, tt.h, err)
		}
		if out.Width != tt.w || out.Height != tt.h {
			t.Errorf("expected %dx%d, got %dx%d", tt.w, tt.h, out.Width, out.Height)
		}
		if out.Stride != tt.stride {
			t.Errorf("%dx%d: expected stride %d, got %d", tt.w, tt.h, tt.stride, out.Stride)
		}
		if len(out.Pix) != out.Stride*out.Height {
			t.Errorf("expected %d bytes, got %d", out.Stride*out.Height, len(out.Pix))
		}
		c.Close()
	}
}

func TestConvert_NeutralChromaIsGray(t *testing.T) {
	c := New(ports.DefaultRowAlign, logger.NewNoop())
	defer c.Close()

	out, err := c.Convert(yuv420Frame(0, 8, 4, 128, 128, 128))
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			p := out.Pix[y*out.Stride+x*3 : y*out.Stride+x*3+3]
			if p[0] != 128 || p[1] != 128 || p[2] != 128 {
				t.Fatalf("pixel (%d,%d) = %v, want gray 128", x, y, p)
			}
		}
	}
}

func TestConvert_Gray(t *testing.T) {
	c := New(ports.DefaultRowAlign, logger.NewNoop())
	defer c.Close()

	frame := &ports.DecodedFrame{
		Width:   4,
		Height:  2,
		Format:  ports.PixelFormatGray,
		Planes:  [][]byte{fill(8, 200)},
		Strides: []int{4},
	}
	out, err := c.Convert(frame)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if out.Pix[0] != 200 || out.Pix[1] != 200 || out.Pix[2] != 200 {
		t.Errorf("expected gray 200, got %v", out.Pix[:3])
	}
}

func TestConvert_RGB24Copy(t *testing.T) {
	c := New(ports.DefaultRowAlign, logger.NewNoop())
	defer c.Close()

	pix := []byte{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}
	frame := &ports.DecodedFrame{
		Index:   3,
		Width:   2,
		Height:  2,
		Format:  ports.PixelFormatRGB24,
		Planes:  [][]byte{pix},
		Strides: []int{6},
	}
	out, err := c.Convert(frame)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if out.Index != 3 {
		t.Errorf("expected index 3, got %d", out.Index)
	}
	if out.Pix[0] != 1 || out.Pix[5] != 6 {
		t.Errorf("unexpected first row %v", out.Pix[:6])
	}
	if got := out.Pix[out.Stride : out.Stride+6]; got[0] != 7 || got[5] != 12 {
		t.Errorf("unexpected second row %v", got)
	}
}

func TestConvert_FormatChanged(t *testing.T) {
	c := New(ports.DefaultRowAlign, logger.NewNoop())
	defer c.Close()

	if _, err := c.Convert(yuv420Frame(0, 8, 4, 16, 128, 128)); err != nil {
		t.Fatalf("first Convert failed: %v", err)
	}

	_, err := c.Convert(yuv420Frame(1, 16, 4, 16, 128, 128))
	if !errors.Is(err, ports.ErrFormatChanged) {
		t.Errorf("expected ErrFormatChanged for new size, got %v", err)
	}

	gray := &ports.DecodedFrame{Width: 8, Height: 4, Format: ports.PixelFormatGray,
		Planes: [][]byte{fill(32, 0)}, Strides: []int{8}}
	if _, err := c.Convert(gray); !errors.Is(err, ports.ErrFormatChanged) {
		t.Errorf("expected ErrFormatChanged for new format, got %v", err)
	}
}

func TestConvert_UnsupportedFormat(t *testing.T) {
	c := New(ports.DefaultRowAlign, logger.NewNoop())
	defer c.Close()

	_, err := c.Convert(&ports.DecodedFrame{Width: 4, Height: 4, Format: "nv12"})
	if !errors.Is(err, ports.ErrConverterInit) || !errors.Is(err, ports.ErrUnsupportedFormat) {
		t.Errorf("expected ErrConverterInit wrapping ErrUnsupportedFormat, got %v", err)
	}
}

func TestConvert_MissingPlanes(t *testing.T) {
	c := New(ports.DefaultRowAlign, logger.NewNoop())
	defer c.Close()

	_, err := c.Convert(&ports.DecodedFrame{Width: 4, Height: 4, Format: ports.PixelFormatYUV420P})
	if !errors.Is(err, ports.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
