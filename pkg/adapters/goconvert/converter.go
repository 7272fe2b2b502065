// Package goconvert converts decoded planes to packed RGB24 in pure Go.
package goconvert

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/user/vidplay/pkg/ports"
)

// Converter reads DecodedFrame.Planes and scales them into an RGB24 buffer
// with bilinear filtering.
type Converter struct {
	align int

	format  ports.PixelFormat
	scratch *image.RGBA
	out     ports.ConvertedFrame
	bound   bool
	log     ports.Logger
}

// New creates a converter whose output rows are aligned to align bytes.
func New(align int, log ports.Logger) *Converter {
	if align <= 0 {
		align = ports.DefaultRowAlign
	}
	return &Converter{align: align, log: log}
}

// Convert converts frame into the converter's RGB24 buffer.
func (c *Converter) Convert(frame *ports.DecodedFrame) (*ports.ConvertedFrame, error) {
	if !c.bound {
		if err := c.bind(frame); err != nil {
			return nil, err
		}
	} else if frame.Format != c.format || frame.Width != c.out.Width || frame.Height != c.out.Height {
		return nil, fmt.Errorf("%w: bound to %s %dx%d, got %s %dx%d", ports.ErrFormatChanged,
			c.format, c.out.Width, c.out.Height, frame.Format, frame.Width, frame.Height)
	}

	if frame.Format == ports.PixelFormatRGB24 {
		if err := c.copyRGB(frame); err != nil {
			return nil, err
		}
	} else {
		src, err := sourceImage(frame)
		if err != nil {
			return nil, err
		}
		draw.BiLinear.Scale(c.scratch, c.scratch.Bounds(), src, src.Bounds(), draw.Src, nil)
		c.packRGBA()
	}

	c.out.Index = frame.Index
	c.out.PTS = frame.PTS
	c.out.HasPTS = frame.HasPTS
	return &c.out, nil
}

func (c *Converter) bind(frame *ports.DecodedFrame) error {
	if frame.Width <= 0 || frame.Height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ports.ErrConverterInit, frame.Width, frame.Height)
	}
	if !Supports(frame.Format) {
		return fmt.Errorf("%w: %w: %s", ports.ErrConverterInit, ports.ErrUnsupportedFormat, frame.Format)
	}

	stride := ports.RGBStride(frame.Width, c.align)
	c.format = frame.Format
	c.out = ports.ConvertedFrame{
		Width:  frame.Width,
		Height: frame.Height,
		Stride: stride,
		Pix:    make([]byte, stride*frame.Height),
	}
	if frame.Format != ports.PixelFormatRGB24 {
		c.scratch = image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	}
	c.bound = true

	c.log.Debug("Converter bound to %s %dx%d", frame.Format, frame.Width, frame.Height)
	return nil
}

// Supports reports whether the converter can read the pixel format.
func Supports(format ports.PixelFormat) bool {
	switch format {
	case ports.PixelFormatYUV420P, ports.PixelFormatYUVJ420P,
		ports.PixelFormatYUV422P, ports.PixelFormatYUV444P,
		ports.PixelFormatGray, ports.PixelFormatRGB24, ports.PixelFormatRGBA:
		return true
	default:
		return false
	}
}

// sourceImage wraps the frame planes in an image.Image without copying.
func sourceImage(frame *ports.DecodedFrame) (image.Image, error) {
	rect := image.Rect(0, 0, frame.Width, frame.Height)

	switch frame.Format {
	case ports.PixelFormatYUV420P, ports.PixelFormatYUVJ420P, ports.PixelFormatYUV422P, ports.PixelFormatYUV444P:
		if len(frame.Planes) < 3 || len(frame.Strides) < 3 {
			return nil, fmt.Errorf("%w: %s frame has %d planes", ports.ErrUnsupportedFormat, frame.Format, len(frame.Planes))
		}
		return &image.YCbCr{
			Y:              frame.Planes[0],
			Cb:             frame.Planes[1],
			Cr:             frame.Planes[2],
			YStride:        frame.Strides[0],
			CStride:        frame.Strides[1],
			SubsampleRatio: subsampleRatio(frame.Format),
			Rect:           rect,
		}, nil
	case ports.PixelFormatGray:
		if len(frame.Planes) < 1 || len(frame.Strides) < 1 {
			return nil, fmt.Errorf("%w: gray frame has no plane", ports.ErrUnsupportedFormat)
		}
		return &image.Gray{Pix: frame.Planes[0], Stride: frame.Strides[0], Rect: rect}, nil
	case ports.PixelFormatRGBA:
		if len(frame.Planes) < 1 || len(frame.Strides) < 1 {
			return nil, fmt.Errorf("%w: rgba frame has no plane", ports.ErrUnsupportedFormat)
		}
		return &image.NRGBA{Pix: frame.Planes[0], Stride: frame.Strides[0], Rect: rect}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ports.ErrUnsupportedFormat, frame.Format)
	}
}

func subsampleRatio(format ports.PixelFormat) image.YCbCrSubsampleRatio {
	switch format {
	case ports.PixelFormatYUV422P:
		return image.YCbCrSubsampleRatio422
	case ports.PixelFormatYUV444P:
		return image.YCbCrSubsampleRatio444
	default:
		return image.YCbCrSubsampleRatio420
	}
}

// packRGBA drops the alpha channel of the scratch image into the output rows.
func (c *Converter) packRGBA() {
	w, h := c.out.Width, c.out.Height
	for y := 0; y < h; y++ {
		src := c.scratch.Pix[y*c.scratch.Stride : y*c.scratch.Stride+w*4]
		dst := c.out.Pix[y*c.out.Stride : y*c.out.Stride+w*3]
		for x := 0; x < w; x++ {
			dst[x*3] = src[x*4]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
}

func (c *Converter) copyRGB(frame *ports.DecodedFrame) error {
	if len(frame.Planes) < 1 || len(frame.Strides) < 1 {
		return fmt.Errorf("%w: rgb24 frame has no plane", ports.ErrUnsupportedFormat)
	}
	row := c.out.Width * 3
	for y := 0; y < c.out.Height; y++ {
		off := y * frame.Strides[0]
		copy(c.out.Pix[y*c.out.Stride:y*c.out.Stride+row], frame.Planes[0][off:off+row])
	}
	return nil
}

// Close releases the scratch buffers.
func (c *Converter) Close() error {
	c.scratch = nil
	c.out.Pix = nil
	c.bound = false
	return nil
}

var _ ports.PixelConverter = (*Converter)(nil)
