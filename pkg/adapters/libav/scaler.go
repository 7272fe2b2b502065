package libav

import (
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/user/vidplay/pkg/ports"
)

// Scaler converts *astiav.Frame pictures to packed RGB24 with libswscale
// using bilinear filtering.
type Scaler struct {
	align int

	ssc    *astiav.SoftwareScaleContext
	dst    *astiav.Frame
	out    ports.ConvertedFrame
	format astiav.PixelFormat
	bound  bool
	log    ports.Logger
}

// NewScaler creates a scaler whose output rows are aligned to align bytes.
func NewScaler(align int, log ports.Logger) *Scaler {
	if align <= 0 {
		align = ports.DefaultRowAlign
	}
	return &Scaler{align: align, log: log}
}

// Convert scales frame into the scaler's RGB24 buffer.
func (s *Scaler) Convert(frame *ports.DecodedFrame) (*ports.ConvertedFrame, error) {
	src, ok := frame.Native.(*astiav.Frame)
	if !ok {
		return nil, fmt.Errorf("%w: frame has no libav picture", ports.ErrUnsupportedFormat)
	}

	if !s.bound {
		if err := s.bind(src); err != nil {
			return nil, err
		}
	} else if src.Width() != s.out.Width || src.Height() != s.out.Height || src.PixelFormat() != s.format {
		return nil, fmt.Errorf("%w: bound to %s %dx%d, got %s %dx%d", ports.ErrFormatChanged,
			s.format.Name(), s.out.Width, s.out.Height,
			src.PixelFormat().Name(), src.Width(), src.Height())
	}

	if err := s.ssc.ScaleFrame(src, s.dst); err != nil {
		return nil, fmt.Errorf("scale frame: %w", err)
	}
	if _, err := s.dst.ImageCopyToBuffer(s.out.Pix, s.align); err != nil {
		return nil, fmt.Errorf("copy rgb picture: %w", err)
	}

	s.out.Index = frame.Index
	s.out.PTS = frame.PTS
	s.out.HasPTS = frame.HasPTS
	return &s.out, nil
}

func (s *Scaler) bind(src *astiav.Frame) error {
	w, h := src.Width(), src.Height()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ports.ErrConverterInit, w, h)
	}

	ssc, err := astiav.CreateSoftwareScaleContext(
		w, h, src.PixelFormat(),
		w, h, astiav.PixelFormatRgb24,
		astiav.NewSoftwareScaleContextFlags(astiav.SoftwareScaleContextFlagBilinear),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrConverterInit, err)
	}

	dst := astiav.AllocFrame()
	dst.SetWidth(w)
	dst.SetHeight(h)
	dst.SetPixelFormat(astiav.PixelFormatRgb24)
	if err := dst.AllocBuffer(s.align); err != nil {
		dst.Free()
		ssc.Free()
		return fmt.Errorf("%w: allocate rgb frame: %w", ports.ErrConverterInit, err)
	}

	stride := ports.RGBStride(w, s.align)
	s.ssc = ssc
	s.dst = dst
	s.format = src.PixelFormat()
	s.out = ports.ConvertedFrame{
		Width:  w,
		Height: h,
		Stride: stride,
		Pix:    make([]byte, stride*h),
	}
	s.bound = true

	s.log.Debug("Converter bound to %s %dx%d", s.format.Name(), w, h)
	return nil
}

// Close releases the scale context and the RGB buffer.
func (s *Scaler) Close() error {
	if s.dst != nil {
		s.dst.Free()
		s.dst = nil
	}
	if s.ssc != nil {
		s.ssc.Free()
		s.ssc = nil
	}
	s.out.Pix = nil
	s.bound = false
	return nil
}

var _ ports.PixelConverter = (*Scaler)(nil)
