package mocks

import (
	"github.com/user/vidplay/pkg/ports"
)

// PixelConverter is a mock implementation of ports.PixelConverter.
// By default it returns a blank RGB24 frame of the input's dimensions.
type PixelConverter struct {
	Align int

	ConvertFunc func(frame *ports.DecodedFrame) (*ports.ConvertedFrame, error)
	CloseFunc   func() error

	Converted  []int
	CloseCalls int

	out ports.ConvertedFrame
}

// NewPixelConverter creates a mock PixelConverter with 32-byte row alignment.
func NewPixelConverter() *PixelConverter {
	return &PixelConverter{Align: ports.DefaultRowAlign}
}

func (m *PixelConverter) Convert(frame *ports.DecodedFrame) (*ports.ConvertedFrame, error) {
	m.Converted = append(m.Converted, frame.Index)
	if m.ConvertFunc != nil {
		return m.ConvertFunc(frame)
	}

	stride := ports.RGBStride(frame.Width, m.Align)
	if len(m.out.Pix) != stride*frame.Height {
		m.out.Pix = make([]byte, stride*frame.Height)
	}
	m.out.Index = frame.Index
	m.out.Width = frame.Width
	m.out.Height = frame.Height
	m.out.Stride = stride
	m.out.PTS = frame.PTS
	m.out.HasPTS = frame.HasPTS
	return &m.out, nil
}

func (m *PixelConverter) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.PixelConverter = (*PixelConverter)(nil)
