package mocks

import (
	"github.com/user/vidplay/pkg/ports"
)

// VideoDecoder is a mock implementation of ports.VideoDecoder.
// By default it decodes every video stream and opens Session.
type VideoDecoder struct {
	Session *CodecSession

	CanDecodeFunc func(stream ports.StreamDescriptor) bool
	OpenFunc      func(stream ports.StreamDescriptor) (ports.CodecSession, error)

	OpenCalls []ports.StreamDescriptor
}

// NewVideoDecoder creates a mock VideoDecoder.
func NewVideoDecoder(session *CodecSession) *VideoDecoder {
	return &VideoDecoder{Session: session}
}

func (m *VideoDecoder) CanDecode(stream ports.StreamDescriptor) bool {
	if m.CanDecodeFunc != nil {
		return m.CanDecodeFunc(stream)
	}
	return stream.IsVideo()
}

func (m *VideoDecoder) Open(stream ports.StreamDescriptor) (ports.CodecSession, error) {
	m.OpenCalls = append(m.OpenCalls, stream)
	if m.OpenFunc != nil {
		return m.OpenFunc(stream)
	}
	return m.Session, nil
}

// CodecSession is a scripted mock implementation of ports.CodecSession.
//
// Every fed packet yields FramesPerPacket frames of Width x Height. The
// frames of the last Delay packets are held back until Flush, the way a
// reordering decoder buffers pictures.
type CodecSession struct {
	Width           int
	Height          int
	Format          ports.PixelFormat
	FramesPerPacket int
	Delay           int

	FeedFunc      func(pkt *ports.EncodedPacket) error
	PollFrameFunc func() (*ports.DecodedFrame, error)
	FlushFunc     func() error
	CloseFunc     func() error

	Fed        []ports.EncodedPacket
	FlushCalls int
	CloseCalls int

	pending [][]ports.DecodedFrame
	ready   []ports.DecodedFrame
	frame   ports.DecodedFrame
	decoded int
	flushed bool
}

// NewCodecSession creates a session producing one yuv420p frame per packet.
func NewCodecSession(width, height int) *CodecSession {
	return &CodecSession{
		Width:           width,
		Height:          height,
		Format:          ports.PixelFormatYUV420P,
		FramesPerPacket: 1,
	}
}

func (m *CodecSession) Feed(pkt *ports.EncodedPacket) error {
	m.Fed = append(m.Fed, *pkt)
	if m.FeedFunc != nil {
		if err := m.FeedFunc(pkt); err != nil {
			return err
		}
	}

	frames := make([]ports.DecodedFrame, 0, m.FramesPerPacket)
	for i := 0; i < m.FramesPerPacket; i++ {
		f := ports.DecodedFrame{
			Index:  m.decoded,
			Width:  m.Width,
			Height: m.Height,
			Format: m.Format,
		}
		if pkt.PTS != ports.NoPTS && !pkt.TimeBase.IsZero() {
			f.PTS = pkt.TimeBase.Duration(pkt.PTS)
			f.HasPTS = true
		}
		frames = append(frames, f)
		m.decoded++
	}
	m.pending = append(m.pending, frames)

	for len(m.pending) > m.Delay {
		m.ready = append(m.ready, m.pending[0]...)
		m.pending = m.pending[1:]
	}
	return nil
}

func (m *CodecSession) PollFrame() (*ports.DecodedFrame, error) {
	if m.PollFrameFunc != nil {
		return m.PollFrameFunc()
	}
	if len(m.ready) == 0 {
		if m.flushed {
			return nil, ports.ErrEndOfStream
		}
		return nil, ports.ErrNeedMoreInput
	}
	m.frame = m.ready[0]
	m.ready = m.ready[1:]
	return &m.frame, nil
}

func (m *CodecSession) Flush() error {
	m.FlushCalls++
	if m.FlushFunc != nil {
		return m.FlushFunc()
	}
	for _, frames := range m.pending {
		m.ready = append(m.ready, frames...)
	}
	m.pending = nil
	m.flushed = true
	return nil
}

func (m *CodecSession) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var (
	_ ports.VideoDecoder = (*VideoDecoder)(nil)
	_ ports.CodecSession = (*CodecSession)(nil)
)
