package libav

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/user/vidplay/pkg/ports"
)

// DecoderOptions configures the libavcodec decoder.
type DecoderOptions struct {
	// ExportPlanes copies every decoded picture into DecodedFrame.Planes so
	// converters that do not understand *astiav.Frame can read it.
	ExportPlanes bool
}

// Decoder opens libavcodec sessions.
type Decoder struct {
	opts DecoderOptions
	log  ports.Logger
}

// NewDecoder creates a libavcodec decoder.
func NewDecoder(opts DecoderOptions, log ports.Logger) *Decoder {
	return &Decoder{opts: opts, log: log}
}

// CanDecode reports whether libavcodec has a decoder for the stream.
func (d *Decoder) CanDecode(stream ports.StreamDescriptor) bool {
	return stream.IsVideo() && findDecoder(stream) != nil
}

// Open allocates a codec context and binds it to the stream parameters.
// Streams from other demuxers carry no *astiav.CodecParameters; their
// decoder is looked up by codec ID (by name for codecs without a mapping)
// and configured from the descriptor.
func (d *Decoder) Open(stream ports.StreamDescriptor) (ports.CodecSession, error) {
	codec := findDecoder(stream)
	if codec == nil {
		return nil, fmt.Errorf("%w: no decoder for %s", ports.ErrDecoderInit, stream.Codec)
	}

	cc := astiav.AllocCodecContext(codec)
	if cc == nil {
		return nil, fmt.Errorf("%w: could not allocate codec context", ports.ErrDecoderInit)
	}

	if cp, ok := stream.Params.(*astiav.CodecParameters); ok {
		if err := cp.ToCodecContext(cc); err != nil {
			cc.Free()
			return nil, fmt.Errorf("%w: copy codec parameters: %w", ports.ErrDecoderInit, err)
		}
	} else {
		cc.SetWidth(stream.Width)
		cc.SetHeight(stream.Height)
	}

	if err := cc.Open(codec, nil); err != nil {
		cc.Free()
		return nil, fmt.Errorf("%w: open codec: %w", ports.ErrDecoderInit, err)
	}

	return &session{
		cc:           cc,
		raw:          astiav.AllocFrame(),
		scratch:      astiav.AllocPacket(),
		timeBase:     stream.TimeBase,
		streamIndex:  stream.Index,
		exportPlanes: d.opts.ExportPlanes,
		log:          d.log,
	}, nil
}

func findDecoder(stream ports.StreamDescriptor) *astiav.Codec {
	if cp, ok := stream.Params.(*astiav.CodecParameters); ok {
		return astiav.FindDecoder(cp.CodecID())
	}
	if id, ok := nativeCodecID(stream.Codec); ok {
		return astiav.FindDecoder(id)
	}
	if stream.Codec == "" || stream.Codec == ports.CodecUnknown {
		return nil
	}
	return astiav.FindDecoderByName(string(stream.Codec))
}

type session struct {
	cc      *astiav.CodecContext
	raw     *astiav.Frame
	scratch *astiav.Packet
	frame   ports.DecodedFrame
	buf     []byte

	timeBase     ports.Rational
	streamIndex  int
	exportPlanes bool
	decoded      int
	closed       bool
	log          ports.Logger
}

func (s *session) Feed(pkt *ports.EncodedPacket) error {
	if s.closed {
		return ports.ErrClosed
	}

	p, ok := pkt.Native.(*astiav.Packet)
	if !ok {
		s.scratch.Unref()
		if err := s.scratch.FromData(pkt.Data); err != nil {
			return fmt.Errorf("%w: %w", ports.ErrPacketRejected, err)
		}
		s.scratch.SetPts(nativeTimestamp(pkt.PTS))
		s.scratch.SetDts(nativeTimestamp(pkt.DTS))
		s.scratch.SetStreamIndex(s.streamIndex)
		if pkt.Keyframe {
			s.scratch.SetFlags(s.scratch.Flags().Add(astiav.PacketFlagKey))
		}
		p = s.scratch
	}

	if err := s.cc.SendPacket(p); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrPacketRejected, err)
	}
	return nil
}

func (s *session) PollFrame() (*ports.DecodedFrame, error) {
	if s.closed {
		return nil, ports.ErrClosed
	}

	s.raw.Unref()
	if err := s.cc.ReceiveFrame(s.raw); err != nil {
		switch {
		case errors.Is(err, astiav.ErrEagain):
			return nil, ports.ErrNeedMoreInput
		case errors.Is(err, astiav.ErrEof):
			return nil, ports.ErrEndOfStream
		default:
			return nil, fmt.Errorf("%w: %w", ports.ErrDecodeFault, err)
		}
	}

	s.frame = ports.DecodedFrame{
		Index:  s.decoded,
		Width:  s.raw.Width(),
		Height: s.raw.Height(),
		Format: pixelFormat(s.raw.PixelFormat()),
		Native: s.raw,
	}
	if pts := s.raw.Pts(); pts != astiav.NoPtsValue && !s.timeBase.IsZero() {
		s.frame.PTS = s.timeBase.Duration(pts)
		s.frame.HasPTS = true
	}

	if s.exportPlanes {
		if err := s.export(); err != nil {
			return nil, err
		}
	}

	s.decoded++
	s.log.Debug("Decoded frame %d (%s, %dx%d)", s.frame.Index, s.frame.Format, s.frame.Width, s.frame.Height)
	return &s.frame, nil
}

// export copies the picture into one tightly packed buffer and slices it
// into planes.
func (s *session) export() error {
	sizes, strides, ok := planeLayout(s.frame.Format, s.frame.Width, s.frame.Height)
	if !ok {
		return fmt.Errorf("%w: %w: %s", ports.ErrDecodeFault, ports.ErrUnsupportedFormat, s.frame.Format)
	}

	n, err := s.raw.ImageBufferSize(1)
	if err != nil {
		return fmt.Errorf("%w: image buffer size: %w", ports.ErrDecodeFault, err)
	}
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	s.buf = s.buf[:n]
	if _, err := s.raw.ImageCopyToBuffer(s.buf, 1); err != nil {
		return fmt.Errorf("%w: copy image: %w", ports.ErrDecodeFault, err)
	}

	planes := make([][]byte, len(sizes))
	off := 0
	for i, size := range sizes {
		if off+size > len(s.buf) {
			return fmt.Errorf("%w: short image buffer", ports.ErrDecodeFault)
		}
		planes[i] = s.buf[off : off+size]
		off += size
	}
	s.frame.Planes = planes
	s.frame.Strides = strides
	return nil
}

func (s *session) Flush() error {
	if s.closed {
		return ports.ErrClosed
	}
	if err := s.cc.SendPacket(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.scratch.Free()
	s.raw.Free()
	s.cc.Free()
	return nil
}

func nativeTimestamp(v int64) int64 {
	if v == ports.NoPTS {
		return astiav.NoPtsValue
	}
	return v
}

var (
	_ ports.VideoDecoder = (*Decoder)(nil)
	_ ports.CodecSession = (*session)(nil)
)
