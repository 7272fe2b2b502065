package libav

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/user/vidplay/pkg/ports"
)

// Demuxer opens containers with libavformat.
type Demuxer struct{}

// NewDemuxer creates a libavformat demuxer.
func NewDemuxer() *Demuxer {
	return &Demuxer{}
}

// Open opens the container at path and reads its stream information.
func (d *Demuxer) Open(path string) (ports.Container, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, fmt.Errorf("%w: %s: could not allocate format context", ports.ErrOpen, path)
	}

	if err := fc.OpenInput(path, nil, nil); err != nil {
		fc.Free()
		return nil, fmt.Errorf("%w: %s: %w", ports.ErrOpen, path, err)
	}

	if err := fc.FindStreamInfo(nil); err != nil {
		fc.CloseInput()
		fc.Free()
		return nil, fmt.Errorf("%w: %s: %w", ports.ErrStreamInfo, path, err)
	}

	return &Container{
		fc:  fc,
		raw: astiav.AllocPacket(),
	}, nil
}

// Container is an opened libavformat input.
type Container struct {
	fc      *astiav.FormatContext
	raw     *astiav.Packet
	pkt     ports.EncodedPacket
	streams []ports.StreamDescriptor
	closed  bool
}

// Streams returns the container's streams in container order.
// Params holds the stream's *astiav.CodecParameters.
func (c *Container) Streams() ([]ports.StreamDescriptor, error) {
	if c.closed {
		return nil, ports.ErrClosed
	}
	if c.streams != nil {
		return c.streams, nil
	}

	for _, s := range c.fc.Streams() {
		cp := s.CodecParameters()

		desc := ports.StreamDescriptor{
			Index:    s.Index(),
			Type:     mediaType(cp.MediaType()),
			Codec:    codecID(cp.CodecID()),
			TimeBase: rational(s.TimeBase()),
			Params:   cp,
		}

		if desc.IsVideo() {
			desc.Width = cp.Width()
			desc.Height = cp.Height()
			desc.PixelFormat = pixelFormat(cp.PixelFormat())

			desc.FrameRate = rational(s.RFrameRate())
			if desc.FrameRate.IsZero() {
				desc.FrameRate = rational(c.fc.GuessFrameRate(s, nil))
			}
		}

		c.streams = append(c.streams, desc)
	}

	return c.streams, nil
}

// NextPacket reads the next packet. The packet and its Native
// *astiav.Packet are reused by the next call.
func (c *Container) NextPacket() (*ports.EncodedPacket, error) {
	if c.closed {
		return nil, ports.ErrClosed
	}

	if c.streams == nil {
		if _, err := c.Streams(); err != nil {
			return nil, err
		}
	}

	c.raw.Unref()
	if err := c.fc.ReadFrame(c.raw); err != nil {
		if errors.Is(err, astiav.ErrEof) {
			return nil, ports.ErrEndOfStream
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}

	tb := ports.Rational{}
	idx := c.raw.StreamIndex()
	if idx >= 0 && idx < len(c.streams) {
		tb = c.streams[idx].TimeBase
	}

	c.pkt = ports.EncodedPacket{
		StreamIndex: idx,
		PTS:         timestamp(c.raw.Pts()),
		DTS:         timestamp(c.raw.Dts()),
		TimeBase:    tb,
		Keyframe:    c.raw.Flags().Has(astiav.PacketFlagKey),
		Size:        c.raw.Size(),
		Native:      c.raw,
	}
	return &c.pkt, nil
}

// Close closes the input. It is safe to call more than once.
func (c *Container) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	c.raw.Free()
	c.fc.CloseInput()
	c.fc.Free()
	return nil
}

func timestamp(v int64) int64 {
	if v == astiav.NoPtsValue {
		return ports.NoPTS
	}
	return v
}

var (
	_ ports.Demuxer   = (*Demuxer)(nil)
	_ ports.Container = (*Container)(nil)
)
