// Package ports defines interfaces for external dependencies.
package ports

import (
	"fmt"
	"math"
	"time"
)

// MediaType classifies a stream.
type MediaType int

const (
	MediaOther MediaType = iota
	MediaVideo
	MediaAudio
	MediaSubtitle
	MediaData
)

// String returns the string representation of the media type.
func (t MediaType) String() string {
	switch t {
	case MediaVideo:
		return "video"
	case MediaAudio:
		return "audio"
	case MediaSubtitle:
		return "subtitle"
	case MediaData:
		return "data"
	default:
		return "other"
	}
}

// CodecID is the canonical codec name as used by libavcodec (e.g. "h264", "hevc", "av1").
type CodecID string

const (
	CodecH264    CodecID = "h264"
	CodecHEVC    CodecID = "hevc"
	CodecAV1     CodecID = "av1"
	CodecVP9     CodecID = "vp9"
	CodecAAC     CodecID = "aac"
	CodecOpus    CodecID = "opus"
	CodecUnknown CodecID = "unknown"
)

// PixelFormat is the pixel layout name as used by libavutil (e.g. "yuv420p", "rgb24").
type PixelFormat string

const (
	PixelFormatYUV420P  PixelFormat = "yuv420p"
	PixelFormatYUVJ420P PixelFormat = "yuvj420p"
	PixelFormatYUV422P  PixelFormat = "yuv422p"
	PixelFormatYUV444P  PixelFormat = "yuv444p"
	PixelFormatGray     PixelFormat = "gray"
	PixelFormatRGB24    PixelFormat = "rgb24"
	PixelFormatRGBA     PixelFormat = "rgba"
	PixelFormatUnknown  PixelFormat = ""
)

// Rational is a fraction such as a frame rate (30000/1001) or a time base (1/90000).
type Rational struct {
	Num int
	Den int
}

// Float64 returns the value of the fraction, or 0 when it is undefined.
func (r Rational) Float64() float64 {
	if r.Num == 0 || r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// IsZero reports whether the fraction carries no usable value.
func (r Rational) IsZero() bool {
	return r.Num == 0 || r.Den == 0
}

// Duration converts a tick count expressed in this time base to a time.Duration.
func (r Rational) Duration(ticks int64) time.Duration {
	if r.IsZero() {
		return 0
	}
	return time.Duration(math.Round(float64(ticks) * float64(r.Num) * float64(time.Second) / float64(r.Den)))
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// StreamDescriptor describes one stream discovered in a container.
// It is immutable once returned by Container.Streams.
type StreamDescriptor struct {
	Index       int
	Type        MediaType
	Codec       CodecID
	Width       int
	Height      int
	FrameRate   Rational // 0/0 when the container gives no hint
	TimeBase    Rational
	PixelFormat PixelFormat

	// Params is an engine-specific handle used to bind decoder parameters.
	// Nil when the demuxer has nothing beyond the fields above.
	Params any
}

// IsVideo reports whether the stream carries video.
func (d StreamDescriptor) IsVideo() bool {
	return d.Type == MediaVideo
}

// NoPTS marks a packet or frame timestamp as unknown.
const NoPTS int64 = -1 << 63

// EncodedPacket is a compressed unit of one stream.
// It is only valid until the next Container.NextPacket call.
type EncodedPacket struct {
	StreamIndex int
	PTS         int64 // in TimeBase units, NoPTS when unknown
	DTS         int64
	TimeBase    Rational
	Keyframe    bool

	// Data holds the payload. It may be nil when Native carries it.
	Data []byte
	Size int

	// Native is the engine-owned packet, if any.
	Native any
}

// Payload returns the packet bytes. When Data is empty they are read from
// Native, if the engine packet exposes them.
func (p *EncodedPacket) Payload() []byte {
	if len(p.Data) > 0 {
		return p.Data
	}
	if n, ok := p.Native.(interface{ Data() []byte }); ok {
		return n.Data()
	}
	return nil
}

// DecodedFrame is the decoder's single reusable output slot.
// Every PollFrame call overwrites it.
type DecodedFrame struct {
	Index  int // decode order, starting at 0
	Width  int
	Height int
	Format PixelFormat
	PTS    time.Duration
	HasPTS bool

	// Planes and Strides are filled when the session exports raw planes.
	Planes  [][]byte
	Strides []int

	// Native is the engine-owned frame, if any.
	Native any
}

// ConvertedFrame is a packed RGB24 picture owned by the converter.
// Every Convert call overwrites it.
type ConvertedFrame struct {
	Index  int
	Width  int
	Height int
	Stride int
	Pix    []byte
	PTS    time.Duration
	HasPTS bool
}

// DefaultRowAlign is the row alignment, in bytes, of converted frames.
const DefaultRowAlign = 32

// RGBStride returns the row size of a packed RGB24 picture of the given width,
// rounded up to align bytes.
func RGBStride(width, align int) int {
	row := width * 3
	if align <= 1 {
		return row
	}
	return (row + align - 1) / align * align
}
