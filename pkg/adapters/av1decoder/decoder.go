// Package av1decoder provides an AV1 video decoder using libaom.
package av1decoder

/*
#cgo pkg-config: aom
#include <aom/aom_decoder.h>
#include <aom/aomdx.h>
#include <stdlib.h>
#include <string.h>

static aom_codec_iface_t* get_av1_decoder_interface() {
    return aom_codec_av1_dx();
}

// Wrapper for aom_codec_dec_init
static aom_codec_err_t init_decoder(aom_codec_ctx_t *ctx, aom_codec_iface_t *iface) {
    return aom_codec_dec_init(ctx, iface, NULL, 0);
}

// Get image plane data
static unsigned char* get_plane(aom_image_t *img, int plane) {
    return img->planes[plane];
}

static int get_stride(aom_image_t *img, int plane) {
    return img->stride[plane];
}

static unsigned int get_width(aom_image_t *img) {
    return img->d_w;
}

static unsigned int get_height(aom_image_t *img) {
    return img->d_h;
}

static int is_i420(aom_image_t *img) {
    return img->fmt == AOM_IMG_FMT_I420;
}
*/
import "C"

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/user/vidplay/pkg/ports"
)

// Decoder opens libaom sessions for AV1 streams.
type Decoder struct {
	log ports.Logger
}

// New creates a new AV1 decoder.
func New(log ports.Logger) *Decoder {
	return &Decoder{log: log}
}

// CanDecode reports whether the stream is AV1 video.
func (d *Decoder) CanDecode(stream ports.StreamDescriptor) bool {
	return stream.IsVideo() && stream.Codec == ports.CodecAV1
}

// Open initializes a libaom decoder context for the stream.
func (d *Decoder) Open(stream ports.StreamDescriptor) (ports.CodecSession, error) {
	if !d.CanDecode(stream) {
		return nil, fmt.Errorf("%w: %s is not av1", ports.ErrDecoderInit, stream.Codec)
	}

	codec := (*C.aom_codec_ctx_t)(C.malloc(C.sizeof_aom_codec_ctx_t))
	if codec == nil {
		return nil, fmt.Errorf("%w: failed to allocate decoder context", ports.ErrDecoderInit)
	}
	C.memset(unsafe.Pointer(codec), 0, C.sizeof_aom_codec_ctx_t)

	iface := C.get_av1_decoder_interface()
	if res := C.init_decoder(codec, iface); res != C.AOM_CODEC_OK {
		C.free(unsafe.Pointer(codec))
		return nil, fmt.Errorf("%w: failed to initialize decoder: %d", ports.ErrDecoderInit, res)
	}

	return &Session{
		codec:    codec,
		timeBase: stream.TimeBase,
		log:      d.log,
	}, nil
}

type pendingPTS struct {
	pts    time.Duration
	hasPTS bool
}

// Session decodes one AV1 stream. Decoded pictures are exported as
// yuv420p planes.
type Session struct {
	codec    *C.aom_codec_ctx_t
	iter     C.aom_codec_iter_t
	timeBase ports.Rational
	pending  []pendingPTS
	flushed  bool

	frame   ports.DecodedFrame
	planes  [3][]byte
	decoded int
	log     ports.Logger
}

// Feed decodes one temporal unit. Packets from libavformat carry their
// bytes only in Native.
func (s *Session) Feed(pkt *ports.EncodedPacket) error {
	if s.codec == nil {
		return ports.ErrClosed
	}
	data := pkt.Payload()
	if len(data) == 0 {
		return fmt.Errorf("%w: empty frame data", ports.ErrPacketRejected)
	}

	res := C.aom_codec_decode(
		s.codec,
		(*C.uint8_t)(unsafe.Pointer(&data[0])),
		C.size_t(len(data)),
		nil,
	)
	if res != C.AOM_CODEC_OK {
		return fmt.Errorf("%w: decode failed: %s", ports.ErrPacketRejected, C.GoString(C.aom_codec_error(s.codec)))
	}

	s.iter = nil
	p := pendingPTS{}
	if pkt.PTS != ports.NoPTS && !s.timeBase.IsZero() {
		p = pendingPTS{pts: s.timeBase.Duration(pkt.PTS), hasPTS: true}
	}
	s.pending = append(s.pending, p)
	return nil
}

// PollFrame returns the next picture produced by the last Feed or Flush.
func (s *Session) PollFrame() (*ports.DecodedFrame, error) {
	if s.codec == nil {
		return nil, ports.ErrClosed
	}

	img := C.aom_codec_get_frame(s.codec, &s.iter)
	if img == nil {
		if s.flushed {
			return nil, ports.ErrEndOfStream
		}
		return nil, ports.ErrNeedMoreInput
	}
	if C.is_i420(img) == 0 {
		return nil, fmt.Errorf("%w: %w: only 8-bit 4:2:0 is supported", ports.ErrDecodeFault, ports.ErrUnsupportedFormat)
	}

	width := int(C.get_width(img))
	height := int(C.get_height(img))
	cw, ch := (width+1)/2, (height+1)/2

	s.planes[0] = copyPlane(s.planes[0], C.get_plane(img, 0), int(C.get_stride(img, 0)), width, height)
	s.planes[1] = copyPlane(s.planes[1], C.get_plane(img, 1), int(C.get_stride(img, 1)), cw, ch)
	s.planes[2] = copyPlane(s.planes[2], C.get_plane(img, 2), int(C.get_stride(img, 2)), cw, ch)

	s.frame = ports.DecodedFrame{
		Index:   s.decoded,
		Width:   width,
		Height:  height,
		Format:  ports.PixelFormatYUV420P,
		Planes:  s.planes[:],
		Strides: []int{width, cw, cw},
	}
	if len(s.pending) > 0 {
		s.frame.PTS = s.pending[0].pts
		s.frame.HasPTS = s.pending[0].hasPTS
		s.pending = s.pending[1:]
	}

	s.decoded++
	s.log.Debug("Decoded frame %d (%s, %dx%d)", s.frame.Index, s.frame.Format, width, height)
	return &s.frame, nil
}

// copyPlane copies rows of a libaom plane into a tightly packed buffer.
func copyPlane(dst []byte, src *C.uchar, stride, rowBytes, rows int) []byte {
	n := rowBytes * rows
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	plane := unsafe.Slice((*byte)(unsafe.Pointer(src)), stride*(rows-1)+rowBytes)
	for y := 0; y < rows; y++ {
		copy(dst[y*rowBytes:(y+1)*rowBytes], plane[y*stride:y*stride+rowBytes])
	}
	return dst
}

// Flush tells libaom no more data follows so it can release buffered pictures.
func (s *Session) Flush() error {
	if s.codec == nil {
		return ports.ErrClosed
	}
	if res := C.aom_codec_decode(s.codec, nil, 0, nil); res != C.AOM_CODEC_OK {
		return fmt.Errorf("flush: %d", res)
	}
	s.iter = nil
	s.flushed = true
	return nil
}

// Close releases decoder resources.
func (s *Session) Close() error {
	if s.codec != nil {
		C.aom_codec_destroy(s.codec)
		C.free(unsafe.Pointer(s.codec))
		s.codec = nil
	}
	return nil
}

var (
	_ ports.VideoDecoder = (*Decoder)(nil)
	_ ports.CodecSession = (*Session)(nil)
)
