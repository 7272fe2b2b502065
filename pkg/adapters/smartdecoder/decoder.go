// Package smartdecoder routes each stream to the decoding backend that
// should handle its codec.
package smartdecoder

import (
	"fmt"

	"github.com/user/vidplay/pkg/ports"
)

// Backend represents the decoding backend used.
type Backend string

const (
	// BackendLibav represents libavcodec decoding.
	BackendLibav Backend = "libav"
	// BackendLibaom represents libaom for AV1 decoding.
	BackendLibaom Backend = "libaom"
	// BackendNone means no backend can decode the stream.
	BackendNone Backend = "none"
)

// Info contains information about the selected decoder.
type Info struct {
	// Codec is the stream's codec.
	Codec ports.CodecID
	// Backend is the decoding backend being used.
	Backend Backend
}

// Options configures the smart decoder behavior.
type Options struct {
	// PreferLibaom sends AV1 streams to libaom instead of libavcodec.
	PreferLibaom bool
}

// Decoder wraps the available ports.VideoDecoder backends.
//
// The selection flow:
//   - AV1 with PreferLibaom: use libaom, fall back to libavcodec
//   - everything else: use libavcodec
type Decoder struct {
	libav  ports.VideoDecoder
	libaom ports.VideoDecoder
	opts   Options
	log    ports.Logger
}

// New creates a routing decoder. libaom may be nil.
func New(libav, libaom ports.VideoDecoder, opts Options, log ports.Logger) *Decoder {
	return &Decoder{
		libav:  libav,
		libaom: libaom,
		opts:   opts,
		log:    log,
	}
}

func (d *Decoder) route(stream ports.StreamDescriptor) (ports.VideoDecoder, Backend) {
	if stream.Codec == ports.CodecAV1 && d.opts.PreferLibaom && d.libaom != nil && d.libaom.CanDecode(stream) {
		return d.libaom, BackendLibaom
	}
	if d.libav != nil && d.libav.CanDecode(stream) {
		return d.libav, BackendLibav
	}
	return nil, BackendNone
}

// Info returns the backend a stream would be decoded with.
func (d *Decoder) Info(stream ports.StreamDescriptor) Info {
	_, backend := d.route(stream)
	return Info{Codec: stream.Codec, Backend: backend}
}

// CanDecode reports whether any backend can decode the stream.
func (d *Decoder) CanDecode(stream ports.StreamDescriptor) bool {
	inner, _ := d.route(stream)
	return inner != nil
}

// Open opens a session on the selected backend.
func (d *Decoder) Open(stream ports.StreamDescriptor) (ports.CodecSession, error) {
	inner, backend := d.route(stream)
	if inner == nil {
		return nil, fmt.Errorf("%w: no decoder available for %s", ports.ErrDecoderInit, stream.Codec)
	}

	session, err := inner.Open(stream)
	if err != nil {
		return nil, err
	}
	d.log.Debug("Decoding %s with %s", stream.Codec, backend)
	return session, nil
}

// Ensure Decoder implements ports.VideoDecoder
var _ ports.VideoDecoder = (*Decoder)(nil)
