package ports

// VideoDecoder creates codec sessions for video streams.
type VideoDecoder interface {
	// CanDecode reports whether a decoder is available for the stream.
	CanDecode(stream StreamDescriptor) bool

	// Open allocates a session bound to the stream's codec parameters.
	// Failures wrap ErrDecoderInit.
	Open(stream StreamDescriptor) (CodecSession, error)
}

// CodecSession is the decoding state of one stream.
//
// The caller feeds one packet and then drains PollFrame until it returns
// ErrNeedMoreInput or ErrEndOfStream before feeding the next packet.
// A packet may yield zero, one or several frames.
type CodecSession interface {
	// Feed submits a packet. A rejection wraps ErrPacketRejected.
	Feed(pkt *EncodedPacket) error

	// PollFrame returns the next decoded frame, ErrNeedMoreInput,
	// ErrEndOfStream, or an error wrapping ErrDecodeFault.
	// The returned frame is overwritten by the next call.
	PollFrame() (*DecodedFrame, error)

	// Flush signals the end of input so buffered frames can be drained.
	Flush() error

	// Close releases the session.
	Close() error
}
