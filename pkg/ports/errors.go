package ports

import "errors"

// Fatal initialization errors.
var (
	// ErrOpen is returned when the container cannot be opened.
	ErrOpen = errors.New("vidplay: could not open the file")

	// ErrStreamInfo is returned when stream information cannot be read.
	ErrStreamInfo = errors.New("vidplay: could not get the stream info")

	// ErrNoDecodableVideoStream is returned when no video stream has an available decoder.
	ErrNoDecodableVideoStream = errors.New("vidplay: could not find a decodable video stream")

	// ErrDecoderInit is returned when a codec session cannot be allocated or bound to its stream.
	ErrDecoderInit = errors.New("vidplay: could not initialize decoder")

	// ErrConverterInit is returned when the pixel converter cannot be configured.
	ErrConverterInit = errors.New("vidplay: could not initialize pixel converter")

	// ErrSurface is returned when the window, renderer or texture cannot be created.
	ErrSurface = errors.New("vidplay: could not create presentation surface")
)

// Decode path results.
var (
	// ErrEndOfStream marks the end of packets from a container or frames from a session.
	ErrEndOfStream = errors.New("vidplay: end of stream")

	// ErrNeedMoreInput is returned by PollFrame when the session must be fed first.
	ErrNeedMoreInput = errors.New("vidplay: decoder needs more input")

	// ErrPacketRejected is returned by Feed for a packet the codec refused.
	// The packet is dropped and playback continues.
	ErrPacketRejected = errors.New("vidplay: packet rejected by decoder")

	// ErrDecodeFault is returned by PollFrame when the session failed.
	// Playback stops.
	ErrDecodeFault = errors.New("vidplay: decode fault")

	// ErrFormatChanged is returned by Convert for a frame that does not match
	// the format and dimensions the converter was bound to.
	ErrFormatChanged = errors.New("vidplay: frame format changed mid-stream")

	// ErrUnsupportedFormat is returned for pixel formats a converter cannot read.
	ErrUnsupportedFormat = errors.New("vidplay: unsupported pixel format")

	// ErrClosed is returned when a component is used after Close.
	ErrClosed = errors.New("vidplay: use of closed component")
)
