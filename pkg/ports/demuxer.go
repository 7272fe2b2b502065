package ports

// Demuxer opens media containers.
type Demuxer interface {
	// Open opens the container at path.
	// Failures wrap ErrOpen or ErrStreamInfo.
	Open(path string) (Container, error)
}

// Container is an opened media container. It owns its streams and the
// packet buffer handed out by NextPacket.
type Container interface {
	// Streams returns the streams in container order.
	Streams() ([]StreamDescriptor, error)

	// NextPacket reads the next packet of any stream.
	// It returns ErrEndOfStream once the container is exhausted.
	// The returned packet is reused by the next call.
	NextPacket() (*EncodedPacket, error)

	// Close releases the container.
	Close() error
}
