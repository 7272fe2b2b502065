package ports

// PixelConverter converts decoded frames to packed RGB24.
//
// A converter binds itself to the format and dimensions of the first frame it
// sees; later frames must match or Convert fails with ErrFormatChanged.
type PixelConverter interface {
	// Convert converts a frame. The result is overwritten by the next call.
	Convert(frame *DecodedFrame) (*ConvertedFrame, error)

	// Close releases scratch buffers.
	Close() error
}
