package playback

import (
	"github.com/user/vidplay/pkg/ports"
)

// Selection is the outcome of choosing the stream to play.
type Selection struct {
	// Stream is the chosen stream.
	Stream ports.StreamDescriptor
	// Videos lists every decodable video stream in container order,
	// including the chosen one.
	Videos []ports.StreamDescriptor
	// Skipped lists video streams no decoder can handle.
	Skipped []ports.StreamDescriptor
}

// SelectVideoStream picks the first stream in container order that is video
// and that canDecode accepts. It returns ErrNoDecodableVideoStream when none
// qualifies.
func SelectVideoStream(streams []ports.StreamDescriptor, canDecode func(ports.StreamDescriptor) bool) (Selection, error) {
	var sel Selection
	found := false

	for _, s := range streams {
		if !s.IsVideo() {
			continue
		}
		if !canDecode(s) {
			sel.Skipped = append(sel.Skipped, s)
			continue
		}
		sel.Videos = append(sel.Videos, s)
		if !found {
			sel.Stream = s
			found = true
		}
	}

	if !found {
		return sel, ports.ErrNoDecodableVideoStream
	}
	return sel, nil
}

// FrameRate returns the stream's frame rate, or fallback when the stream
// has none. fellBack reports whether the fallback was used.
func FrameRate(stream ports.StreamDescriptor, fallback float64) (fps float64, fellBack bool) {
	if fps = stream.FrameRate.Float64(); fps > 0 {
		return fps, false
	}
	return fallback, true
}
