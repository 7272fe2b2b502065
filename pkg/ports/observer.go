package ports

import "time"

// PlaybackObserver receives playback events for telemetry.
// Implementations must be cheap; they run inside the playback loop.
type PlaybackObserver interface {
	StreamSelected(stream StreamDescriptor, fps float64)
	PacketRead(streamIndex int, selected bool)
	PacketRejected()
	FrameDecoded()
	FramePresented(presentDuration time.Duration, lateBy time.Duration)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) StreamSelected(StreamDescriptor, float64)    {}
func (NopObserver) PacketRead(int, bool)                        {}
func (NopObserver) PacketRejected()                             {}
func (NopObserver) FrameDecoded()                               {}
func (NopObserver) FramePresented(time.Duration, time.Duration) {}

var _ PlaybackObserver = NopObserver{}
