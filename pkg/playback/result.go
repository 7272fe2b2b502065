package playback

import "time"

// Reason tells why playback stopped without a fatal error.
type Reason int

const (
	// ReasonEndOfStream means every packet was read and the decoder drained.
	ReasonEndOfStream Reason = iota
	// ReasonReadError means the container failed to return a packet.
	ReasonReadError
	// ReasonQuitRequested means the user closed the window or pressed Escape.
	ReasonQuitRequested
	// ReasonCancelled means the context was cancelled, e.g. by SIGINT.
	ReasonCancelled
)

// String returns the string representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonEndOfStream:
		return "end of stream"
	case ReasonReadError:
		return "read error"
	case ReasonQuitRequested:
		return "quit requested"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of a Player.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Stats counts what happened during one run.
type Stats struct {
	PacketsRead     int
	VideoPackets    int
	PacketsRejected int
	FramesDecoded   int
	FramesPresented int
	ClockRebases    int
	MaxLateness     time.Duration
	Elapsed         time.Duration
}

// Result describes a finished run.
type Result struct {
	Reason Reason
	// ReadErr is the container error when Reason is ReasonReadError.
	ReadErr error
	Stream  StreamInfo
	Stats   Stats
}

// StreamInfo summarizes the stream that was played.
type StreamInfo struct {
	Index  int
	Codec  string
	Width  int
	Height int
	FPS    float64
}
