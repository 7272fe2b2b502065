package mocks

import (
	"time"

	"github.com/user/vidplay/pkg/ports"
)

// Observer is a mock implementation of ports.PlaybackObserver that counts events.
type Observer struct {
	Stream          ports.StreamDescriptor
	FPS             float64
	PacketsRead     int
	PacketsSelected int
	Rejected        int
	Decoded         int
	Presented       int
	Late            []time.Duration
}

// NewObserver creates a mock Observer.
func NewObserver() *Observer {
	return &Observer{}
}

func (m *Observer) StreamSelected(stream ports.StreamDescriptor, fps float64) {
	m.Stream = stream
	m.FPS = fps
}

func (m *Observer) PacketRead(_ int, selected bool) {
	m.PacketsRead++
	if selected {
		m.PacketsSelected++
	}
}

func (m *Observer) PacketRejected() {
	m.Rejected++
}

func (m *Observer) FrameDecoded() {
	m.Decoded++
}

func (m *Observer) FramePresented(_ time.Duration, lateBy time.Duration) {
	m.Presented++
	m.Late = append(m.Late, lateBy)
}

var _ ports.PlaybackObserver = (*Observer)(nil)
