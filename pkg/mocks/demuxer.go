package mocks

import (
	"github.com/user/vidplay/pkg/ports"
)

// Demuxer is a mock implementation of ports.Demuxer.
type Demuxer struct {
	Container *Container
	OpenFunc  func(path string) (ports.Container, error)

	OpenCalls []string
}

// NewDemuxer creates a mock Demuxer that opens container.
func NewDemuxer(container *Container) *Demuxer {
	return &Demuxer{Container: container}
}

func (m *Demuxer) Open(path string) (ports.Container, error) {
	m.OpenCalls = append(m.OpenCalls, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	return m.Container, nil
}

// Container is a mock implementation of ports.Container that replays a
// fixed packet list.
type Container struct {
	StreamList []ports.StreamDescriptor
	Packets    []ports.EncodedPacket

	// ReadErr, when set, is returned instead of ErrEndOfStream once the
	// packets are exhausted.
	ReadErr error

	StreamsFunc    func() ([]ports.StreamDescriptor, error)
	NextPacketFunc func() (*ports.EncodedPacket, error)
	CloseFunc      func() error

	PacketsRead int
	CloseCalls  int

	current ports.EncodedPacket
}

// NewContainer creates a mock Container.
func NewContainer(streams []ports.StreamDescriptor, packets ...ports.EncodedPacket) *Container {
	return &Container{StreamList: streams, Packets: packets}
}

func (m *Container) Streams() ([]ports.StreamDescriptor, error) {
	if m.StreamsFunc != nil {
		return m.StreamsFunc()
	}
	return m.StreamList, nil
}

func (m *Container) NextPacket() (*ports.EncodedPacket, error) {
	if m.NextPacketFunc != nil {
		return m.NextPacketFunc()
	}
	if m.PacketsRead >= len(m.Packets) {
		if m.ReadErr != nil {
			return nil, m.ReadErr
		}
		return nil, ports.ErrEndOfStream
	}
	m.current = m.Packets[m.PacketsRead]
	m.PacketsRead++
	return &m.current, nil
}

func (m *Container) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var (
	_ ports.Demuxer   = (*Demuxer)(nil)
	_ ports.Container = (*Container)(nil)
)
