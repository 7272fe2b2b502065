package mocks

import (
	"time"

	"github.com/user/vidplay/pkg/ports"
)

// Presenter is a mock implementation of ports.Presenter.
type Presenter struct {
	CreateSurfaceFunc func(width, height int) error
	UploadFunc        func(frame *ports.ConvertedFrame) error
	PresentFunc       func() error
	PollInputFunc     func() ports.InputAction
	CloseFunc         func() error

	SurfaceWidth  int
	SurfaceHeight int
	SurfaceCalls  int
	Uploaded      []int
	Strides       []int
	PresentedAt   []time.Time
	PollCalls     int
	CloseCalls    int
}

// NewPresenter creates a mock Presenter.
func NewPresenter() *Presenter {
	return &Presenter{}
}

func (m *Presenter) CreateSurface(width, height int) error {
	m.SurfaceCalls++
	m.SurfaceWidth = width
	m.SurfaceHeight = height
	if m.CreateSurfaceFunc != nil {
		return m.CreateSurfaceFunc(width, height)
	}
	return nil
}

func (m *Presenter) Upload(frame *ports.ConvertedFrame) error {
	m.Uploaded = append(m.Uploaded, frame.Index)
	m.Strides = append(m.Strides, frame.Stride)
	if m.UploadFunc != nil {
		return m.UploadFunc(frame)
	}
	return nil
}

func (m *Presenter) Present() error {
	m.PresentedAt = append(m.PresentedAt, time.Now())
	if m.PresentFunc != nil {
		return m.PresentFunc()
	}
	return nil
}

func (m *Presenter) PollInput() ports.InputAction {
	m.PollCalls++
	if m.PollInputFunc != nil {
		return m.PollInputFunc()
	}
	return ports.InputContinue
}

func (m *Presenter) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.Presenter = (*Presenter)(nil)
