// Package sdlpresenter shows frames in an SDL2 window.
//
// All methods must be called from the main OS thread; the binary locks it
// in init.
package sdlpresenter

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/user/vidplay/pkg/ports"
)

// DefaultTitle is the window title used when none is configured.
const DefaultTitle = "Minimal FFmpeg SDL2 Video Player"

// Presenter owns an SDL window, its renderer and one streaming RGB24 texture.
type Presenter struct {
	title string
	log   ports.Logger

	initialized bool
	window      *sdl.Window
	renderer    *sdl.Renderer
	texture     *sdl.Texture
}

// New creates a presenter. Nothing is created until CreateSurface.
func New(title string, log ports.Logger) *Presenter {
	if title == "" {
		title = DefaultTitle
	}
	return &Presenter{title: title, log: log}
}

// CreateSurface initializes SDL and creates a window of exactly width x height.
func (p *Presenter) CreateSurface(width, height int) error {
	if p.texture != nil {
		return fmt.Errorf("%w: surface already created", ports.ErrSurface)
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_TIMER); err != nil {
		return fmt.Errorf("%w: could not initialize SDL: %w", ports.ErrSurface, err)
	}
	p.initialized = true

	window, err := sdl.CreateWindow(p.title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_OPENGL)
	if err != nil {
		p.Close()
		return fmt.Errorf("%w: could not create window: %w", ports.ErrSurface, err)
	}
	p.window = window

	renderer, err := sdl.CreateRenderer(window, -1, 0)
	if err != nil {
		p.Close()
		return fmt.Errorf("%w: could not create renderer: %w", ports.ErrSurface, err)
	}
	p.renderer = renderer

	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGB24), sdl.TEXTUREACCESS_STREAMING,
		int32(width), int32(height))
	if err != nil {
		p.Close()
		return fmt.Errorf("%w: could not create texture: %w", ports.ErrSurface, err)
	}
	p.texture = texture

	p.log.Debug("Surface created: %dx%d", width, height)
	return nil
}

// Upload copies the frame into the texture, honouring its stride.
func (p *Presenter) Upload(frame *ports.ConvertedFrame) error {
	if p.texture == nil {
		return ports.ErrClosed
	}
	if len(frame.Pix) == 0 {
		return fmt.Errorf("upload: empty frame")
	}

	pixels, pitch, err := p.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("upload: failed to lock texture: %w", err)
	}
	defer p.texture.Unlock()

	copyRows(pixels, pitch, frame)
	return nil
}

// copyRows copies the visible part of every row from the frame into a
// texture buffer with its own pitch.
func copyRows(dst []byte, pitch int, frame *ports.ConvertedFrame) {
	row := frame.Width * 3
	for y := 0; y < frame.Height; y++ {
		d := y * pitch
		s := y * frame.Stride
		if d+row > len(dst) || s+row > len(frame.Pix) {
			return
		}
		copy(dst[d:d+row], frame.Pix[s:s+row])
	}
}

// Present clears the renderer, copies the full texture and flips.
func (p *Presenter) Present() error {
	if p.renderer == nil {
		return ports.ErrClosed
	}
	if err := p.renderer.Clear(); err != nil {
		return fmt.Errorf("present: clear: %w", err)
	}
	if err := p.renderer.Copy(p.texture, nil, nil); err != nil {
		return fmt.Errorf("present: copy: %w", err)
	}
	p.renderer.Present()
	return nil
}

// PollInput drains the SDL event queue. Window close and Escape request quit.
func (p *Presenter) PollInput() ports.InputAction {
	action := ports.InputContinue
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if quitRequested(event) {
			action = ports.InputQuit
		}
	}
	return action
}

func quitRequested(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return true
	case *sdl.KeyboardEvent:
		return e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE
	default:
		return false
	}
}

// Close destroys the texture, renderer and window, then shuts SDL down.
// It is safe to call more than once.
func (p *Presenter) Close() error {
	if p.texture != nil {
		p.texture.Destroy()
		p.texture = nil
	}
	if p.renderer != nil {
		p.renderer.Destroy()
		p.renderer = nil
	}
	if p.window != nil {
		p.window.Destroy()
		p.window = nil
	}
	if p.initialized {
		sdl.Quit()
		p.initialized = false
	}
	return nil
}

var _ ports.Presenter = (*Presenter)(nil)
