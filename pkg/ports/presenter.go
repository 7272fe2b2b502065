package ports

// InputAction is the outcome of polling user input.
type InputAction int

const (
	// InputContinue means playback goes on.
	InputContinue InputAction = iota
	// InputQuit means the user closed the window or pressed Escape.
	InputQuit
)

// String returns the string representation of the action.
func (a InputAction) String() string {
	if a == InputQuit {
		return "quit"
	}
	return "continue"
}

// Presenter owns the on-screen surface.
type Presenter interface {
	// CreateSurface creates the surface at the stream's dimensions.
	// It is called once; the surface is never resized.
	// Failures wrap ErrSurface.
	CreateSurface(width, height int) error

	// Upload copies an RGB24 frame into the surface's texture, honouring its stride.
	Upload(frame *ConvertedFrame) error

	// Present draws the full texture to the visible area.
	Present() error

	// PollInput drains pending input events.
	PollInput() InputAction

	// Close destroys the surface.
	Close() error
}
