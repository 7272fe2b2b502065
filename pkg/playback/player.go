// Package playback runs the demux, decode, convert and present loop.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/user/vidplay/pkg/ports"
)

// Options configures a Player.
type Options struct {
	// FallbackFPS is used when the stream has no frame rate.
	FallbackFPS float64
	// Pacing selects the pacing strategy.
	Pacing Pacing
	// MaxWait is the largest wait the clock pacer accepts before re-basing.
	MaxWait time.Duration
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		FallbackFPS: 25,
		Pacing:      PacingClock,
		MaxWait:     time.Second,
	}
}

// Player plays the first decodable video stream of a container.
// A Player runs once.
type Player struct {
	demuxer   ports.Demuxer
	decoder   ports.VideoDecoder
	converter ports.PixelConverter
	presenter ports.Presenter
	observer  ports.PlaybackObserver
	clock     ports.Clock
	report    io.Writer
	logger    ports.Logger
	opts      Options

	state State
}

// New creates a new Player. report receives the operator report lines;
// observer and clock may be nil.
func New(
	demuxer ports.Demuxer,
	decoder ports.VideoDecoder,
	converter ports.PixelConverter,
	presenter ports.Presenter,
	observer ports.PlaybackObserver,
	clock ports.Clock,
	report io.Writer,
	logger ports.Logger,
	opts Options,
) *Player {
	if observer == nil {
		observer = ports.NopObserver{}
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if opts.FallbackFPS <= 0 {
		opts.FallbackFPS = DefaultOptions().FallbackFPS
	}
	return &Player{
		demuxer:   demuxer,
		decoder:   decoder,
		converter: converter,
		presenter: presenter,
		observer:  observer,
		clock:     clock,
		report:    report,
		logger:    logger,
		opts:      opts,
	}
}

// State returns the player's lifecycle state.
func (p *Player) State() State {
	return p.state
}

// Run opens path and plays it until end of stream, a read error, a quit
// request or cancellation of ctx. Those outcomes are reported in the
// Result; every other failure is returned as an error. All acquired
// resources are released in reverse order before Run returns.
func (p *Player) Run(ctx context.Context, path string) (result Result, err error) {
	if p.state != StateIdle {
		return Result{}, errors.New("player already ran")
	}
	p.state = StateRunning

	var res releaser
	defer func() {
		p.state = StateStopping
		if cerr := res.release(); cerr != nil {
			p.logger.Warn("Release failed: %s", cerr)
		}
		p.state = StateStopped
	}()

	// 1. Open the container
	p.logger.Info("Opening %s", path)
	container, err := p.demuxer.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	res.push("container", container.Close)

	streams, err := container.Streams()
	if err != nil {
		if !errors.Is(err, ports.ErrStreamInfo) {
			err = fmt.Errorf("%w: %w", ports.ErrStreamInfo, err)
		}
		return Result{}, err
	}

	// 2. Select the video stream
	sel, err := SelectVideoStream(streams, p.decoder.CanDecode)
	for _, s := range sel.Skipped {
		p.logger.Warn("Unsupported codec %s on stream #%d, skipping", s.Codec, s.Index)
	}
	for _, s := range sel.Videos {
		fmt.Fprintf(p.report, "Video Codec: resolution %d x %d\n", s.Width, s.Height)
	}
	if err != nil {
		return Result{}, err
	}
	stream := sel.Stream

	fps, fellBack := FrameRate(stream, p.opts.FallbackFPS)
	if fellBack {
		p.logger.Warn("Frame rate unknown, falling back to %.3f FPS", fps)
	}
	fmt.Fprintf(p.report, "Frame rate: %.3f FPS\n", fps)
	p.observer.StreamSelected(stream, fps)
	p.logger.Info("Selected stream #%d (%s, %dx%d)", stream.Index, stream.Codec, stream.Width, stream.Height)

	info := StreamInfo{
		Index:  stream.Index,
		Codec:  string(stream.Codec),
		Width:  stream.Width,
		Height: stream.Height,
		FPS:    fps,
	}

	pacer, err := NewPacer(p.opts.Pacing, p.clock, fps, p.opts.MaxWait)
	if err != nil {
		return Result{Stream: info}, err
	}

	// 3. Open the codec session
	session, err := p.decoder.Open(stream)
	if err != nil {
		if !errors.Is(err, ports.ErrDecoderInit) {
			err = fmt.Errorf("%w: %w", ports.ErrDecoderInit, err)
		}
		return Result{Stream: info}, err
	}
	res.push("decoder", session.Close)
	res.push("converter", p.converter.Close)

	// 4. Create the surface
	if err := p.presenter.CreateSurface(stream.Width, stream.Height); err != nil {
		if !errors.Is(err, ports.ErrSurface) {
			err = fmt.Errorf("%w: %w", ports.ErrSurface, err)
		}
		return Result{Stream: info}, err
	}
	res.push("presenter", p.presenter.Close)

	// 5. Play
	start := p.clock.Now()
	loop := &loop{
		player:    p,
		container: container,
		session:   session,
		stream:    stream.Index,
		pacer:     pacer,
	}
	result, err = loop.run(ctx)
	result.Stream = info
	result.Stats.ClockRebases = pacer.Rebases()
	result.Stats.Elapsed = p.clock.Now().Sub(start)

	if err == nil {
		p.logger.Info("Playback finished: %s", result.Reason)
		p.logger.Info("Presented %d frames", result.Stats.FramesPresented)
	}
	return result, err
}

type resource struct {
	name  string
	close func() error
}

// releaser closes resources in reverse acquisition order, once.
type releaser struct {
	stack []resource
}

func (r *releaser) push(name string, close func() error) {
	r.stack = append(r.stack, resource{name: name, close: close})
}

func (r *releaser) release() error {
	var errs []error
	for i := len(r.stack) - 1; i >= 0; i-- {
		if err := r.stack[i].close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", r.stack[i].name, err))
		}
	}
	r.stack = nil
	return errors.Join(errs...)
}
