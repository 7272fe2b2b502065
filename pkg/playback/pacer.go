package playback

import (
	"fmt"
	"time"

	"github.com/user/vidplay/pkg/ports"
)

// Pacing selects the pacing strategy.
type Pacing string

const (
	// PacingClock presents each frame when its timestamp is due.
	PacingClock Pacing = "clock"
	// PacingFixed sleeps 1000/fps ms after every video packet.
	PacingFixed Pacing = "fixed"
)

// Pacer keeps presentation in step with the stream's frame rate.
type Pacer interface {
	// BeforePresent blocks until the frame is due and returns how late it is.
	BeforePresent(frame *ports.ConvertedFrame) time.Duration
	// AfterPacket runs once per video packet after its frames were presented.
	AfterPacket()
	// Rebases returns how many times the playback clock was reset.
	Rebases() int
}

// NewPacer creates the pacer for the given strategy.
func NewPacer(pacing Pacing, clock ports.Clock, fps float64, maxWait time.Duration) (Pacer, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %f", fps)
	}
	switch pacing {
	case PacingClock, "":
		return NewClockPacer(clock, fps, maxWait), nil
	case PacingFixed:
		return NewFixedPacer(clock, fps), nil
	default:
		return nil, fmt.Errorf("unknown pacing %q", pacing)
	}
}

// ClockPacer compares frame timestamps against a monotonic playback clock
// started at the first presented frame.
//
// Frames without a timestamp are due one frame interval after the previous
// frame. A frame due more than maxWait away, early or late, re-bases the
// clock on itself.
type ClockPacer struct {
	clock    ports.Clock
	interval time.Duration
	maxWait  time.Duration

	started bool
	origin  time.Time
	base    time.Duration
	last    time.Duration
	rebases int
}

// NewClockPacer creates a clock pacer.
func NewClockPacer(clock ports.Clock, fps float64, maxWait time.Duration) *ClockPacer {
	if maxWait <= 0 {
		maxWait = time.Second
	}
	return &ClockPacer{
		clock:    clock,
		interval: time.Duration(float64(time.Second) / fps),
		maxWait:  maxWait,
	}
}

func (p *ClockPacer) BeforePresent(frame *ports.ConvertedFrame) time.Duration {
	pts := p.last + p.interval
	if frame.HasPTS {
		pts = frame.PTS
	}

	now := p.clock.Now()
	if !p.started {
		p.started = true
		p.rebase(now, pts)
		return 0
	}
	p.last = pts

	wait := p.origin.Add(pts - p.base).Sub(now)
	if wait > p.maxWait || wait < -p.maxWait {
		p.rebases++
		p.rebase(now, pts)
		return 0
	}
	if wait > 0 {
		p.clock.Sleep(wait)
		return 0
	}
	return -wait
}

func (p *ClockPacer) rebase(now time.Time, pts time.Duration) {
	p.origin = now
	p.base = pts
	p.last = pts
}

func (p *ClockPacer) AfterPacket() {}

func (p *ClockPacer) Rebases() int {
	return p.rebases
}

// FixedPacer sleeps a fixed 1000/fps milliseconds once per video packet,
// regardless of how many frames the packet produced.
type FixedPacer struct {
	clock ports.Clock
	delay time.Duration
}

// NewFixedPacer creates a fixed pacer. The delay is truncated to whole
// milliseconds.
func NewFixedPacer(clock ports.Clock, fps float64) *FixedPacer {
	return &FixedPacer{
		clock: clock,
		delay: time.Duration(int(1000/fps)) * time.Millisecond,
	}
}

// Delay returns the per-packet sleep.
func (p *FixedPacer) Delay() time.Duration {
	return p.delay
}

func (p *FixedPacer) BeforePresent(*ports.ConvertedFrame) time.Duration {
	return 0
}

func (p *FixedPacer) AfterPacket() {
	p.clock.Sleep(p.delay)
}

func (p *FixedPacer) Rebases() int {
	return 0
}

var (
	_ Pacer = (*ClockPacer)(nil)
	_ Pacer = (*FixedPacer)(nil)
)
