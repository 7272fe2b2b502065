package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/vidplay/pkg/ports"
)

// loop is the state of one playback run.
type loop struct {
	player    *Player
	container ports.Container
	session   ports.CodecSession
	stream    int
	pacer     Pacer
	stats     Stats
}

// run executes cycles until a stop condition. Quit and cancellation are
// only sampled at the start of a cycle, never while a packet is drained.
func (l *loop) run(ctx context.Context) (Result, error) {
	p := l.player

	for {
		// 1. Sample quit
		if ctx.Err() != nil {
			return l.result(ReasonCancelled), nil
		}
		if p.presenter.PollInput() == ports.InputQuit {
			return l.result(ReasonQuitRequested), nil
		}

		// 2. Read the next packet
		pkt, err := l.container.NextPacket()
		if errors.Is(err, ports.ErrEndOfStream) {
			if err := l.flush(); err != nil {
				return l.result(ReasonEndOfStream), err
			}
			return l.result(ReasonEndOfStream), nil
		}
		if err != nil {
			p.logger.Warn("Error while reading a packet: %s", err)
			r := l.result(ReasonReadError)
			r.ReadErr = err
			return r, nil
		}

		l.stats.PacketsRead++
		selected := pkt.StreamIndex == l.stream
		p.observer.PacketRead(pkt.StreamIndex, selected)
		if !selected {
			continue
		}
		l.stats.VideoPackets++

		// 3. Decode and present
		p.logger.Debug("Feeding packet: stream %d, %d bytes", pkt.StreamIndex, pkt.Size)
		if err := l.session.Feed(pkt); err != nil {
			if !errors.Is(err, ports.ErrPacketRejected) {
				return l.result(ReasonEndOfStream), fmt.Errorf("feed packet: %w", err)
			}
			p.logger.Warn("Error while sending a packet to the decoder: %s", err)
			l.stats.PacketsRejected++
			p.observer.PacketRejected()
			continue
		}
		if err := l.drain(); err != nil {
			return l.result(ReasonEndOfStream), err
		}

		// 4. Pace
		l.pacer.AfterPacket()
	}
}

// drain presents every frame the session has ready.
func (l *loop) drain() error {
	p := l.player

	for {
		frame, err := l.session.PollFrame()
		if errors.Is(err, ports.ErrNeedMoreInput) || errors.Is(err, ports.ErrEndOfStream) {
			return nil
		}
		if err != nil {
			p.logger.Error("Error while receiving a frame from the decoder: %s", err)
			if !errors.Is(err, ports.ErrDecodeFault) {
				err = fmt.Errorf("%w: %w", ports.ErrDecodeFault, err)
			}
			return err
		}

		l.stats.FramesDecoded++
		p.observer.FrameDecoded()

		if err := l.present(frame); err != nil {
			return err
		}
	}
}

func (l *loop) present(frame *ports.DecodedFrame) error {
	p := l.player

	index := frame.Index
	converted, err := p.converter.Convert(frame)
	if err != nil {
		return fmt.Errorf("convert frame %d: %w", index, err)
	}

	rebases := l.pacer.Rebases()
	late := l.pacer.BeforePresent(converted)
	if l.pacer.Rebases() != rebases {
		p.logger.Debug("Pacing clock re-based at frame %d", index)
	}
	if late > l.stats.MaxLateness {
		l.stats.MaxLateness = late
	}

	start := p.clock.Now()
	if err := p.presenter.Upload(converted); err != nil {
		return fmt.Errorf("upload frame %d: %w", index, err)
	}
	if err := p.presenter.Present(); err != nil {
		return fmt.Errorf("present frame %d: %w", index, err)
	}

	l.stats.FramesPresented++
	p.observer.FramePresented(p.clock.Now().Sub(start), late)
	return nil
}

// flush drains the frames the decoder still buffers at end of stream.
func (l *loop) flush() error {
	l.player.logger.Debug("Flushing decoder")
	if err := l.session.Flush(); err != nil {
		return fmt.Errorf("flush decoder: %w", err)
	}
	return l.drain()
}

func (l *loop) result(reason Reason) Result {
	return Result{Reason: reason, Stats: l.stats}
}
