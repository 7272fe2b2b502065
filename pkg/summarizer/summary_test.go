package summarizer

import (
	"errors"
	"testing"
	"time"

	"github.com/user/vidplay/pkg/playback"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithSource(t *testing.T) {
	summary := NewBuilder().
		WithSource("movie.mp4", 2048).
		Build()

	if summary.Source.Path != "movie.mp4" || summary.Source.FileSize != 2048 {
		t.Errorf("unexpected source: %+v", summary.Source)
	}
}

func TestBuilder_WithResult(t *testing.T) {
	result := playback.Result{
		Reason:  playback.ReasonReadError,
		ReadErr: errors.New("connection reset"),
		Stream:  playback.StreamInfo{Index: 1, Codec: "h264", Width: 640, Height: 360, FPS: 25},
		Stats: playback.Stats{
			PacketsRead:     10,
			VideoPackets:    8,
			PacketsRejected: 1,
			FramesDecoded:   7,
			FramesPresented: 7,
			ClockRebases:    2,
			MaxLateness:     12 * time.Millisecond,
			Elapsed:         1500 * time.Millisecond,
		},
	}

	summary := NewBuilder().WithResult(result).Build()

	if summary.Stream.Index != 1 || summary.Stream.Codec != "h264" || summary.Stream.FPS != 25 {
		t.Errorf("unexpected stream: %+v", summary.Stream)
	}
	p := summary.Playback
	if p.Reason != "read error" || p.ReadError != "connection reset" {
		t.Errorf("unexpected outcome: %q %q", p.Reason, p.ReadError)
	}
	if p.PacketsRead != 10 || p.VideoPackets != 8 || p.PacketsRejected != 1 || p.FramesPresented != 7 || p.ClockRebases != 2 {
		t.Errorf("unexpected counters: %+v", p)
	}
	if p.MaxLatenessMs != 12 || p.ElapsedMs != 1500 {
		t.Errorf("unexpected timings: %+v", p)
	}
}

func TestBuilder_WithError(t *testing.T) {
	summary := NewBuilder().
		WithResult(playback.Result{}).
		WithError(errors.New("decode fault")).
		Build()

	if summary.Playback.Reason != "error: decode fault" {
		t.Errorf("unexpected reason: %q", summary.Playback.Reason)
	}

	summary = NewBuilder().WithResult(playback.Result{}).WithError(nil).Build()
	if summary.Playback.Reason != "end of stream" {
		t.Errorf("nil error must keep the reason, got %q", summary.Playback.Reason)
	}
}

func TestBuilder_Chaining(t *testing.T) {
	pipeline := PipelineInfo{Demuxer: "libav", Decoder: "libav", Converter: "libav", Presenter: "sdl", Pacing: "clock"}

	summary := NewBuilder().
		WithSource("a.mkv", 1).
		WithPipeline(pipeline).
		Build()

	if summary.Pipeline != pipeline {
		t.Errorf("unexpected pipeline: %+v", summary.Pipeline)
	}
	if summary.Source.Path != "a.mkv" {
		t.Errorf("unexpected source: %+v", summary.Source)
	}
}
