// Package summarizer provides summary generation for playback runs.
package summarizer

import (
	"time"

	"github.com/user/vidplay/pkg/playback"
)

// Summary contains all data collected during a playback run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Source file
	Source SourceInfo

	// Played stream
	Stream StreamInfo

	// Backends in use
	Pipeline PipelineInfo

	// Outcome and counters
	Playback PlaybackInfo
}

// SourceInfo describes the input file.
type SourceInfo struct {
	Path     string
	FileSize int64
}

// StreamInfo describes the selected video stream.
type StreamInfo struct {
	Index  int
	Codec  string
	Width  int
	Height int
	FPS    float64
}

// PipelineInfo names the backend of each stage.
type PipelineInfo struct {
	Demuxer   string
	Decoder   string
	Converter string
	Presenter string
	Pacing    string
}

// PlaybackInfo contains the outcome of the run.
type PlaybackInfo struct {
	Reason    string
	ReadError string

	PacketsRead     int
	VideoPackets    int
	PacketsRejected int
	FramesDecoded   int
	FramesPresented int
	ClockRebases    int

	MaxLatenessMs int
	ElapsedMs     int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets the input file.
func (b *Builder) WithSource(path string, size int64) *Builder {
	b.summary.Source = SourceInfo{
		Path:     path,
		FileSize: size,
	}
	return b
}

// WithPipeline sets the backend names.
func (b *Builder) WithPipeline(pipeline PipelineInfo) *Builder {
	b.summary.Pipeline = pipeline
	return b
}

// WithResult copies the stream and counters of a finished run.
func (b *Builder) WithResult(result playback.Result) *Builder {
	b.summary.Stream = StreamInfo{
		Index:  result.Stream.Index,
		Codec:  result.Stream.Codec,
		Width:  result.Stream.Width,
		Height: result.Stream.Height,
		FPS:    result.Stream.FPS,
	}

	stats := result.Stats
	b.summary.Playback = PlaybackInfo{
		Reason:          result.Reason.String(),
		PacketsRead:     stats.PacketsRead,
		VideoPackets:    stats.VideoPackets,
		PacketsRejected: stats.PacketsRejected,
		FramesDecoded:   stats.FramesDecoded,
		FramesPresented: stats.FramesPresented,
		ClockRebases:    stats.ClockRebases,
		MaxLatenessMs:   int(stats.MaxLateness.Milliseconds()),
		ElapsedMs:       int(stats.Elapsed.Milliseconds()),
	}
	if result.ReadErr != nil {
		b.summary.Playback.ReadError = result.ReadErr.Error()
	}
	return b
}

// WithError records a fatal error in place of a reason.
func (b *Builder) WithError(err error) *Builder {
	if err != nil {
		b.summary.Playback.Reason = "error: " + err.Error()
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
