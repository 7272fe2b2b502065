// Package metrics exposes playback counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/vidplay/pkg/ports"
)

// Metrics holds Prometheus collectors for one player. It implements
// ports.PlaybackObserver.
type Metrics struct {
	registry        *prometheus.Registry
	packetsRead     *prometheus.CounterVec
	packetsRejected prometheus.Counter
	framesDecoded   prometheus.Counter
	framesPresented prometheus.Counter
	presentSeconds  prometheus.Histogram
	latenessSeconds prometheus.Histogram
	streamInfo      *prometheus.GaugeVec
}

// New creates and registers the playback collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	packetsRead := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vidplay_packets_read_total",
		Help: "Total number of packets read from the container",
	}, []string{"selected"})
	packetsRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vidplay_packets_rejected_total",
		Help: "Total number of packets the decoder refused",
	})
	framesDecoded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vidplay_frames_decoded_total",
		Help: "Total number of frames produced by the decoder",
	})
	framesPresented := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vidplay_frames_presented_total",
		Help: "Total number of frames uploaded and presented",
	})
	presentSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vidplay_present_duration_seconds",
		Help:    "Time spent uploading and presenting a frame",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
	})
	latenessSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vidplay_frame_lateness_seconds",
		Help:    "How late frames were presented relative to their timestamp",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
	})
	streamInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vidplay_stream_fps",
		Help: "Frame rate of the stream being played",
	}, []string{"index", "codec", "resolution"})

	registry.MustRegister(
		packetsRead,
		packetsRejected,
		framesDecoded,
		framesPresented,
		presentSeconds,
		latenessSeconds,
		streamInfo,
	)

	return &Metrics{
		registry:        registry,
		packetsRead:     packetsRead,
		packetsRejected: packetsRejected,
		framesDecoded:   framesDecoded,
		framesPresented: framesPresented,
		presentSeconds:  presentSeconds,
		latenessSeconds: latenessSeconds,
		streamInfo:      streamInfo,
	}
}

// StreamSelected records the stream being played.
func (m *Metrics) StreamSelected(stream ports.StreamDescriptor, fps float64) {
	m.streamInfo.Reset()
	m.streamInfo.WithLabelValues(
		strconv.Itoa(stream.Index),
		string(stream.Codec),
		strconv.Itoa(stream.Width)+"x"+strconv.Itoa(stream.Height),
	).Set(fps)
}

func (m *Metrics) PacketRead(_ int, selected bool) {
	m.packetsRead.WithLabelValues(strconv.FormatBool(selected)).Inc()
}

func (m *Metrics) PacketRejected() {
	m.packetsRejected.Inc()
}

func (m *Metrics) FrameDecoded() {
	m.framesDecoded.Inc()
}

func (m *Metrics) FramePresented(presentDuration, lateBy time.Duration) {
	m.framesPresented.Inc()
	m.presentSeconds.Observe(presentDuration.Seconds())
	m.latenessSeconds.Observe(lateBy.Seconds())
}

// Handler returns an http.Handler that serves the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var _ ports.PlaybackObserver = (*Metrics)(nil)
