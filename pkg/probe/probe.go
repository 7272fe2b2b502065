// Package probe lists the streams of media files without decoding them.
package probe

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/user/vidplay/pkg/playback"
	"github.com/user/vidplay/pkg/ports"
)

// DefaultConcurrency is the number of files opened at once.
const DefaultConcurrency = 4

// Stream describes one stream of a probed file.
type Stream struct {
	Index       int     `yaml:"index"`
	Type        string  `yaml:"type"`
	Codec       string  `yaml:"codec"`
	Width       int     `yaml:"width,omitempty"`
	Height      int     `yaml:"height,omitempty"`
	FPS         float64 `yaml:"fps,omitempty"`
	TimeBase    string  `yaml:"time_base,omitempty"`
	PixelFormat string  `yaml:"pixel_format,omitempty"`
	Decodable   bool    `yaml:"decodable"`
}

// Report is the probe result of one file. Err is set when the file could
// not be opened or read.
type Report struct {
	Path     string   `yaml:"path"`
	Streams  []Stream `yaml:"streams,omitempty"`
	Selected *int     `yaml:"selected,omitempty"`
	Err      string   `yaml:"error,omitempty"`
}

// Prober opens files through a demuxer and checks them against a decoder.
type Prober struct {
	demuxer     ports.Demuxer
	decoder     ports.VideoDecoder
	concurrency int
}

// New creates a Prober. concurrency values below 1 mean DefaultConcurrency.
func New(demuxer ports.Demuxer, decoder ports.VideoDecoder, concurrency int) *Prober {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Prober{demuxer: demuxer, decoder: decoder, concurrency: concurrency}
}

// Probe inspects every path concurrently. Reports keep the order of paths.
// Per-file failures are recorded in the report; only cancellation of ctx
// fails the whole call.
func (p *Prober) Probe(ctx context.Context, paths []string) ([]Report, error) {
	reports := make([]Report, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = p.probeFile(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}

func (p *Prober) probeFile(path string) Report {
	report := Report{Path: path}

	container, err := p.demuxer.Open(path)
	if err != nil {
		report.Err = err.Error()
		return report
	}
	defer container.Close()

	streams, err := container.Streams()
	if err != nil {
		report.Err = err.Error()
		return report
	}

	for _, s := range streams {
		entry := Stream{
			Index:       s.Index,
			Type:        s.Type.String(),
			Codec:       string(s.Codec),
			PixelFormat: string(s.PixelFormat),
		}
		if s.IsVideo() {
			entry.Width = s.Width
			entry.Height = s.Height
			entry.FPS = s.FrameRate.Float64()
			entry.Decodable = p.decoder.CanDecode(s)
		}
		if !s.TimeBase.IsZero() {
			entry.TimeBase = s.TimeBase.String()
		}
		report.Streams = append(report.Streams, entry)
	}

	if sel, err := playback.SelectVideoStream(streams, p.decoder.CanDecode); err == nil {
		index := sel.Stream.Index
		report.Selected = &index
	}
	return report
}

// WriteText writes reports in a human-readable layout.
func WriteText(w io.Writer, reports []Report) error {
	for i, r := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s\n", r.Path); err != nil {
			return err
		}
		if r.Err != "" {
			if _, err := fmt.Fprintf(w, "  error: %s\n", r.Err); err != nil {
				return err
			}
			continue
		}
		for _, s := range r.Streams {
			line := fmt.Sprintf("  #%d %s %s", s.Index, s.Type, s.Codec)
			if s.Type == ports.MediaVideo.String() {
				line += fmt.Sprintf(" %dx%d", s.Width, s.Height)
				if s.FPS > 0 {
					line += fmt.Sprintf(" %.3f fps", s.FPS)
				}
				if !s.Decodable {
					line += " (no decoder)"
				}
			}
			if r.Selected != nil && *r.Selected == s.Index {
				line += " [selected]"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteYAML writes reports as a YAML document.
func WriteYAML(w io.Writer, reports []Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	return enc.Close()
}
