package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.t = t
	}
}

// WithVersion sets the version shown in the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// MarkdownFormatter renders a Summary as Markdown tables.
type MarkdownFormatter struct {
	t       func(string) string
	version string
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		t: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", f.t("Playback Summary"))

	// Source
	fmt.Fprintf(&b, "## %s\n\n", f.t("Source"))
	f.header(&b)
	f.row(&b, "File", s.Source.Path)
	if s.Source.FileSize > 0 {
		f.row(&b, "File Size", formatBytes(s.Source.FileSize))
	}
	b.WriteString("\n")

	// Stream
	fmt.Fprintf(&b, "## %s\n\n", f.t("Stream"))
	f.header(&b)
	f.row(&b, "Stream", fmt.Sprintf("#%d", s.Stream.Index))
	f.row(&b, "Codec", s.Stream.Codec)
	f.row(&b, "Resolution", fmt.Sprintf("%dx%d", s.Stream.Width, s.Stream.Height))
	f.row(&b, "Frame Rate", fmt.Sprintf("%.3f FPS", s.Stream.FPS))
	b.WriteString("\n")

	// Pipeline
	if s.Pipeline != (PipelineInfo{}) {
		fmt.Fprintf(&b, "## %s\n\n", f.t("Pipeline"))
		f.header(&b)
		f.row(&b, "Demuxer", s.Pipeline.Demuxer)
		f.row(&b, "Decoder", s.Pipeline.Decoder)
		f.row(&b, "Converter", s.Pipeline.Converter)
		f.row(&b, "Presenter", s.Pipeline.Presenter)
		f.row(&b, "Pacing", s.Pipeline.Pacing)
		b.WriteString("\n")
	}

	// Playback
	p := s.Playback
	fmt.Fprintf(&b, "## %s\n\n", f.t("Playback"))
	f.header(&b)
	f.row(&b, "Stopped By", f.t(p.Reason))
	if p.ReadError != "" {
		f.row(&b, "Read Error", p.ReadError)
	}
	f.row(&b, "Packets Read", fmt.Sprintf("%d", p.PacketsRead))
	f.row(&b, "Video Packets", fmt.Sprintf("%d", p.VideoPackets))
	f.row(&b, "Packets Rejected", fmt.Sprintf("%d", p.PacketsRejected))
	f.row(&b, "Frames Decoded", fmt.Sprintf("%d", p.FramesDecoded))
	f.row(&b, "Frames Presented", fmt.Sprintf("%d", p.FramesPresented))
	if p.ClockRebases > 0 {
		f.row(&b, "Clock Rebases", fmt.Sprintf("%d", p.ClockRebases))
	}
	f.row(&b, "Max Lateness", fmt.Sprintf("%d ms", p.MaxLatenessMs))
	f.row(&b, "Elapsed", fmt.Sprintf("%d ms", p.ElapsedMs))
	b.WriteString("\n")

	fmt.Fprintf(&b, "---\n\n%s %s", f.t("Generated at"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if f.version != "" {
		fmt.Fprintf(&b, " (vidplay %s)", f.version)
	}
	b.WriteString("\n")

	return b.String()
}

func (f *MarkdownFormatter) header(b *strings.Builder) {
	fmt.Fprintf(b, "| %s | %s |\n|---|---|\n", f.t("Item"), f.t("Value"))
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", f.t(label), value)
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)
