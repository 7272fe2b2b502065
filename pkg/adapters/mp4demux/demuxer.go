// Package mp4demux implements a pure-Go demuxer for progressive and
// fragmented MP4 files.
//
// H.264 and HEVC samples are converted from length-prefixed NAL units to
// Annex B, with the track's parameter sets prepended on keyframes, so that
// decoders can consume them without extradata.
package mp4demux

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/vidplay/pkg/ports"
)

// Demuxer opens MP4 files.
type Demuxer struct{}

// New creates an MP4 demuxer.
func New() *Demuxer {
	return &Demuxer{}
}

// Open opens the MP4 file at path.
func (d *Demuxer) Open(path string) (ports.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrOpen, err)
	}

	c, err := OpenReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	c.closer = f
	return c, nil
}

// OpenReader reads the box structure from r and indexes every sample.
func OpenReader(r io.ReadSeeker) (*Container, error) {
	file, err := mp4.DecodeFile(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode mp4: %w", ports.ErrOpen, err)
	}

	c := &Container{reader: r}
	if file.IsFragmented() {
		err = c.indexFragmented(file)
	} else {
		err = c.indexProgressive(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrStreamInfo, err)
	}

	return c, nil
}

type track struct {
	desc      ports.StreamDescriptor
	trackID   uint32
	annexB    bool
	paramSets []byte
	started   bool
}

type sample struct {
	track    int
	offset   int64
	size     uint32
	data     []byte
	dts      int64
	pts      int64
	keyframe bool
}

// Container is an opened MP4 file with its sample index.
type Container struct {
	reader io.ReadSeeker
	closer io.Closer

	tracks  []*track
	samples []sample
	next    int

	raw    []byte
	buf    []byte
	pkt    ports.EncodedPacket
	closed bool
}

// Streams returns one descriptor per track, in moov order.
func (c *Container) Streams() ([]ports.StreamDescriptor, error) {
	if c.closed {
		return nil, ports.ErrClosed
	}
	streams := make([]ports.StreamDescriptor, len(c.tracks))
	for i, tr := range c.tracks {
		streams[i] = tr.desc
	}
	return streams, nil
}

// NextPacket returns the next sample in file order.
func (c *Container) NextPacket() (*ports.EncodedPacket, error) {
	if c.closed {
		return nil, ports.ErrClosed
	}
	if c.next >= len(c.samples) {
		return nil, ports.ErrEndOfStream
	}

	s := c.samples[c.next]
	c.next++

	data := s.data
	if data == nil {
		if err := c.readSample(s); err != nil {
			return nil, err
		}
		data = c.raw
	}

	tr := c.tracks[s.track]
	c.buf = c.buf[:0]
	if tr.annexB {
		if s.keyframe || !tr.started {
			c.buf = append(c.buf, tr.paramSets...)
		}
		c.buf = avccToAnnexB(c.buf, data)
	} else {
		c.buf = append(c.buf, data...)
	}
	tr.started = true

	c.pkt = ports.EncodedPacket{
		StreamIndex: s.track,
		PTS:         s.pts,
		DTS:         s.dts,
		TimeBase:    tr.desc.TimeBase,
		Keyframe:    s.keyframe,
		Data:        c.buf,
		Size:        len(c.buf),
	}
	return &c.pkt, nil
}

func (c *Container) readSample(s sample) error {
	if _, err := c.reader.Seek(s.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek to sample: %w", err)
	}
	if cap(c.raw) < int(s.size) {
		c.raw = make([]byte, s.size)
	}
	c.raw = c.raw[:s.size]
	if _, err := io.ReadFull(c.reader, c.raw); err != nil {
		return fmt.Errorf("read sample: %w", err)
	}
	return nil
}

// Close releases the underlying file, if the container opened it.
func (c *Container) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.samples = nil
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

func (c *Container) addTracks(moov *mp4.MoovBox) error {
	if moov == nil {
		return fmt.Errorf("no moov box found")
	}
	for i, trak := range moov.Traks {
		c.tracks = append(c.tracks, newTrack(i, trak))
	}
	return nil
}

func (c *Container) indexProgressive(file *mp4.File) error {
	if err := c.addTracks(file.Moov); err != nil {
		return err
	}

	for i, trak := range file.Moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			continue
		}
		samples, err := progressiveSamples(i, trak.Mdia.Minf.Stbl)
		if err != nil {
			return fmt.Errorf("track %d: %w", trak.Tkhd.TrackID, err)
		}
		c.samples = append(c.samples, samples...)

		if c.tracks[i].desc.FrameRate.IsZero() && trak.Mdia.Minf.Stbl.Stts != nil {
			if deltas := trak.Mdia.Minf.Stbl.Stts.SampleTimeDelta; len(deltas) > 0 {
				c.tracks[i].setFrameDuration(deltas[0])
			}
		}
	}

	sort.SliceStable(c.samples, func(a, b int) bool {
		return c.samples[a].offset < c.samples[b].offset
	})
	return nil
}

func progressiveSamples(trackIdx int, stbl *mp4.StblBox) ([]sample, error) {
	if stbl.Stsz == nil || stbl.Stsc == nil {
		return nil, fmt.Errorf("missing stsz or stsc box")
	}
	if stbl.Stco == nil && stbl.Co64 == nil {
		return nil, fmt.Errorf("no stco or co64 box")
	}

	syncSamples := make(map[uint32]bool)
	if stbl.Stss != nil {
		for _, nr := range stbl.Stss.SampleNumber {
			syncSamples[nr] = true
		}
	}

	count := stbl.Stsz.SampleNumber
	samples := make([]sample, 0, count)

	prevChunk := -1
	var offset uint64
	var prevSize uint32
	for nr := uint32(1); nr <= count; nr++ {
		chunkNr, _, err := stbl.Stsc.ChunkNrFromSampleNr(int(nr))
		if err != nil {
			return nil, fmt.Errorf("get chunk nr: %w", err)
		}

		if chunkNr != prevChunk {
			offset, err = chunkOffset(stbl, chunkNr)
			if err != nil {
				return nil, err
			}
			prevChunk = chunkNr
		} else {
			offset += uint64(prevSize)
		}
		size := stbl.Stsz.GetSampleSize(int(nr))
		prevSize = size

		var dts uint64
		if stbl.Stts != nil {
			dts, _ = stbl.Stts.GetDecodeTime(nr)
		}
		pts := int64(dts)
		if stbl.Ctts != nil {
			pts += int64(stbl.Ctts.GetCompositionTimeOffset(nr))
		}

		samples = append(samples, sample{
			track:    trackIdx,
			offset:   int64(offset),
			size:     size,
			dts:      int64(dts),
			pts:      pts,
			keyframe: syncSamples[nr] || len(syncSamples) == 0,
		})
	}

	return samples, nil
}

func chunkOffset(stbl *mp4.StblBox, chunkNr int) (uint64, error) {
	if stbl.Stco != nil {
		off, err := stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return 0, fmt.Errorf("get chunk offset: %w", err)
		}
		return off, nil
	}
	if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
		return 0, fmt.Errorf("chunk nr %d out of range", chunkNr)
	}
	return stbl.Co64.ChunkOffset[chunkNr-1], nil
}

func (c *Container) indexFragmented(file *mp4.File) error {
	if file.Init == nil {
		return fmt.Errorf("no init segment found")
	}
	moov := file.Init.Moov
	if err := c.addTracks(moov); err != nil {
		return err
	}

	trexs := make([]*mp4.TrexBox, len(c.tracks))
	if moov.Mvex != nil {
		for i, tr := range c.tracks {
			for _, trex := range moov.Mvex.Trexs {
				if trex.TrackID == tr.trackID {
					trexs[i] = trex
					break
				}
			}
		}
	}

	for _, seg := range file.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for i, trex := range trexs {
				if trex == nil {
					continue
				}
				full, err := frag.GetFullSamples(trex)
				if err != nil {
					return fmt.Errorf("get samples: %w", err)
				}
				for _, fs := range full {
					c.samples = append(c.samples, sample{
						track:    i,
						size:     fs.Size,
						data:     fs.Data,
						dts:      int64(fs.DecodeTime),
						pts:      int64(fs.DecodeTime) + int64(fs.CompositionTimeOffset),
						keyframe: mp4.IsSyncSampleFlags(fs.Flags),
					})
					if c.tracks[i].desc.FrameRate.IsZero() {
						c.tracks[i].setFrameDuration(fs.Dur)
					}
				}
			}
		}
	}

	for i, trex := range trexs {
		if trex != nil && c.tracks[i].desc.FrameRate.IsZero() {
			c.tracks[i].setFrameDuration(trex.DefaultSampleDuration)
		}
	}

	return nil
}

func newTrack(index int, trak *mp4.TrakBox) *track {
	tr := &track{
		trackID: trak.Tkhd.TrackID,
		desc: ports.StreamDescriptor{
			Index: index,
			Type:  ports.MediaOther,
			Codec: ports.CodecUnknown,
		},
	}
	if trak.Mdia == nil {
		return tr
	}

	if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale > 0 {
		tr.desc.TimeBase = ports.Rational{Num: 1, Den: int(trak.Mdia.Mdhd.Timescale)}
	}
	if trak.Mdia.Hdlr != nil {
		tr.desc.Type = handlerType(trak.Mdia.Hdlr.HandlerType)
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return tr
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		codec := sampleEntryCodec(child.Type())
		if codec == ports.CodecUnknown {
			continue
		}
		tr.desc.Codec = codec

		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
			tr.desc.Width = int(vse.Width)
			tr.desc.Height = int(vse.Height)
			switch {
			case vse.AvcC != nil:
				tr.paramSets = parameterSets(vse.AvcC.SPSnalus, vse.AvcC.PPSnalus)
			case vse.HvcC != nil:
				for _, arr := range vse.HvcC.NaluArrays {
					tr.paramSets = append(tr.paramSets, parameterSets(arr.Nalus)...)
				}
			}
		}
		tr.annexB = codec == ports.CodecH264 || codec == ports.CodecHEVC
		break
	}

	if tr.desc.IsVideo() && tr.desc.Width == 0 {
		tr.desc.Width = int(uint32(trak.Tkhd.Width) >> 16)
		tr.desc.Height = int(uint32(trak.Tkhd.Height) >> 16)
	}
	return tr
}

// setFrameDuration derives the frame rate of a video track from one
// sample duration.
func (tr *track) setFrameDuration(dur uint32) {
	if !tr.desc.IsVideo() || dur == 0 || tr.desc.TimeBase.IsZero() {
		return
	}
	tr.desc.FrameRate = ports.Rational{Num: tr.desc.TimeBase.Den, Den: int(dur)}
}

func handlerType(h string) ports.MediaType {
	switch h {
	case "vide":
		return ports.MediaVideo
	case "soun":
		return ports.MediaAudio
	case "subt", "sbtl", "text", "clcp":
		return ports.MediaSubtitle
	case "meta":
		return ports.MediaData
	default:
		return ports.MediaOther
	}
}

func sampleEntryCodec(boxType string) ports.CodecID {
	switch boxType {
	case "avc1", "avc3":
		return ports.CodecH264
	case "hvc1", "hev1":
		return ports.CodecHEVC
	case "av01":
		return ports.CodecAV1
	case "vp09":
		return ports.CodecVP9
	case "mp4a":
		return ports.CodecAAC
	case "Opus":
		return ports.CodecOpus
	default:
		return ports.CodecUnknown
	}
}

var (
	_ ports.Demuxer   = (*Demuxer)(nil)
	_ ports.Container = (*Container)(nil)
)
