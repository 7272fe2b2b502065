package main

import (
	"github.com/user/vidplay/pkg/adapters/av1decoder"
	"github.com/user/vidplay/pkg/adapters/ggpresenter"
	"github.com/user/vidplay/pkg/adapters/goconvert"
	"github.com/user/vidplay/pkg/adapters/libav"
	"github.com/user/vidplay/pkg/adapters/mp4demux"
	"github.com/user/vidplay/pkg/adapters/sdlpresenter"
	"github.com/user/vidplay/pkg/adapters/smartdecoder"
	"github.com/user/vidplay/pkg/config"
	"github.com/user/vidplay/pkg/playback"
	"github.com/user/vidplay/pkg/ports"
	"github.com/user/vidplay/pkg/summarizer"
)

// pipeline holds the backends selected by the configuration.
type pipeline struct {
	demuxer   ports.Demuxer
	decoder   *smartdecoder.Decoder
	converter ports.PixelConverter
	presenter ports.Presenter
}

// newPipeline creates the backends named by cfg. fs may be nil when no
// presenter is needed.
func newPipeline(cfg config.Config, fs ports.FileSystem, log ports.Logger) pipeline {
	var p pipeline

	// 1. Demuxer
	switch cfg.Demuxer {
	case config.BackendMP4:
		p.demuxer = mp4demux.New()
	default:
		p.demuxer = libav.NewDemuxer()
	}

	// 2. Decoder
	// libaom hands out raw planes, which only the Go converter reads.
	goConvert := cfg.Converter == config.BackendGo || cfg.AV1Decoder == config.BackendAOM
	libavDecoder := libav.NewDecoder(libav.DecoderOptions{ExportPlanes: goConvert}, log.WithComponent("libav"))
	var aomDecoder ports.VideoDecoder
	if cfg.AV1Decoder == config.BackendAOM {
		aomDecoder = av1decoder.New(log.WithComponent("libaom"))
	}
	p.decoder = smartdecoder.New(libavDecoder, aomDecoder, smartdecoder.Options{
		PreferLibaom: aomDecoder != nil,
	}, log.WithComponent("decoder"))

	// 3. Converter
	if goConvert {
		p.converter = goconvert.New(cfg.Align, log.WithComponent("convert"))
	} else {
		p.converter = libav.NewScaler(cfg.Align, log.WithComponent("swscale"))
	}

	// 4. Presenter
	switch cfg.Presenter {
	case config.BackendPNG:
		if fs != nil {
			p.presenter = ggpresenter.New(fs, cfg.ToPNGOptions(), log.WithComponent("png"))
		}
	default:
		p.presenter = sdlpresenter.New(cfg.Title, log.WithComponent("sdl"))
	}

	return p
}

// pipelineInfo names the backends used for the played stream.
func (p pipeline) pipelineInfo(cfg config.Config, result playback.Result) summarizer.PipelineInfo {
	stream := ports.StreamDescriptor{
		Type:  ports.MediaVideo,
		Codec: ports.CodecID(result.Stream.Codec),
	}

	converter := config.BackendLibav
	if _, ok := p.converter.(*goconvert.Converter); ok {
		converter = config.BackendGo
	}

	return summarizer.PipelineInfo{
		Demuxer:   cfg.Demuxer,
		Decoder:   string(p.decoder.Info(stream).Backend),
		Converter: converter,
		Presenter: cfg.Presenter,
		Pacing:    cfg.Pacing,
	}
}
