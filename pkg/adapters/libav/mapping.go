// Package libav implements the demuxer, decoder and pixel converter ports on
// top of FFmpeg's libavformat, libavcodec and libswscale.
package libav

import (
	"github.com/asticode/go-astiav"
	"github.com/user/vidplay/pkg/ports"
)

func mediaType(t astiav.MediaType) ports.MediaType {
	switch t {
	case astiav.MediaTypeVideo:
		return ports.MediaVideo
	case astiav.MediaTypeAudio:
		return ports.MediaAudio
	case astiav.MediaTypeSubtitle:
		return ports.MediaSubtitle
	case astiav.MediaTypeData:
		return ports.MediaData
	default:
		return ports.MediaOther
	}
}

func codecID(id astiav.CodecID) ports.CodecID {
	name := id.Name()
	if name == "" || name == "none" {
		return ports.CodecUnknown
	}
	return ports.CodecID(name)
}

// nativeCodecID maps a codec to its libavcodec ID. FindDecoderByName("av1")
// returns the hwaccel-only decoder, so known codecs are looked up by ID.
func nativeCodecID(c ports.CodecID) (astiav.CodecID, bool) {
	switch c {
	case ports.CodecH264:
		return astiav.CodecIDH264, true
	case ports.CodecHEVC:
		return astiav.CodecIDHevc, true
	case ports.CodecAV1:
		return astiav.CodecIDAv1, true
	case ports.CodecVP9:
		return astiav.CodecIDVp9, true
	case ports.CodecAAC:
		return astiav.CodecIDAac, true
	case ports.CodecOpus:
		return astiav.CodecIDOpus, true
	default:
		return astiav.CodecIDNone, false
	}
}

func pixelFormat(f astiav.PixelFormat) ports.PixelFormat {
	if f == astiav.PixelFormatNone {
		return ports.PixelFormatUnknown
	}
	return ports.PixelFormat(f.Name())
}

func rational(r astiav.Rational) ports.Rational {
	return ports.Rational{Num: r.Num(), Den: r.Den()}
}

// planeLayout returns the byte size and row stride of each plane of a
// tightly packed picture, as written by ImageCopyToBuffer with align 1.
// ok is false for formats the plane export does not know.
func planeLayout(format ports.PixelFormat, width, height int) (sizes, strides []int, ok bool) {
	half := func(v int) int { return (v + 1) / 2 }

	switch format {
	case ports.PixelFormatYUV420P, ports.PixelFormatYUVJ420P:
		cw, ch := half(width), half(height)
		return []int{width * height, cw * ch, cw * ch}, []int{width, cw, cw}, true
	case ports.PixelFormatYUV422P:
		cw := half(width)
		return []int{width * height, cw * height, cw * height}, []int{width, cw, cw}, true
	case ports.PixelFormatYUV444P:
		return []int{width * height, width * height, width * height}, []int{width, width, width}, true
	case ports.PixelFormatGray:
		return []int{width * height}, []int{width}, true
	case ports.PixelFormatRGB24:
		return []int{width * 3 * height}, []int{width * 3}, true
	case ports.PixelFormatRGBA:
		return []int{width * 4 * height}, []int{width * 4}, true
	default:
		return nil, nil, false
	}
}
