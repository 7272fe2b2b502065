package smartdecoder

import (
	"errors"
	"testing"

	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/mocks"
	"github.com/user/vidplay/pkg/ports"
)

func video(codec ports.CodecID) ports.StreamDescriptor {
	return ports.StreamDescriptor{Type: ports.MediaVideo, Codec: codec, Width: 64, Height: 48}
}

func TestRouteAV1ToLibaom(t *testing.T) {
	libav := mocks.NewVideoDecoder(mocks.NewCodecSession(64, 48))
	libaom := mocks.NewVideoDecoder(mocks.NewCodecSession(64, 48))
	d := New(libav, libaom, Options{PreferLibaom: true}, logger.NewNoop())

	info := d.Info(video(ports.CodecAV1))
	if info.Backend != BackendLibaom {
		t.Errorf("expected backend libaom, got %s", info.Backend)
	}

	if _, err := d.Open(video(ports.CodecAV1)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(libaom.OpenCalls) != 1 || len(libav.OpenCalls) != 0 {
		t.Errorf("expected libaom to open the session, got libaom=%d libav=%d",
			len(libaom.OpenCalls), len(libav.OpenCalls))
	}
}

func TestRouteAV1ToLibavByDefault(t *testing.T) {
	libav := mocks.NewVideoDecoder(mocks.NewCodecSession(64, 48))
	libaom := mocks.NewVideoDecoder(mocks.NewCodecSession(64, 48))
	d := New(libav, libaom, Options{}, logger.NewNoop())

	if info := d.Info(video(ports.CodecAV1)); info.Backend != BackendLibav {
		t.Errorf("expected backend libav, got %s", info.Backend)
	}
}

func TestRouteH264ToLibav(t *testing.T) {
	libav := mocks.NewVideoDecoder(mocks.NewCodecSession(64, 48))
	d := New(libav, nil, Options{PreferLibaom: true}, logger.NewNoop())

	info := d.Info(video(ports.CodecH264))
	if info.Codec != ports.CodecH264 || info.Backend != BackendLibav {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestFallbackWhenLibaomCannotDecode(t *testing.T) {
	libav := mocks.NewVideoDecoder(mocks.NewCodecSession(64, 48))
	libaom := mocks.NewVideoDecoder(nil)
	libaom.CanDecodeFunc = func(ports.StreamDescriptor) bool { return false }
	d := New(libav, libaom, Options{PreferLibaom: true}, logger.NewNoop())

	if info := d.Info(video(ports.CodecAV1)); info.Backend != BackendLibav {
		t.Errorf("expected fallback to libav, got %s", info.Backend)
	}
}

func TestNoDecoderAvailable(t *testing.T) {
	libav := mocks.NewVideoDecoder(nil)
	libav.CanDecodeFunc = func(ports.StreamDescriptor) bool { return false }
	d := New(libav, nil, Options{}, logger.NewNoop())

	if d.CanDecode(video(ports.CodecVP9)) {
		t.Error("expected CanDecode to be false")
	}
	_, err := d.Open(video(ports.CodecVP9))
	if !errors.Is(err, ports.ErrDecoderInit) {
		t.Errorf("expected ErrDecoderInit, got %v", err)
	}
}

func TestOpenErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	libav := mocks.NewVideoDecoder(nil)
	libav.OpenFunc = func(ports.StreamDescriptor) (ports.CodecSession, error) { return nil, boom }
	d := New(libav, nil, Options{}, logger.NewNoop())

	if _, err := d.Open(video(ports.CodecH264)); !errors.Is(err, boom) {
		t.Errorf("expected backend error, got %v", err)
	}
}
