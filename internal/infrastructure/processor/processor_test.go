package processor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/config"
	"github.com/hj010/Image-Process/internal/domain"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestTranscode_PNGToJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}

	tr := NewImageTranscoder(&config.ProcessingConfig{JPEGQuality: 50})

	out, err := tr.Transcode(encodePNG(t, src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %q", format)
	}
	if decoded.Bounds().Dx() != 8 || decoded.Bounds().Dy() != 6 {
		t.Errorf("dimensions changed: %v", decoded.Bounds())
	}
}

func TestTranscode_TransparencyFlattensToWhite(t *testing.T) {
	// Fully transparent pixels must come out white, not black.
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	tr := NewImageTranscoder(&config.ProcessingConfig{JPEGQuality: 90})

	out, err := tr.Transcode(encodePNG(t, src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}

	r, g, b, _ := decoded.At(1, 1).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected near-white pixel, got r=%d g=%d b=%d", r>>8, g>>8, b>>8)
	}
}

func TestTranscode_JPEGInputRoundTrips(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	tr := NewImageTranscoder(&config.ProcessingConfig{JPEGQuality: 50})

	out, err := tr.Transcode(buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty output")
	}
}

func TestTranscode_GarbageInputFails(t *testing.T) {
	tr := NewImageTranscoder(&config.ProcessingConfig{JPEGQuality: 50})

	_, err := tr.Transcode([]byte("definitely not an image"))
	if !errors.Is(err, domain.ErrDecodeFailed) {
		t.Fatalf("expected ErrDecodeFailed, got %v", err)
	}
}

func TestTranscode_EmptyInputFails(t *testing.T) {
	tr := NewImageTranscoder(&config.ProcessingConfig{JPEGQuality: 50})

	_, err := tr.Transcode(nil)
	if !errors.Is(err, domain.ErrDecodeFailed) {
		t.Fatalf("expected ErrDecodeFailed, got %v", err)
	}
}

func TestNewImageTranscoder_InvalidQualityFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		quality int
		want    int
	}{
		{"zero", 0, defaultJPEGQuality},
		{"negative", -1, defaultJPEGQuality},
		{"over 100", 150, defaultJPEGQuality},
		{"valid", 75, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewImageTranscoder(&config.ProcessingConfig{JPEGQuality: tt.quality})
			if tr.Quality() != tt.want {
				t.Errorf("quality = %d, want %d", tr.Quality(), tt.want)
			}
		})
	}
}
