package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/wb-go/wbf/zlog"

	// Extra decoders so input format detection covers more than the
	// stdlib jpeg/png/gif set.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/hj010/Image-Process/internal/config"
	"github.com/hj010/Image-Process/internal/domain"
)

const defaultJPEGQuality = 50

// ImageTranscoder decodes arbitrary image bytes, flattens transparency onto
// a white background and re-encodes the result as a lossy JPEG.
type ImageTranscoder struct {
	quality int
}

func NewImageTranscoder(cfg *config.ProcessingConfig) *ImageTranscoder {
	quality := cfg.JPEGQuality
	if quality <= 0 || quality > 100 {
		zlog.Logger.Warn().
			Int("jpeg_quality", cfg.JPEGQuality).
			Int("default", defaultJPEGQuality).
			Msg("Invalid JPEG quality, using default")
		quality = defaultJPEGQuality
	}

	zlog.Logger.Info().
		Int("jpeg_quality", quality).
		Msg("ImageTranscoder initialized")

	return &ImageTranscoder{quality: quality}
}

func (t *ImageTranscoder) Quality() int {
	return t.quality
}

func (t *ImageTranscoder) Transcode(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("%w: decoded image is empty", domain.ErrDecodeFailed)
	}

	flattened := flatten(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flattened, imaging.JPEG, imaging.JPEGQuality(t.quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("empty buffer after encoding")
	}

	zlog.Logger.Debug().
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Int("input_bytes", len(data)).
		Int("output_bytes", buf.Len()).
		Msg("image transcoded")

	return buf.Bytes(), nil
}

// flatten composites the image onto a white background, dropping any alpha
// channel so the JPEG encoder sees an opaque 3-channel image.
func flatten(img image.Image) image.Image {
	if img.ColorModel() == color.YCbCrModel {
		// Decoded JPEGs have no alpha to flatten.
		return img
	}

	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
