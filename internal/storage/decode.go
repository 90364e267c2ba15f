package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
)

// ImageFetcher loads and decodes an image from one kind of location.
// The returned string is the decoded format name, e.g. "png".
type ImageFetcher interface {
	FetchImage(ctx context.Context, location string) (image.Image, string, error)
}

const (
	// maxImageBytes bounds how much of a remote image is read before decoding
	maxImageBytes = 64 << 20

	// maxImagePixels bounds the declared width*height accepted for decoding
	maxImagePixels = 1 << 26
)

// DecodeImage decodes any registered format: png, jpeg, gif, bmp, tiff, webp.
// The header is read first so oversized images are rejected before their
// pixels are allocated.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, "", apperrors.NewDecodeError("failed to decode image", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, "", apperrors.NewDecodeError(
			fmt.Sprintf("image dimensions %dx%d exceed the %d pixel limit", cfg.Width, cfg.Height, maxImagePixels), nil)
	}

	img, format, err := image.Decode(io.MultiReader(&header, r))
	if err != nil {
		return nil, "", apperrors.NewDecodeError("failed to decode image", err)
	}
	return img, format, nil
}
