package analyzer

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
)

// Channel indexes into an RGB sample
const (
	ChannelRed = iota
	ChannelGreen
	ChannelBlue
)

// PixelBuffer is a decoded image held as a grid of 8-bit RGB samples.
// It is never modified after construction, so analyzers may share it.
type PixelBuffer struct {
	width  int
	height int
	pix    []uint8 // RGB triplets, row-major
}

// NewPixelBuffer copies img into an RGB buffer. Alpha is dropped.
func NewPixelBuffer(img image.Image) (*PixelBuffer, error) {
	if img == nil {
		return nil, apperrors.NewComputationError("no image to analyze", nil)
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, apperrors.NewComputationError(
			fmt.Sprintf("image has zero pixels (%dx%d)", width, height), nil)
	}

	// Clone normalizes any image type to NRGBA anchored at the origin
	src := imaging.Clone(img)
	pix := make([]uint8, width*height*3)
	for y := 0; y < height; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+width*4]
		for x := 0; x < width; x++ {
			copy(pix[(y*width+x)*3:(y*width+x)*3+3], row[x*4:x*4+3])
		}
	}

	return &PixelBuffer{width: width, height: height, pix: pix}, nil
}

// NewPixelBufferFromRGB wraps raw RGB triplets. The slice is copied.
func NewPixelBufferFromRGB(width, height int, rgb []uint8) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, apperrors.NewComputationError(
			fmt.Sprintf("image has zero pixels (%dx%d)", width, height), nil)
	}
	if len(rgb) != width*height*3 {
		return nil, apperrors.NewComputationError(
			fmt.Sprintf("expected %d RGB samples, got %d", width*height*3, len(rgb)), nil)
	}
	pix := make([]uint8, len(rgb))
	copy(pix, rgb)
	return &PixelBuffer{width: width, height: height, pix: pix}, nil
}

func (p *PixelBuffer) Width() int  { return p.width }
func (p *PixelBuffer) Height() int { return p.height }

// Len returns the number of pixels
func (p *PixelBuffer) Len() int { return p.width * p.height }

// At returns the sample at column x, row y
func (p *PixelBuffer) At(x, y int) (r, g, b uint8) {
	i := (y*p.width + x) * 3
	return p.pix[i], p.pix[i+1], p.pix[i+2]
}

// pixel returns the i-th sample in row-major order
func (p *PixelBuffer) pixel(i int) (r, g, b uint8) {
	return p.pix[i*3], p.pix[i*3+1], p.pix[i*3+2]
}

// Channel returns a copy of one channel plane
func (p *PixelBuffer) Channel(c int) []uint8 {
	plane := make([]uint8, p.Len())
	for i := range plane {
		plane[i] = p.pix[i*3+c]
	}
	return plane
}

// NRGBA renders the buffer as an opaque image
func (p *PixelBuffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for i := 0; i < p.Len(); i++ {
		img.Pix[i*4] = p.pix[i*3]
		img.Pix[i*4+1] = p.pix[i*3+1]
		img.Pix[i*4+2] = p.pix[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// Gray converts the buffer with the 0.299/0.587/0.114 luma weights,
// rounded to the nearest integer.
func (p *PixelBuffer) Gray() *image.Gray {
	luma := imaging.Grayscale(p.NRGBA())
	gray := image.NewGray(image.Rect(0, 0, p.width, p.height))
	for i := range gray.Pix {
		gray.Pix[i] = luma.Pix[i*4]
	}
	return gray
}
