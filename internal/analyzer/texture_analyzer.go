package analyzer

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// 3x3 kernels, indexed [row][column]
var (
	sobelXKernel = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelYKernel = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
	laplacianKernel = [3][3]float64{
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	}
)

// TextureMetrics holds the gradient based metrics of a grayscale plane
type TextureMetrics struct {
	EdgeDensity       float64 // percentage of edge pixels, 0-100
	TextureComplexity float64 // mean Sobel gradient magnitude
	Sharpness         float64 // population variance of the Laplacian response
}

// TextureResult carries the metrics plus the intermediate planes other
// stages reuse: the edge map and the Laplacian response.
type TextureResult struct {
	TextureMetrics
	Edges     *EdgeMap
	Laplacian []float64
}

// TextureAnalyzer measures texture complexity, edge density and sharpness
type TextureAnalyzer struct {
	edges EdgeDetector
}

// NewTextureAnalyzer creates a texture analyzer using the given hysteresis thresholds
func NewTextureAnalyzer(low, high float64) *TextureAnalyzer {
	return &TextureAnalyzer{edges: EdgeDetector{Low: low, High: high}}
}

// Analyze computes all texture metrics of gray
func (ta *TextureAnalyzer) Analyze(gray *image.Gray) TextureResult {
	edges := ta.edges.Detect(gray)
	laplacian := LaplacianResponse(gray)

	return TextureResult{
		TextureMetrics: TextureMetrics{
			EdgeDensity:       edges.Density(),
			TextureComplexity: TextureComplexity(gray),
			Sharpness:         Sharpness(laplacian),
		},
		Edges:     edges,
		Laplacian: laplacian,
	}
}

// TextureComplexity is the mean of sqrt(gx²+gy²) over all pixels
func TextureComplexity(gray *image.Gray) float64 {
	gx := convolve3x3(gray, sobelXKernel, reflect101)
	gy := convolve3x3(gray, sobelYKernel, reflect101)

	magnitude := make([]float64, len(gx))
	for i := range gx {
		magnitude[i] = math.Sqrt(gx[i]*gx[i] + gy[i]*gy[i])
	}
	return stat.Mean(magnitude, nil)
}

// LaplacianResponse applies the 3x3 Laplacian kernel to every pixel
func LaplacianResponse(gray *image.Gray) []float64 {
	return convolve3x3(gray, laplacianKernel, reflect101)
}

// Sharpness is the population variance of a Laplacian response
func Sharpness(laplacian []float64) float64 {
	if len(laplacian) == 0 {
		return 0
	}
	return stat.PopVariance(laplacian, nil)
}

// borderFunc maps an out of range coordinate back into [0,n)
type borderFunc func(i, n int) int

// reflect101 mirrors around the edge pixel without repeating it: -1 -> 1
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

// replicate repeats the edge pixel: -1 -> 0
func replicate(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// convolve3x3 correlates gray with kernel. Output is row-major, one value
// per pixel.
func convolve3x3(gray *image.Gray, kernel [3][3]float64, border borderFunc) []float64 {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := make([]float64, width*height)

	at := func(x, y int) float64 {
		return float64(gray.Pix[y*gray.Stride+x])
	}

	for y := 0; y < height; y++ {
		rows := [3]int{border(y-1, height), y, border(y+1, height)}
		for x := 0; x < width; x++ {
			cols := [3]int{border(x-1, width), x, border(x+1, width)}
			var sum float64
			for ky := 0; ky < 3; ky++ {
				for kx := 0; kx < 3; kx++ {
					if k := kernel[ky][kx]; k != 0 {
						sum += k * at(cols[kx], rows[ky])
					}
				}
			}
			out[y*width+x] = sum
		}
	}
	return out
}
