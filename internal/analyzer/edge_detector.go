package analyzer

import (
	"image"
	"math"
)

// tan(22.5°) and tan(67.5°), the sector bounds of gradient direction
const (
	tan22 = 0.4142135623730950
	tan67 = 2.4142135623730950
)

// EdgeDetector is a dual threshold gradient edge detector with hysteresis
// linking. Gradient magnitude is |gx|+|gy| from Sobel kernels.
type EdgeDetector struct {
	Low  float64
	High float64
}

// EdgeMap is a binary edge classification per pixel, row-major
type EdgeMap struct {
	Width  int
	Height int
	Edges  []bool
}

// Count returns the number of edge pixels
func (m *EdgeMap) Count() int {
	n := 0
	for _, e := range m.Edges {
		if e {
			n++
		}
	}
	return n
}

// Density returns edge pixels as a percentage of all pixels
func (m *EdgeMap) Density() float64 {
	if len(m.Edges) == 0 {
		return 0
	}
	return float64(m.Count()) / float64(len(m.Edges)) * 100
}

// Image renders edges white on black
func (m *EdgeMap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, e := range m.Edges {
		if e {
			img.Pix[i] = 255
		}
	}
	return img
}

// Detect classifies every pixel of gray as edge or non-edge
func (d EdgeDetector) Detect(gray *image.Gray) *EdgeMap {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	gx := convolve3x3(gray, sobelXKernel, replicate)
	gy := convolve3x3(gray, sobelYKernel, replicate)
	magnitude := make([]float64, len(gx))
	for i := range gx {
		magnitude[i] = math.Abs(gx[i]) + math.Abs(gy[i])
	}

	magAt := func(x, y int) float64 {
		if x < 0 || x >= width || y < 0 || y >= height {
			return 0
		}
		return magnitude[y*width+x]
	}

	const (
		notEdge = iota
		weak
		strong
	)
	class := make([]uint8, len(magnitude))
	var stack []int

	// Non-maximum suppression along the gradient direction
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			m := magnitude[i]
			if m <= d.Low {
				continue
			}

			ax, ay := math.Abs(gx[i]), math.Abs(gy[i])
			var isMax bool
			switch {
			case ay < ax*tan22:
				isMax = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ay > ax*tan67:
				isMax = m > magAt(x, y-1) && m >= magAt(x, y+1)
			default:
				s := 1
				if (gx[i] < 0) != (gy[i] < 0) {
					s = -1
				}
				isMax = m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
			}
			if !isMax {
				continue
			}

			if m > d.High {
				class[i] = strong
				stack = append(stack, i)
			} else {
				class[i] = weak
			}
		}
	}

	// Hysteresis: weak pixels survive when 8-connected to a strong one
	edges := make([]bool, len(class))
	for _, i := range stack {
		edges[i] = true
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				j := ny*width + nx
				if class[j] == weak && !edges[j] {
					edges[j] = true
					stack = append(stack, j)
				}
			}
		}
	}

	return &EdgeMap{Width: width, Height: height, Edges: edges}
}
