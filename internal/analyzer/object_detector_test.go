package analyzer

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drawRing marks the one pixel wide outline of r on m
func drawRing(m *EdgeMap, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if x == r.Min.X || x == r.Max.X-1 || y == r.Min.Y || y == r.Max.Y-1 {
				m.Edges[y*m.Width+x] = true
			}
		}
	}
}

func newEdgeMap(width, height int) *EdgeMap {
	return &EdgeMap{Width: width, Height: height, Edges: make([]bool, width*height)}
}

func TestObjectDetector_SquareOutline(t *testing.T) {
	m := newEdgeMap(40, 40)
	drawRing(m, image.Rect(5, 5, 25, 25))   // 20x20 outline
	drawRing(m, image.Rect(30, 30, 35, 35)) // 5x5 outline, too small

	summary := NewObjectDetector(100).Detect(m)
	require.Len(t, summary.Regions, 1)

	largest, ok := summary.Largest()
	require.True(t, ok)
	assert.Equal(t, image.Rect(5, 5, 25, 25), largest.Bounds)
	assert.Equal(t, 400, largest.Area)
	assert.Equal(t, 76, largest.Perimeter)
	assert.InDelta(t, 25.0, summary.LargestAreaShare, 1e-9)
	assert.InDelta(t, 4*math.Pi*400/(76*76), largest.Circularity(), 1e-9)
}

func TestObjectDetector_NestedOutlines(t *testing.T) {
	m := newEdgeMap(40, 40)
	drawRing(m, image.Rect(2, 2, 32, 32))   // 30x30
	drawRing(m, image.Rect(10, 10, 22, 22)) // 12x12 inside

	summary := NewObjectDetector(100).Detect(m)
	require.Len(t, summary.Regions, 2)
	assert.Equal(t, 900, summary.Regions[0].Area)
	assert.Equal(t, 144, summary.Regions[1].Area)
}

func TestObjectDetector_DiagonalConnectivity(t *testing.T) {
	m := newEdgeMap(30, 30)
	// A diamond drawn with diagonal steps is one 8-connected contour
	// that still closes its interior against 4-connected leaks.
	cx, cy, r := 15, 15, 10
	for i := 0; i <= r; i++ {
		for _, p := range [][2]int{
			{cx - r + i, cy - i}, {cx + r - i, cy - i},
			{cx - r + i, cy + i}, {cx + r - i, cy + i},
		} {
			m.Edges[p[1]*m.Width+p[0]] = true
		}
	}

	summary := NewObjectDetector(100).Detect(m)
	require.Len(t, summary.Regions, 1)
	// |dx|+|dy| <= 10 holds 2*10*10+2*10+1 pixels
	assert.Equal(t, 221, summary.Regions[0].Area)
}

func TestObjectDetector_NoEdges(t *testing.T) {
	summary := NewObjectDetector(100).Detect(newEdgeMap(10, 10))
	assert.Empty(t, summary.Regions)
	assert.Equal(t, 0.0, summary.LargestAreaShare)

	_, ok := summary.Largest()
	assert.False(t, ok)
}

func TestObjectRegion_Circularity_ZeroPerimeter(t *testing.T) {
	assert.Equal(t, 0.0, ObjectRegion{Area: 10}.Circularity())
}
