package analyzer

import (
	"context"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededOptions(seed int64) AnalysisOptions {
	return DefaultOptions().WithSeed(seed)
}

func TestExtractDominantColors_UniformImage(t *testing.T) {
	buf := mustBuffer(t, createTestImage(10, 10, color.RGBA{128, 64, 32, 255}))
	ca := NewColorAnalyzer(nil)

	clusters, err := ca.ExtractDominantColors(context.Background(), buf, seededOptions(1))
	require.NoError(t, err)
	require.Len(t, clusters, 5)

	total := 0
	for _, c := range clusters {
		assert.Equal(t, [3]uint8{128, 64, 32}, [3]uint8{c.R, c.G, c.B})
		total += c.Count
	}
	assert.Equal(t, 100, total)
}

func TestExtractDominantColors_Checkerboard(t *testing.T) {
	buf := mustBuffer(t, createCheckerboard(4, 4))
	ca := NewColorAnalyzer(nil)

	clusters, err := ca.ExtractDominantColors(context.Background(), buf, seededOptions(42))
	require.NoError(t, err)
	require.Len(t, clusters, 5)

	// Sorted by luminance, so black first and white last
	first, last := clusters[0], clusters[len(clusters)-1]
	assert.Equal(t, ColorCluster{R: 0, G: 0, B: 0, Count: first.Count}, first)
	assert.Equal(t, ColorCluster{R: 255, G: 255, B: 255, Count: last.Count}, last)

	black, white := 0, 0
	for _, c := range clusters {
		switch {
		case c.R == 0 && c.G == 0 && c.B == 0:
			black += c.Count
		case c.R == 255 && c.G == 255 && c.B == 255:
			white += c.Count
		default:
			t.Errorf("unexpected cluster %+v", c)
		}
	}
	assert.Equal(t, 8, black)
	assert.Equal(t, 8, white)
}

func TestExtractDominantColors_ExactlyK(t *testing.T) {
	buf := mustBuffer(t, createGradientImage(32, 32))
	ca := NewColorAnalyzer(nil)

	for _, k := range []int{1, 2, 5, 8} {
		clusters, err := ca.ExtractDominantColors(context.Background(), buf, seededOptions(7).WithClusters(k))
		require.NoError(t, err)
		assert.Len(t, clusters, k)

		total := 0
		for i, c := range clusters {
			total += c.Count
			if i > 0 {
				assert.LessOrEqual(t, clusters[i-1].Luminance(), c.Luminance())
			}
		}
		assert.Equal(t, buf.Len(), total)
	}
}

func TestExtractDominantColors_FewerPixelsThanClusters(t *testing.T) {
	buf := mustBuffer(t, createTestImage(1, 2, color.RGBA{200, 100, 50, 255}))
	ca := NewColorAnalyzer(nil)

	clusters, err := ca.ExtractDominantColors(context.Background(), buf, seededOptions(3))
	require.NoError(t, err)
	require.Len(t, clusters, 5)
	for _, c := range clusters {
		assert.Equal(t, [3]uint8{200, 100, 50}, [3]uint8{c.R, c.G, c.B})
	}
}

func TestExtractDominantColors_Deterministic(t *testing.T) {
	buf := mustBuffer(t, createGradientImage(80, 80))

	pool := NewWorkerPool(4)
	defer pool.Close()

	for _, ca := range []*ColorAnalyzer{NewColorAnalyzer(nil), NewColorAnalyzer(pool)} {
		first, err := ca.ExtractDominantColors(context.Background(), buf, seededOptions(99))
		require.NoError(t, err)
		second, err := ca.ExtractDominantColors(context.Background(), buf, seededOptions(99))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestExtractDominantColors_Canceled(t *testing.T) {
	buf := mustBuffer(t, createCheckerboard(4, 4))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewColorAnalyzer(nil).ExtractDominantColors(ctx, buf, seededOptions(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunKMeans_StopsBetweenIterations(t *testing.T) {
	points := []colorPoint{
		{rgb: [3]float64{0, 0, 0}, weight: 1},
		{rgb: [3]float64{255, 255, 255}, weight: 1},
	}
	labels := []int{-1, -1}
	centers := [][3]float64{{10, 10, 10}, {200, 200, 200}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewColorAnalyzer(nil).runKMeans(ctx, points, centers, labels, seededOptions(1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{-1, -1}, labels, "no assignment runs after cancellation")

	got, compactness, err := NewColorAnalyzer(nil).runKMeans(context.Background(), points, centers, labels, seededOptions(1))
	require.NoError(t, err)
	assert.Equal(t, [][3]float64{{0, 0, 0}, {255, 255, 255}}, got)
	assert.Equal(t, 0.0, compactness)
	assert.Equal(t, []int{0, 1}, labels)
}

func TestExtractDominantColors_InvalidK(t *testing.T) {
	buf := mustBuffer(t, createCheckerboard(4, 4))
	_, err := NewColorAnalyzer(nil).ExtractDominantColors(context.Background(), buf, seededOptions(1).WithClusters(0))
	assert.Error(t, err)
}

func TestComputeColorStatistics(t *testing.T) {
	tests := []struct {
		name                string
		buf                 *PixelBuffer
		brightness          float64
		contrast            float64
		meanR, meanG, meanB float64
	}{
		{
			name:       "white 2x2",
			buf:        mustBuffer(t, createTestImage(2, 2, color.RGBA{255, 255, 255, 255})),
			brightness: 255,
			contrast:   0,
			meanR:      255,
			meanG:      255,
			meanB:      255,
		},
		{
			name:       "checkerboard 4x4",
			buf:        mustBuffer(t, createCheckerboard(4, 4)),
			brightness: 127.5,
			contrast:   127.5,
			meanR:      127.5,
			meanG:      127.5,
			meanB:      127.5,
		},
		{
			name:       "pure red",
			buf:        mustBuffer(t, createTestImage(3, 3, color.RGBA{255, 0, 0, 255})),
			brightness: 76,
			contrast:   0,
			meanR:      255,
			meanG:      0,
			meanB:      0,
		},
	}

	ca := NewColorAnalyzer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ca.ComputeColorStatistics(tt.buf, tt.buf.Gray())
			assert.InDelta(t, tt.brightness, stats.Brightness, 1e-9)
			assert.InDelta(t, tt.contrast, stats.Contrast, 1e-9)
			assert.InDelta(t, tt.meanR, stats.MeanRed, 1e-9)
			assert.InDelta(t, tt.meanG, stats.MeanGreen, 1e-9)
			assert.InDelta(t, tt.meanB, stats.MeanBlue, 1e-9)
		})
	}
}

func TestFinalizeClusters_EmptyClusterFallback(t *testing.T) {
	points := []colorPoint{
		{rgb: [3]float64{10, 10, 10}, weight: 3},
		{rgb: [3]float64{200, 200, 200}, weight: 1},
	}
	centers := [][3]float64{{10, 10, 10}, {200, 200, 200}, {190, 190, 190}}
	labels := []int{0, 1}

	clusters := finalizeClusters(points, centers, labels)
	require.Len(t, clusters, 3)

	// The empty center at 190 takes the nearest non-empty centroid
	assert.Equal(t, ColorCluster{R: 10, G: 10, B: 10, Count: 3}, clusters[0])
	assert.Equal(t, [3]uint8{200, 200, 200}, [3]uint8{clusters[1].R, clusters[1].G, clusters[1].B})
	assert.Equal(t, [3]uint8{200, 200, 200}, [3]uint8{clusters[2].R, clusters[2].G, clusters[2].B})
	assert.Equal(t, 1, clusters[1].Count+clusters[2].Count)
}

func TestRoundChannel(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-3, 0},
		{0.4, 0},
		{0.5, 1},
		{127.5, 128},
		{254.6, 255},
		{300, 255},
		{math.Inf(1), 255},
	}
	for _, tt := range tests {
		if got := roundChannel(tt.in); got != tt.want {
			t.Errorf("roundChannel(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
