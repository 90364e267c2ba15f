package visualize

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/image-metrics-go/internal/analyzer"
	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
)

func analyzeSquare(t *testing.T) *analyzer.Result {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := color.RGBA{20, 20, 20, 255}
			if x >= 10 && x < 30 && y >= 10 && y < 30 {
				c = color.RGBA{230, 200, 40, 255}
			}
			img.Set(x, y, c)
		}
	}

	a, err := analyzer.NewImageAnalyzer(analyzer.DefaultOptions().WithSeed(1).WithoutWorkerPool())
	require.NoError(t, err)
	defer a.Close()

	result, err := a.Analyze(context.Background(), img)
	require.NoError(t, err)
	return result
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("analysis_output", "analysis_photo.png"), OutputPath("analysis_output", "/tmp/photo.jpg"))
	assert.Equal(t, filepath.Join("out", "analysis_archive.tar.png"), OutputPath("out", "archive.tar.gz"))
	assert.Equal(t, filepath.Join("out", "analysis_noext.png"), OutputPath("out", "noext"))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	v := New(dir)

	path, err := v.Save("images/square.png", analyzeSquare(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "analysis_square.png"), path)

	written, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, columns*panelWidth, written.Bounds().Dx())
	assert.Equal(t, headerSize+rows*(titleHeight+panelHeight), written.Bounds().Dy())
}

func TestSave_Failures(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := New(blocker).Save("square.png", analyzeSquare(t))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeVisualization))

	_, err = New(t.TempDir()).Save("square.png", &analyzer.Result{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeVisualization))
}

func TestHistogramPlot(t *testing.T) {
	var h analyzer.ChannelHistogram
	h[0] = 10
	h[255] = 5

	plot := histogramPlot(h, channelColors[0], 258, 100)

	// Bin 0 fills the inner height, bin 255 half of it
	assert.Equal(t, channelColors[0], plot.NRGBAAt(1, 1))
	assert.Equal(t, channelColors[0], plot.NRGBAAt(256, 98))
	assert.Equal(t, background, plot.NRGBAAt(256, 1))
	assert.Equal(t, background, plot.NRGBAAt(128, 98))
	assert.Equal(t, plotFrame, plot.NRGBAAt(0, 50))

	empty := histogramPlot(analyzer.ChannelHistogram{}, channelColors[1], 50, 50)
	assert.Equal(t, background, empty.NRGBAAt(25, 25))
}
