// Package visualize renders the analysis panels into a single PNG.
package visualize

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/anime-shed/image-metrics-go/internal/analyzer"
	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
)

const (
	panelWidth  = 320
	panelHeight = 240
	titleHeight = 20
	headerSize  = 28
	columns     = 3
	rows        = 2
	plotMargin  = 8
)

var (
	background = color.NRGBA{255, 255, 255, 255}
	ink        = color.NRGBA{0, 0, 0, 255}
	plotFrame  = color.NRGBA{200, 200, 200, 255}

	channelColors = [3]color.NRGBA{
		{220, 40, 40, 255},
		{40, 160, 40, 255},
		{40, 70, 220, 255},
	}
	channelNames = [3]string{"Red", "Green", "Blue"}
)

// OutputPath returns where the visualization for inputPath is written:
// <dir>/analysis_<stem>.png
func OutputPath(dir, inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "analysis_"+stem+".png")
}

// Visualizer writes analysis panels below OutputDir
type Visualizer struct {
	OutputDir string
}

// New creates a visualizer writing into dir
func New(dir string) *Visualizer {
	return &Visualizer{OutputDir: dir}
}

// Save renders result and writes it next to the other artifacts, returning
// the written path. Failures are VisualizationErrors.
func (v *Visualizer) Save(inputPath string, result *analyzer.Result) (string, error) {
	if result == nil || result.Buffer == nil || result.Gray == nil || result.Edges == nil {
		return "", apperrors.NewVisualizationError("analysis result has no image planes", nil)
	}
	if err := os.MkdirAll(v.OutputDir, 0o755); err != nil {
		return "", apperrors.NewVisualizationError("failed to create output directory", err)
	}

	path := OutputPath(v.OutputDir, inputPath)
	canvas := Render("Visual Analysis: "+filepath.Base(inputPath), result)
	if err := imaging.Save(canvas, path); err != nil {
		return "", apperrors.NewVisualizationError("failed to write visualization", err)
	}
	return path, nil
}

// Render lays out original, grayscale and edge panels over the three
// channel histograms.
func Render(title string, result *analyzer.Result) *image.NRGBA {
	width := columns * panelWidth
	height := headerSize + rows*(titleHeight+panelHeight)
	canvas := imaging.New(width, height, background)
	drawCentered(canvas, title, 0, width, headerSize-8)

	images := []struct {
		title string
		img   image.Image
	}{
		{"Original Image", result.Buffer.NRGBA()},
		{"Grayscale", result.Gray},
		{"Edge Detection", result.Edges.Image()},
	}
	for col, p := range images {
		x, y := col*panelWidth, headerSize
		drawCentered(canvas, p.title, x, panelWidth, y+titleHeight-5)

		fitted := imaging.Fit(p.img, panelWidth-2*plotMargin, panelHeight-2*plotMargin, imaging.Lanczos)
		offset := image.Pt(
			x+(panelWidth-fitted.Bounds().Dx())/2,
			y+titleHeight+(panelHeight-fitted.Bounds().Dy())/2,
		)
		canvas = imaging.Paste(canvas, fitted, offset)
	}

	for c := 0; c < 3; c++ {
		x, y := c*panelWidth, headerSize+titleHeight+panelHeight
		drawCentered(canvas, channelNames[c]+" Histogram", x, panelWidth, y+titleHeight-5)

		plot := histogramPlot(result.Histograms.Channel(c), channelColors[c],
			panelWidth-2*plotMargin, panelHeight-2*plotMargin)
		canvas = imaging.Paste(canvas, plot, image.Pt(x+plotMargin, y+titleHeight+plotMargin))
	}
	return canvas
}

// histogramPlot draws one bar per bin, scaled so the tallest bin fills
// the plot height.
func histogramPlot(h analyzer.ChannelHistogram, c color.NRGBA, width, height int) *image.NRGBA {
	plot := imaging.New(width, height, background)
	for x := 0; x < width; x++ {
		plot.SetNRGBA(x, 0, plotFrame)
		plot.SetNRGBA(x, height-1, plotFrame)
	}
	for y := 0; y < height; y++ {
		plot.SetNRGBA(0, y, plotFrame)
		plot.SetNRGBA(width-1, y, plotFrame)
	}

	peak := h.Max()
	if peak == 0 {
		return plot
	}
	inner := height - 2
	for x := 1; x < width-1; x++ {
		bin := (x - 1) * len(h) / (width - 2)
		barHeight := h[bin] * inner / peak
		for y := 0; y < barHeight; y++ {
			plot.SetNRGBA(x, height-2-y, c)
		}
	}
	return plot
}

func drawCentered(dst *image.NRGBA, text string, x, width, baseline int) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
	}
	textWidth := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(x+(width-textWidth)/2, baseline)
	d.DrawString(text)
}
