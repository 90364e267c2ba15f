// Package report renders an analysis report as human readable text.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anime-shed/image-metrics-go/internal/analyzer"
	"github.com/anime-shed/image-metrics-go/pkg/models"
)

// DisplayedPeaks is how many histogram peaks are printed per channel
const DisplayedPeaks = 5

const (
	rule    = "============================================================"
	divider = "------------------------------"
)

// errWriter remembers the first write error so sections can be written
// without checking every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) section(title string) {
	ew.printf("\n%s\n%s\n", title, divider)
}

// WriteText writes r to w, one metric per line, grouped by section.
// name labels the report header, usually the input file name.
func WriteText(w io.Writer, name string, r *models.AnalysisReport) error {
	ew := &errWriter{w: w}

	ew.printf("Analyzing image: %s\n%s\n", name, rule)
	ew.printf("Image Dimensions: %d x %d pixels\n", r.Image.Width, r.Image.Height)
	if r.Image.Format != "" {
		ew.printf("Format: %s\n", r.Image.Format)
	}
	ew.printf("Total Pixels: %s\n", groupThousands(r.Image.TotalPixels))

	ew.section("COLOR ANALYSIS")
	ew.printf("Dominant Colors (RGB values):\n")
	for i, c := range r.Color.DominantColors {
		ew.printf("   %d. RGB(%d, %d, %d) -> %s\n", i+1, c.R, c.G, c.B, c.Hex())
	}
	ew.printf("Average Brightness: %.1f/255 (%.1f%%)\n", r.Color.Brightness, r.Color.Brightness/255*100)
	ew.printf("Contrast (Standard Deviation): %.1f\n", r.Color.Contrast)
	ew.printf("Red Channel Average: %.1f\n", r.Color.MeanRed)
	ew.printf("Green Channel Average: %.1f\n", r.Color.MeanGreen)
	ew.printf("Blue Channel Average: %.1f\n", r.Color.MeanBlue)

	ew.section("EDGE & TEXTURE ANALYSIS")
	ew.printf("Edge Density: %.2f%% of pixels\n", r.Texture.EdgeDensity)
	ew.printf("Texture Complexity: %.2f\n", r.Texture.TextureComplexity)
	ew.printf("Sharpness (Laplacian Variance): %.2f\n", r.Texture.Sharpness)

	ew.section("HISTOGRAM ANALYSIS")
	ew.printf("Red channel peaks at intensities: %s\n", FormatPeaks(r.Histogram.RedPeaks, DisplayedPeaks))
	ew.printf("Green channel peaks at intensities: %s\n", FormatPeaks(r.Histogram.GreenPeaks, DisplayedPeaks))
	ew.printf("Blue channel peaks at intensities: %s\n", FormatPeaks(r.Histogram.BluePeaks, DisplayedPeaks))

	if r.Objects != nil {
		ew.section("OBJECT DETECTION")
		ew.printf("Found %d significant contours/objects\n", r.Objects.SignificantCount)
		if r.Objects.SignificantCount > 0 {
			ew.printf("Largest object area: %d pixels (%.1f%% of image)\n", r.Objects.LargestArea, r.Objects.LargestAreaShare)
			ew.printf("Largest object perimeter: %d pixels\n", r.Objects.LargestPerimeter)
			if r.Objects.LargestPerimeter > 0 {
				ew.printf("Circularity of largest object: %.3f (1.0 = perfect circle)\n", r.Objects.Circularity)
			}
		}
	}

	ew.section("IMAGE QUALITY METRICS")
	ew.printf("Blur Level: %s (score: %.1f)\n", r.Quality.BlurLevel, r.Quality.BlurScore)
	ew.printf("Noise Level: %s (score: %.1f)\n", r.Quality.NoiseLevel, r.Quality.NoiseScore)
	ew.printf("Dynamic Range: %d/255 (%.1f%%)\n", r.Quality.DynamicRange, float64(r.Quality.DynamicRange)/255*100)

	ew.section("SUMMARY & RECOMMENDATIONS")
	for _, rec := range r.Recommendations {
		ew.printf("- %s\n", rec)
	}

	ew.printf("\nAnalysis Complete!\n%s\n", rule)
	return ew.err
}

// FormatPeaks renders the first n peaks as [a, b, c] and appends "..."
// when more exist.
func FormatPeaks(peaks []int, n int) string {
	shown := analyzer.TopPeaks(peaks, n)
	parts := make([]string, len(shown))
	for i, p := range shown {
		parts[i] = strconv.Itoa(p)
	}
	out := "[" + strings.Join(parts, ", ") + "]"
	if len(peaks) > n {
		out += "..."
	}
	return out
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
