package analyzer

import (
	"image"

	"github.com/anime-shed/image-metrics-go/pkg/models"
)

// Result is the outcome of one analysis: the serializable report plus the
// intermediate planes the visualizer draws.
type Result struct {
	Report *models.AnalysisReport

	Buffer     *PixelBuffer
	Gray       *image.Gray
	Edges      *EdgeMap
	Histograms HistogramSet
}
