package analyzer

import (
	"context"
	"image"

	"github.com/anime-shed/image-metrics-go/pkg/models"
)

// ImageAnalyzer defines the main interface for image analysis
type ImageAnalyzer interface {
	// Analyze runs the pipeline with the analyzer's default options
	Analyze(ctx context.Context, img image.Image) (*Result, error)

	// AnalyzeWithOptions runs the pipeline with per-call options
	AnalyzeWithOptions(ctx context.Context, img image.Image, options AnalysisOptions) (*Result, error)

	// Lifecycle management
	Close() error
}

// Recommender turns a metric set into advisory messages
type Recommender interface {
	Evaluate(metrics models.MetricSet) []string
}
