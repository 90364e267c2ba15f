package analyzer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
	"github.com/anime-shed/image-metrics-go/internal/logger"
	"github.com/anime-shed/image-metrics-go/pkg/models"
	"github.com/anime-shed/image-metrics-go/pkg/validation"
)

// coreAnalyzer implements ImageAnalyzer interface and orchestrates all components
type coreAnalyzer struct {
	options     AnalysisOptions
	workerPool  *WorkerPool
	recommender Recommender
}

// NewImageAnalyzer creates a new image analyzer with all components
func NewImageAnalyzer(options AnalysisOptions) (ImageAnalyzer, error) {
	return NewImageAnalyzerWithRecommender(options, validation.NewRecommendationEngine())
}

// NewImageAnalyzerWithRecommender creates an image analyzer with a custom rule set
func NewImageAnalyzerWithRecommender(options AnalysisOptions, recommender Recommender) (ImageAnalyzer, error) {
	if err := options.Validate(); err != nil {
		return nil, apperrors.NewValidationError("invalid analysis options", err)
	}
	if recommender == nil {
		return nil, apperrors.NewValidationError("recommender is required", nil)
	}

	workerPool := NewWorkerPool(options.MaxWorkers)
	workerPool.Start()

	return &coreAnalyzer{
		options:     options,
		workerPool:  workerPool,
		recommender: recommender,
	}, nil
}

// Analyze runs the pipeline with the options given at construction
func (ca *coreAnalyzer) Analyze(ctx context.Context, img image.Image) (*Result, error) {
	return ca.AnalyzeWithOptions(ctx, img, ca.options)
}

// AnalyzeWithOptions runs every analyzer over img and aggregates the report
func (ca *coreAnalyzer) AnalyzeWithOptions(ctx context.Context, img image.Image, options AnalysisOptions) (*Result, error) {
	start := time.Now()

	if err := options.Validate(); err != nil {
		return nil, apperrors.NewValidationError("invalid analysis options", err)
	}

	buf, err := NewPixelBuffer(img)
	if err != nil {
		return nil, err
	}
	gray := buf.Gray()

	var pool *WorkerPool
	if options.UseWorkerPool {
		pool = ca.workerPool
	}
	colorAnalyzer := NewColorAnalyzer(pool)
	textureAnalyzer := NewTextureAnalyzer(options.CannyLowThreshold, options.CannyHighThreshold)

	var (
		clusters   []ColorCluster
		clusterErr error
		stats      ColorStatistics
		texture    TextureResult
		histograms HistogramSet
	)

	// Color, texture and histogram analysis only read buf and gray
	runStages(options.UseWorkerPool,
		func() {
			clusters, clusterErr = colorAnalyzer.ExtractDominantColors(ctx, buf, options)
			stats = colorAnalyzer.ComputeColorStatistics(buf, gray)
		},
		func() {
			texture = textureAnalyzer.Analyze(gray)
		},
		func() {
			histograms = AnalyzeHistograms(buf)
		},
	)
	if clusterErr != nil {
		return nil, contextError(ctx, clusterErr)
	}

	var objects *ObjectSummary
	if !options.SkipObjectDetection {
		summary := NewObjectDetector(options.MinObjectArea).Detect(texture.Edges)
		objects = &summary
	}

	quality := NewQualityScorerWithThresholds(options.Quality).Score(texture.Sharpness, texture.Laplacian, gray)

	metrics := models.MetricSet{
		Brightness:        stats.Brightness,
		Contrast:          stats.Contrast,
		EdgeDensity:       texture.EdgeDensity,
		TextureComplexity: texture.TextureComplexity,
		Sharpness:         texture.Sharpness,
		NoiseLevel:        quality.NoiseScore,
		DynamicRange:      quality.DynamicRange,
	}
	if err := checkFinite(metrics); err != nil {
		return nil, err
	}

	report := &models.AnalysisReport{
		ID:        uuid.NewString(),
		Timestamp: start,
		Image: models.ImageInfo{
			Width:       buf.Width(),
			Height:      buf.Height(),
			TotalPixels: buf.Len(),
		},
		Color: models.ColorReport{
			DominantColors: toDominantColors(clusters),
			Brightness:     stats.Brightness,
			Contrast:       stats.Contrast,
			MeanRed:        stats.MeanRed,
			MeanGreen:      stats.MeanGreen,
			MeanBlue:       stats.MeanBlue,
		},
		Texture: models.TextureReport{
			EdgeDensity:       texture.EdgeDensity,
			TextureComplexity: texture.TextureComplexity,
			Sharpness:         texture.Sharpness,
		},
		Histogram: models.HistogramReport{
			RedPeaks:   FindPeaks(histograms.Red, options.PeakRatio),
			GreenPeaks: FindPeaks(histograms.Green, options.PeakRatio),
			BluePeaks:  FindPeaks(histograms.Blue, options.PeakRatio),
		},
		Objects: toObjectReport(objects),
		Quality: models.QualityReport{
			BlurLevel:    string(quality.BlurLevel),
			BlurScore:    quality.BlurScore,
			NoiseLevel:   string(quality.NoiseLevel),
			NoiseScore:   quality.NoiseScore,
			DynamicRange: quality.DynamicRange,
		},
		Metrics:         metrics,
		Recommendations: ca.recommender.Evaluate(metrics),
	}
	report.ProcessingTimeSec = time.Since(start).Seconds()

	logger.WithFields(logrus.Fields{
		"analysis_id":     report.ID,
		"width":           buf.Width(),
		"height":          buf.Height(),
		"clusters":        len(clusters),
		"blur_level":      quality.BlurLevel,
		"recommendations": len(report.Recommendations),
		"duration_sec":    report.ProcessingTimeSec,
	}).Debug("Image analysis completed")

	return &Result{
		Report:     report,
		Buffer:     buf,
		Gray:       gray,
		Edges:      texture.Edges,
		Histograms: histograms,
	}, nil
}

// Close releases the worker pool
func (ca *coreAnalyzer) Close() error {
	if ca.workerPool != nil {
		ca.workerPool.Close()
	}
	return nil
}

// runStages runs independent stages concurrently, or in order when
// parallel is false. Stages get their own goroutines rather than pool
// slots because they submit work to the pool themselves.
func runStages(parallel bool, stages ...func()) {
	if !parallel {
		for _, stage := range stages {
			stage()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(stages))
	for _, stage := range stages {
		go func(stage func()) {
			defer wg.Done()
			stage()
		}(stage)
	}
	wg.Wait()
}

// contextError classifies a stage failure caused by ctx
func contextError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewTimeoutError("image analysis timed out", err)
	case ctx.Err() != nil:
		return apperrors.NewInternalError("image analysis canceled", err)
	default:
		return apperrors.NewComputationError("dominant color extraction failed", err)
	}
}

// checkFinite rejects metric sets carrying NaN or infinite values
func checkFinite(m models.MetricSet) error {
	values := map[string]float64{
		"brightness":         m.Brightness,
		"contrast":           m.Contrast,
		"edge_density":       m.EdgeDensity,
		"texture_complexity": m.TextureComplexity,
		"sharpness":          m.Sharpness,
		"noise_level":        m.NoiseLevel,
	}
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.NewComputationError(fmt.Sprintf("metric %s is not finite", name), nil)
		}
	}
	return nil
}

func toDominantColors(clusters []ColorCluster) []models.DominantColor {
	colors := make([]models.DominantColor, len(clusters))
	for i, c := range clusters {
		colors[i] = models.DominantColor{R: c.R, G: c.G, B: c.B, Count: c.Count}
	}
	return colors
}

func toObjectReport(summary *ObjectSummary) *models.ObjectReport {
	if summary == nil {
		return nil
	}
	report := &models.ObjectReport{SignificantCount: len(summary.Regions)}
	if largest, ok := summary.Largest(); ok {
		report.LargestArea = largest.Area
		report.LargestAreaShare = summary.LargestAreaShare
		report.LargestPerimeter = largest.Perimeter
		report.Circularity = largest.Circularity()
	}
	return report
}
