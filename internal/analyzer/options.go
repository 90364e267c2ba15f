package analyzer

import "fmt"

// MaxClusters bounds the dominant color count a caller may request
const MaxClusters = 256

// AnalysisOptions provides flexible configuration for image analysis
type AnalysisOptions struct {
	// Dominant color clustering
	Clusters      int
	Seed          *int64 // nil seeds from the clock; cluster identity may then vary
	MaxIterations int
	Attempts      int
	Epsilon       float64

	// Edge detection hysteresis thresholds
	CannyLowThreshold  float64
	CannyHighThreshold float64

	// Histogram peaks exceed PeakRatio times the tallest bin
	PeakRatio float64

	// Object summary
	SkipObjectDetection bool
	MinObjectArea       int

	Quality QualityThresholds

	// Performance options
	UseWorkerPool bool
	MaxWorkers    int
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		Clusters:           5,
		MaxIterations:      20,
		Attempts:           10,
		Epsilon:            1.0,
		CannyLowThreshold:  50,
		CannyHighThreshold: 150,
		PeakRatio:          0.01,
		MinObjectArea:      100,
		Quality:            DefaultQualityThresholds(),
		UseWorkerPool:      true,
		MaxWorkers:         0, // Use default CPU count
	}
}

// WithSeed fixes the clustering seed so repeated runs return identical clusters
func (opts AnalysisOptions) WithSeed(seed int64) AnalysisOptions {
	opts.Seed = &seed
	return opts
}

// WithClusters sets the number of dominant colors
func (opts AnalysisOptions) WithClusters(k int) AnalysisOptions {
	opts.Clusters = k
	return opts
}

// WithoutObjectDetection disables the contour summary
func (opts AnalysisOptions) WithoutObjectDetection() AnalysisOptions {
	opts.SkipObjectDetection = true
	return opts
}

// WithoutWorkerPool runs every stage on the calling goroutine
func (opts AnalysisOptions) WithoutWorkerPool() AnalysisOptions {
	opts.UseWorkerPool = false
	return opts
}

// Validate rejects option sets the pipeline cannot run with
func (opts AnalysisOptions) Validate() error {
	switch {
	case opts.Clusters < 1:
		return fmt.Errorf("clusters must be >= 1 (got %d)", opts.Clusters)
	case opts.Clusters > MaxClusters:
		return fmt.Errorf("clusters must be <= %d (got %d)", MaxClusters, opts.Clusters)
	case opts.MaxIterations < 1:
		return fmt.Errorf("max iterations must be >= 1 (got %d)", opts.MaxIterations)
	case opts.Attempts < 1:
		return fmt.Errorf("attempts must be >= 1 (got %d)", opts.Attempts)
	case opts.Epsilon < 0:
		return fmt.Errorf("epsilon must be >= 0 (got %f)", opts.Epsilon)
	case opts.CannyLowThreshold < 0 || opts.CannyHighThreshold < opts.CannyLowThreshold:
		return fmt.Errorf("invalid edge thresholds (low=%f, high=%f)", opts.CannyLowThreshold, opts.CannyHighThreshold)
	case opts.PeakRatio < 0 || opts.PeakRatio > 1:
		return fmt.Errorf("peak ratio must be within [0,1] (got %f)", opts.PeakRatio)
	}
	return nil
}
