package strategy

import (
	"fmt"
	"sort"

	"github.com/anime-shed/image-metrics-go/internal/analyzer"
)

// AnalysisStrategy adjusts the pipeline options for one kind of request
type AnalysisStrategy interface {
	Apply(options analyzer.AnalysisOptions) analyzer.AnalysisOptions
	GetStrategyName() string
}

// DefaultStrategyName is used when a request names no strategy
const DefaultStrategyName = "full"

// FullAnalysisStrategy runs every stage with the default bounds
type FullAnalysisStrategy struct{}

// NewFullAnalysisStrategy creates a new full analysis strategy
func NewFullAnalysisStrategy() AnalysisStrategy {
	return FullAnalysisStrategy{}
}

// Apply returns options unchanged
func (FullAnalysisStrategy) Apply(options analyzer.AnalysisOptions) analyzer.AnalysisOptions {
	return options
}

// GetStrategyName returns the strategy name
func (FullAnalysisStrategy) GetStrategyName() string {
	return "full"
}

// FastAnalysisStrategy trades clustering effort and the contour summary
// for latency. Color statistics, texture, histogram and quality metrics
// are computed exactly as in the full strategy.
type FastAnalysisStrategy struct{}

// NewFastAnalysisStrategy creates a new fast analysis strategy
func NewFastAnalysisStrategy() AnalysisStrategy {
	return FastAnalysisStrategy{}
}

// Apply caps attempts and iterations and skips object detection
func (FastAnalysisStrategy) Apply(options analyzer.AnalysisOptions) analyzer.AnalysisOptions {
	if options.Attempts > 3 {
		options.Attempts = 3
	}
	if options.MaxIterations > 10 {
		options.MaxIterations = 10
	}
	return options.WithoutObjectDetection()
}

// GetStrategyName returns the strategy name
func (FastAnalysisStrategy) GetStrategyName() string {
	return "fast"
}

var strategies = map[string]AnalysisStrategy{
	"full": NewFullAnalysisStrategy(),
	"fast": NewFastAnalysisStrategy(),
}

// ForName looks up a strategy; the empty name selects the default
func ForName(name string) (AnalysisStrategy, error) {
	if name == "" {
		name = DefaultStrategyName
	}
	s, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown analysis mode %q (available: %v)", name, Names())
	}
	return s, nil
}

// Names lists the registered strategy names in sorted order
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
