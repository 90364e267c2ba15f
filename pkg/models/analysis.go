package models

import (
	"fmt"
	"time"
)

// AnalysisReport represents the complete result of one image analysis
// Shared by the CLI reporter, the visualizer and the HTTP API
type AnalysisReport struct {
	ID                string    `json:"id"`
	Source            string    `json:"source"`
	Timestamp         time.Time `json:"timestamp"`
	ProcessingTimeSec float64   `json:"processing_time_sec"`

	Image     ImageInfo       `json:"image"`
	Color     ColorReport     `json:"color"`
	Texture   TextureReport   `json:"texture"`
	Histogram HistogramReport `json:"histogram"`
	Objects   *ObjectReport   `json:"objects,omitempty"`
	Quality   QualityReport   `json:"quality"`

	// Aggregated scalars the recommendation rules run against
	Metrics MetricSet `json:"metrics"`

	Recommendations []string `json:"recommendations"`
}

// MetricSet is the aggregate of scalar metrics for one image.
// Read-only after construction.
type MetricSet struct {
	Brightness        float64 `json:"brightness"`
	Contrast          float64 `json:"contrast"`
	EdgeDensity       float64 `json:"edge_density"`
	TextureComplexity float64 `json:"texture_complexity"`
	Sharpness         float64 `json:"sharpness"`
	NoiseLevel        float64 `json:"noise_level"`
	DynamicRange      int     `json:"dynamic_range"`
}

// ImageInfo contains basic information about the analyzed image
type ImageInfo struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	TotalPixels int    `json:"total_pixels"`
	Format      string `json:"format,omitempty"`
}

// DominantColor is a cluster centroid with its membership count
type DominantColor struct {
	R     uint8 `json:"r"`
	G     uint8 `json:"g"`
	B     uint8 `json:"b"`
	Count int   `json:"count"`
}

// Hex returns the color as #rrggbb
func (c DominantColor) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ColorReport groups the color statistics
type ColorReport struct {
	DominantColors []DominantColor `json:"dominant_colors"`
	Brightness     float64         `json:"brightness"`
	Contrast       float64         `json:"contrast"`
	MeanRed        float64         `json:"mean_red"`
	MeanGreen      float64         `json:"mean_green"`
	MeanBlue       float64         `json:"mean_blue"`
}

// TextureReport groups edge and texture metrics
type TextureReport struct {
	EdgeDensity       float64 `json:"edge_density"`
	TextureComplexity float64 `json:"texture_complexity"`
	Sharpness         float64 `json:"sharpness"`
}

// HistogramReport holds the peak indices of each RGB channel
type HistogramReport struct {
	RedPeaks   []int `json:"red_peaks"`
	GreenPeaks []int `json:"green_peaks"`
	BluePeaks  []int `json:"blue_peaks"`
}

// ObjectReport summarizes the contours found on the edge map
type ObjectReport struct {
	SignificantCount int     `json:"significant_count"`
	LargestArea      int     `json:"largest_area,omitempty"`
	LargestAreaShare float64 `json:"largest_area_share,omitempty"`
	LargestPerimeter int     `json:"largest_perimeter,omitempty"`
	Circularity      float64 `json:"circularity,omitempty"`
}

// QualityReport represents the discrete quality classifications
type QualityReport struct {
	BlurLevel    string  `json:"blur_level"`
	BlurScore    float64 `json:"blur_score"`
	NoiseLevel   string  `json:"noise_level"`
	NoiseScore   float64 `json:"noise_score"`
	DynamicRange int     `json:"dynamic_range"`
}
