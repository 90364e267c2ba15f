package analyzer

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// BlurLevel is the focus classification of an image
type BlurLevel string

const (
	BlurSharp           BlurLevel = "Sharp"
	BlurModeratelySharp BlurLevel = "Moderately Sharp"
	BlurBlurry          BlurLevel = "Blurry"
)

// NoiseLevel is the noise classification of an image
type NoiseLevel string

const (
	NoiseLow    NoiseLevel = "Low"
	NoiseMedium NoiseLevel = "Medium"
	NoiseHigh   NoiseLevel = "High"
)

// QualityThresholds defines configurable thresholds for quality scoring
type QualityThresholds struct {
	// Sharpness (Laplacian variance) bounds
	SharpAbove           float64
	ModeratelySharpAbove float64

	// Noise (Laplacian standard deviation) bounds
	LowNoiseBelow    float64
	MediumNoiseBelow float64
}

// DefaultQualityThresholds returns the default quality thresholds
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		SharpAbove:           100.0,
		ModeratelySharpAbove: 50.0,
		LowNoiseBelow:        10.0,
		MediumNoiseBelow:     20.0,
	}
}

// QualityAssessment is the discrete quality classification of an image
type QualityAssessment struct {
	BlurLevel    BlurLevel
	BlurScore    float64
	NoiseLevel   NoiseLevel
	NoiseScore   float64
	DynamicRange int
}

// QualityScorer classifies blur, noise and dynamic range
type QualityScorer struct {
	thresholds QualityThresholds
}

// NewQualityScorer creates a quality scorer with default thresholds
func NewQualityScorer() *QualityScorer {
	return &QualityScorer{thresholds: DefaultQualityThresholds()}
}

// NewQualityScorerWithThresholds creates a quality scorer with custom thresholds
func NewQualityScorerWithThresholds(thresholds QualityThresholds) *QualityScorer {
	return &QualityScorer{thresholds: thresholds}
}

// ClassifyBlur maps a sharpness score to a blur level.
// Both bounds are exclusive on the sharp side: 100 is Moderately Sharp, 50 is Blurry.
func (qs *QualityScorer) ClassifyBlur(sharpness float64) BlurLevel {
	switch {
	case sharpness > qs.thresholds.SharpAbove:
		return BlurSharp
	case sharpness > qs.thresholds.ModeratelySharpAbove:
		return BlurModeratelySharp
	default:
		return BlurBlurry
	}
}

// ClassifyNoise maps a noise estimate to a noise level
func (qs *QualityScorer) ClassifyNoise(noise float64) NoiseLevel {
	switch {
	case noise < qs.thresholds.LowNoiseBelow:
		return NoiseLow
	case noise < qs.thresholds.MediumNoiseBelow:
		return NoiseMedium
	default:
		return NoiseHigh
	}
}

// Score classifies an image from its sharpness, its Laplacian response
// and its grayscale plane.
func (qs *QualityScorer) Score(sharpness float64, laplacian []float64, gray *image.Gray) QualityAssessment {
	noise := EstimateNoise(laplacian)
	return QualityAssessment{
		BlurLevel:    qs.ClassifyBlur(sharpness),
		BlurScore:    sharpness,
		NoiseLevel:   qs.ClassifyNoise(noise),
		NoiseScore:   noise,
		DynamicRange: DynamicRange(gray),
	}
}

// EstimateNoise is the population standard deviation of a Laplacian response
func EstimateNoise(laplacian []float64) float64 {
	if len(laplacian) == 0 {
		return 0
	}
	return math.Sqrt(stat.PopVariance(laplacian, nil))
}

// DynamicRange returns max(gray) - min(gray)
func DynamicRange(gray *image.Gray) int {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return 0
	}

	lo, hi := uint8(255), uint8(0)
	for y := 0; y < height; y++ {
		for _, v := range gray.Pix[y*gray.Stride : y*gray.Stride+width] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return int(hi) - int(lo)
}
