package validation

import (
	"github.com/anime-shed/image-metrics-go/pkg/models"
)

// DefaultRecommendation is emitted when no rule fires
const DefaultRecommendation = "image appears well-balanced."

// Rule pairs a predicate over the metric set with the message it emits
type Rule struct {
	Name    string
	Applies func(m models.MetricSet) bool
	Message string
}

// RecommendationThresholds defines configurable thresholds for the default rules
type RecommendationThresholds struct {
	// Brightness thresholds
	MinBrightness float64
	MaxBrightness float64

	// Contrast threshold
	MinContrast float64

	// Sharpness (Laplacian variance) below which the image counts as blurry
	MinSharpness float64

	// Edge density thresholds, in percent
	MinEdgeDensity float64
	MaxEdgeDensity float64
}

// DefaultRecommendationThresholds returns the default recommendation thresholds
func DefaultRecommendationThresholds() RecommendationThresholds {
	return RecommendationThresholds{
		MinBrightness:  50.0,
		MaxBrightness:  200.0,
		MinContrast:    30.0,
		MinSharpness:   50.0,
		MinEdgeDensity: 1.0,
		MaxEdgeDensity: 15.0,
	}
}

// RulesFromThresholds builds the standard rule list. All comparisons are
// strict, so a metric sitting exactly on a threshold fires nothing.
func RulesFromThresholds(t RecommendationThresholds) []Rule {
	return []Rule{
		{
			Name:    "dark",
			Applies: func(m models.MetricSet) bool { return m.Brightness < t.MinBrightness },
			Message: "increase brightness (image appears dark)",
		},
		{
			Name:    "overexposed",
			Applies: func(m models.MetricSet) bool { return m.Brightness > t.MaxBrightness },
			Message: "reduce brightness (image appears overexposed)",
		},
		{
			Name:    "flat",
			Applies: func(m models.MetricSet) bool { return m.Contrast < t.MinContrast },
			Message: "increase contrast (image appears flat)",
		},
		{
			Name:    "blurry",
			Applies: func(m models.MetricSet) bool { return m.Sharpness < t.MinSharpness },
			Message: "image appears blurry — check focus/stability",
		},
		{
			Name:    "low_edge_density",
			Applies: func(m models.MetricSet) bool { return m.EdgeDensity < t.MinEdgeDensity },
			Message: "low edge density — image may lack detail",
		},
		{
			Name:    "high_edge_density",
			Applies: func(m models.MetricSet) bool { return m.EdgeDensity > t.MaxEdgeDensity },
			Message: "high edge density — many fine details",
		},
	}
}

// DefaultRules returns the standard rule list with default thresholds
func DefaultRules() []Rule {
	return RulesFromThresholds(DefaultRecommendationThresholds())
}

// RecommendationEngine evaluates an ordered list of independent rules
type RecommendationEngine struct {
	rules []Rule
}

// NewRecommendationEngine creates an engine with the default rules
func NewRecommendationEngine() *RecommendationEngine {
	return &RecommendationEngine{rules: DefaultRules()}
}

// NewRecommendationEngineWithRules creates an engine with custom rules
func NewRecommendationEngineWithRules(rules []Rule) *RecommendationEngine {
	return &RecommendationEngine{rules: append([]Rule(nil), rules...)}
}

// AddRule appends a rule; it is evaluated after the existing ones
func (re *RecommendationEngine) AddRule(rule Rule) {
	re.rules = append(re.rules, rule)
}

// Rules returns a copy of the rule list
func (re *RecommendationEngine) Rules() []Rule {
	return append([]Rule(nil), re.rules...)
}

// Evaluate returns the message of every rule that applies, in rule order.
// When none applies the result is exactly DefaultRecommendation.
func (re *RecommendationEngine) Evaluate(m models.MetricSet) []string {
	var messages []string
	for _, rule := range re.rules {
		if rule.Applies != nil && rule.Applies(m) {
			messages = append(messages, rule.Message)
		}
	}
	if len(messages) == 0 {
		return []string{DefaultRecommendation}
	}
	return messages
}
