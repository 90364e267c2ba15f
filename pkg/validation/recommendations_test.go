package validation

import (
	"reflect"
	"testing"

	"github.com/anime-shed/image-metrics-go/pkg/models"
)

const (
	msgDark        = "increase brightness (image appears dark)"
	msgOverexposed = "reduce brightness (image appears overexposed)"
	msgFlat        = "increase contrast (image appears flat)"
	msgBlurry      = "image appears blurry — check focus/stability"
	msgLowEdges    = "low edge density — image may lack detail"
	msgHighEdges   = "high edge density — many fine details"
)

// balanced fires no default rule
func balanced() models.MetricSet {
	return models.MetricSet{
		Brightness:  120,
		Contrast:    60,
		EdgeDensity: 8,
		Sharpness:   300,
	}
}

func TestNewRecommendationEngine(t *testing.T) {
	engine := NewRecommendationEngine()
	if len(engine.Rules()) != 6 {
		t.Errorf("Expected 6 default rules, got %d", len(engine.Rules()))
	}
}

func TestEvaluate_Balanced(t *testing.T) {
	got := NewRecommendationEngine().Evaluate(balanced())
	if !reflect.DeepEqual(got, []string{DefaultRecommendation}) {
		t.Errorf("Expected only the default recommendation, got %v", got)
	}
}

func TestEvaluate_SingleRules(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(m *models.MetricSet)
		expected string
	}{
		{"dark", func(m *models.MetricSet) { m.Brightness = 20 }, msgDark},
		{"overexposed", func(m *models.MetricSet) { m.Brightness = 240 }, msgOverexposed},
		{"flat", func(m *models.MetricSet) { m.Contrast = 5 }, msgFlat},
		{"blurry", func(m *models.MetricSet) { m.Sharpness = 10 }, msgBlurry},
		{"low edge density", func(m *models.MetricSet) { m.EdgeDensity = 0.2 }, msgLowEdges},
		{"high edge density", func(m *models.MetricSet) { m.EdgeDensity = 40 }, msgHighEdges},
	}

	engine := NewRecommendationEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := balanced()
			tt.modify(&m)
			got := engine.Evaluate(m)
			if !reflect.DeepEqual(got, []string{tt.expected}) {
				t.Errorf("Expected [%s], got %v", tt.expected, got)
			}
		})
	}
}

func TestEvaluate_MultipleRulesKeepOrder(t *testing.T) {
	// A small white image: overexposed, flat, blurry and without edges
	m := models.MetricSet{Brightness: 255, Contrast: 0, Sharpness: 0, EdgeDensity: 0}
	expected := []string{msgOverexposed, msgFlat, msgBlurry, msgLowEdges}

	got := NewRecommendationEngine().Evaluate(m)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestEvaluate_ThresholdBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		modify func(m *models.MetricSet)
	}{
		{"brightness at lower bound", func(m *models.MetricSet) { m.Brightness = 50 }},
		{"brightness at upper bound", func(m *models.MetricSet) { m.Brightness = 200 }},
		{"contrast at bound", func(m *models.MetricSet) { m.Contrast = 30 }},
		{"sharpness at blur bound", func(m *models.MetricSet) { m.Sharpness = 50 }},
		{"sharpness at sharp bound", func(m *models.MetricSet) { m.Sharpness = 100 }},
		{"edge density at lower bound", func(m *models.MetricSet) { m.EdgeDensity = 1 }},
		{"edge density at upper bound", func(m *models.MetricSet) { m.EdgeDensity = 15 }},
	}

	engine := NewRecommendationEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := balanced()
			tt.modify(&m)
			got := engine.Evaluate(m)
			if !reflect.DeepEqual(got, []string{DefaultRecommendation}) {
				t.Errorf("Expected no rule to fire at the boundary, got %v", got)
			}
		})
	}
}

func TestAddRule(t *testing.T) {
	engine := NewRecommendationEngine()
	engine.AddRule(Rule{
		Name:    "noisy",
		Applies: func(m models.MetricSet) bool { return m.NoiseLevel > 20 },
		Message: "reduce noise",
	})

	m := balanced()
	m.NoiseLevel = 25
	m.Brightness = 10

	got := engine.Evaluate(m)
	expected := []string{msgDark, "reduce noise"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestNewRecommendationEngineWithRules(t *testing.T) {
	rules := []Rule{{Name: "never", Applies: func(models.MetricSet) bool { return false }, Message: "x"}}
	engine := NewRecommendationEngineWithRules(rules)

	// The engine owns its copy
	rules[0].Message = "changed"
	if engine.Rules()[0].Message != "x" {
		t.Error("Expected engine rules to be independent of the caller's slice")
	}

	got := engine.Evaluate(balanced())
	if !reflect.DeepEqual(got, []string{DefaultRecommendation}) {
		t.Errorf("Expected default recommendation, got %v", got)
	}

	// Rules without a predicate never fire
	engine.AddRule(Rule{Name: "broken", Message: "y"})
	if got := engine.Evaluate(balanced()); len(got) != 1 || got[0] != DefaultRecommendation {
		t.Errorf("Expected default recommendation, got %v", got)
	}
}

func TestRulesFromThresholds(t *testing.T) {
	thresholds := DefaultRecommendationThresholds()
	thresholds.MinBrightness = 100

	engine := NewRecommendationEngineWithRules(RulesFromThresholds(thresholds))
	m := balanced()
	m.Brightness = 90

	got := engine.Evaluate(m)
	if !reflect.DeepEqual(got, []string{msgDark}) {
		t.Errorf("Expected [%s], got %v", msgDark, got)
	}
}
