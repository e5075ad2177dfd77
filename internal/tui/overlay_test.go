package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/pokertrainer/internal/domain"
)

func sampleBundle() *domain.AdvisoryBundle {
	amount := 40
	rec := func(name string) domain.Recommendation {
		return domain.Recommendation{
			Name:       name,
			Action:     domain.ActionCall,
			Rationale:  "Pot odds favor continuing.",
			Confidence: 0.5,
		}
	}
	b := &domain.AdvisoryBundle{
		EV:          rec("Expected Value"),
		MonteCarlo:  rec("Monte Carlo"),
		Kelly:       rec("Kelly Criterion"),
		RiskUtility: rec("Risk Utility"),
		GTO:         rec("GTO"),
	}
	b.Bayesian = domain.Recommendation{
		Name:       "Bayesian",
		Action:     domain.ActionRaise,
		Amount:     &amount,
		Rationale:  "Opponent range is capped.",
		Formula:    "P(H|E) = P(E|H) * P(H) / P(E)",
		Variables:  map[string]any{"prior": 0.3, "likelihood": 0.8},
		Steps:      []string{"Update prior with observed aggression", "Compare posterior to pot odds"},
		Confidence: 0.734,
	}
	return b
}

func TestConfidenceFormatting(t *testing.T) {
	tests := []struct {
		confidence float64
		compact    string
		detail     string
	}{
		{0.734, "73%", "73.4%"},
		{0.736, "74%", "73.6%"},
		{0, "0%", "0.0%"},
		{1, "100%", "100.0%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.compact, FormatConfidenceCompact(tt.confidence))
		assert.Equal(t, tt.detail, FormatConfidenceDetail(tt.confidence))
	}
}

func TestRenderOverlayNilBundle(t *testing.T) {
	out := renderOverlay(nil, NoExpansion)
	assert.Contains(t, out, "No recommendations")
}

func TestRenderOverlayCollapsedShowsAllSix(t *testing.T) {
	out := renderOverlay(sampleBundle(), NoExpansion)

	for _, name := range []string{
		"Expected Value", "Monte Carlo", "Bayesian", "Kelly Criterion", "Risk Utility", "GTO",
	} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "73%", "collapsed rows carry the rounded confidence")
	assert.NotContains(t, out, "Formula", "no detail body while collapsed")
	assert.Equal(t, domain.NumAdvisors, strings.Count(out, "+["), "every card collapsed")
}

func TestRenderOverlayExpandedDetail(t *testing.T) {
	out := renderOverlay(sampleBundle(), 2)

	assert.Contains(t, out, "-[c]", "expanded card flips its marker")
	assert.Contains(t, out, "Opponent range is capped.")
	assert.Contains(t, out, "P(H|E)")
	assert.Contains(t, out, "likelihood = 0.8")
	assert.Contains(t, out, "1. Update prior with observed aggression")
	assert.Contains(t, out, "73.4%", "expanded cards show one decimal")
	assert.Contains(t, out, "raise $40")
	assert.Equal(t, domain.NumAdvisors-1, strings.Count(out, "+["), "only one card expanded")
}

func TestToggleExpansionSinglePolicy(t *testing.T) {
	m := Model{expanded: NoExpansion}

	m.toggleExpansion(0)
	assert.Equal(t, 0, m.expanded)

	// Expanding a second card collapses the first.
	m.toggleExpansion(3)
	assert.Equal(t, 3, m.expanded)

	// Toggling the expanded card collapses it.
	m.toggleExpansion(3)
	assert.Equal(t, NoExpansion, m.expanded)
}
