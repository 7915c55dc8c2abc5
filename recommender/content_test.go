package recommender

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshetty-dev/stayfinder/models"
)

func TestContentScorePriceEdges(t *testing.T) {
	// Region and type deliberately mismatch so only the price term
	// contributes.
	pref := models.Preference{PreferredPrice: 2000, PreferredRegion: "coast", PreferredType: "villa"}

	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		{"exact match", 2000, 0.5},
		{"off by exactly the threshold", 3000, 0},
		{"off by double the threshold clamps at zero", 4000, 0},
		{"half the threshold away", 2500, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Property{Price: tt.price, Region: "inland", Type: "cabin"}
			got := ContentScore(p, pref, 1000)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestContentScoreFullMatch(t *testing.T) {
	pref := models.Preference{PreferredPrice: 150, PreferredRegion: "coast", PreferredType: "villa"}
	p := models.Property{Price: 150, Region: "coast", Type: "villa"}

	assert.InDelta(t, 1.0, ContentScore(p, pref, 1000), 1e-9)
}

func TestContentScoreBounds(t *testing.T) {
	prefs := []models.Preference{
		{PreferredPrice: 0},
		{PreferredPrice: 1e12, PreferredRegion: "coast", PreferredType: "villa"},
		{PreferredPrice: math.NaN()},
	}
	props := []models.Property{
		{Price: 0},
		{Price: math.NaN(), Region: "coast", Type: "villa"},
		{Price: math.Inf(1)},
		{Price: -500},
	}

	for _, pref := range prefs {
		for _, p := range props {
			got := ContentScore(p, pref, 1000)
			assert.False(t, math.IsNaN(got), "score must never be NaN")
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		}
	}
}

func TestContentScoreDeterministic(t *testing.T) {
	pref := models.Preference{PreferredPrice: 980, PreferredRegion: "coast", PreferredType: "villa"}
	p := models.Property{Price: 1234.56, Region: "coast", Type: "cabin"}

	first := ContentScore(p, pref, 1000)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ContentScore(p, pref, 1000))
	}
}

func TestHybridScoreHistoryWeight(t *testing.T) {
	content := 0.8
	collab := 2.5 // normalizes to 0.5

	// No review history ranks purely on content.
	assert.InDelta(t, 0.8, HybridScore(content, collab, 0), 1e-9)

	// A prolific reviewer ranks purely on collaborative signal.
	assert.InDelta(t, 0.5, HybridScore(content, collab, 100), 1e-9)
	assert.InDelta(t, 0.5, HybridScore(content, collab, 5000), 1e-9)

	// Halfway in between.
	assert.InDelta(t, 0.65, HybridScore(content, collab, 50), 1e-9)
}

func TestHybridScoreMonotonicInReviewCount(t *testing.T) {
	content := 0.2
	collab := 4.5 // collaborative pulls the score up

	prev := HybridScore(content, collab, 0)
	for count := 10; count <= 100; count += 10 {
		next := HybridScore(content, collab, count)
		assert.Greater(t, next, prev, "weight must shift toward collaborative as reviews grow")
		prev = next
	}
}

func TestHybridScoreRounding(t *testing.T) {
	got := HybridScore(0.333333, 0, 0)
	assert.Equal(t, 0.33, got)
}

func TestHybridScoreBounds(t *testing.T) {
	inputs := []struct {
		content float64
		collab  float64
		count   int
	}{
		{-1, -5, 0},
		{2, 10, 50},
		{math.NaN(), math.Inf(1), 100},
		{0.5, 6.2, -3},
	}
	for _, in := range inputs {
		got := HybridScore(in.content, in.collab, in.count)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}
