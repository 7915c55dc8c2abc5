package recommender

import (
	"math"

	"github.com/rshetty-dev/stayfinder/models"
)

// Content score weights. They sum to 1 so the combined score stays in [0,1].
const (
	priceWeight  = 0.5
	regionWeight = 0.25
	typeWeight   = 0.25
)

// ContentScore measures how well a property matches the user's stated
// preferences. Price contributes linearly up to priceThreshold currency
// units of distance; region and type are exact-match signals.
func ContentScore(p models.Property, pref models.Preference, priceThreshold float64) float64 {
	price := sanitize(p.Price)
	prefPrice := sanitize(pref.PreferredPrice)

	priceScore := math.Max(0, 1-math.Abs(price-prefPrice)/priceThreshold)

	regionScore := 0.0
	if p.Region == pref.PreferredRegion {
		regionScore = 1
	}

	typeScore := 0.0
	if p.Type == pref.PreferredType {
		typeScore = 1
	}

	return priceScore*priceWeight + regionScore*regionWeight + typeScore*typeWeight
}

// HybridScore blends the content score with the collaborative score. The
// blend weight grows with the user's review history: at 0 reviews the result
// is pure content similarity, at 100 or more it is pure collaborative
// signal. The collaborative input is on the raw rating scale [0,5] and is
// rescaled here. The result is rounded to 2 decimal places.
func HybridScore(contentScore, collaborativeScore float64, reviewCount int) float64 {
	w := historyWeight(reviewCount)
	collab := clamp01(sanitize(collaborativeScore) / 5)
	content := clamp01(sanitize(contentScore))

	return round2(content*(1-w) + collab*w)
}

func historyWeight(reviewCount int) float64 {
	if reviewCount < 0 {
		reviewCount = 0
	}
	if reviewCount > 100 {
		reviewCount = 100
	}
	return float64(reviewCount) / 100
}

// sanitize coerces NaN and infinities to 0 so garbled price or rating data
// never propagates through the scores.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
