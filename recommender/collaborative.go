package recommender

import (
	"context"
	"log"
	"math"
)

// CollaborativeScore predicts the user's rating for a property from
// like-minded users. Similar users are those who rated at least
// MinCommonItems of the same properties with a Pearson correlation of at
// least SimilarityThreshold; their ratings on the target property are
// averaged weighted by similarity. When no similar user has rated the
// target, the property's global average rating is used; when nothing is
// known at all, the score is 0. The result stays on the raw [0,5] rating
// scale.
func (e *Engine) CollaborativeScore(ctx context.Context, userID, propertyID string) float64 {
	userReviews, err := e.store.ListReviewsByUser(ctx, userID)
	if err != nil {
		log.Printf("Error fetching reviews for user %s: %v", userID, err)
		return 0
	}

	userRatings := make(map[string]float64, len(userReviews))
	ratedIDs := make([]string, 0, len(userReviews))
	for _, r := range userReviews {
		if _, seen := userRatings[r.PropertyID]; !seen {
			ratedIDs = append(ratedIDs, r.PropertyID)
		}
		userRatings[r.PropertyID] = r.Rating
	}

	similarities := e.similarUsers(ctx, userID, userRatings, ratedIDs)

	propertyReviews, err := e.store.ListReviewsByProperty(ctx, propertyID)
	if err != nil {
		log.Printf("Error fetching reviews for property %s: %v", propertyID, err)
		return 0
	}

	var weightedSum, weightTotal float64
	for _, r := range propertyReviews {
		if sim, ok := similarities[r.UserID]; ok {
			weightedSum += r.Rating * sim
			weightTotal += sim
		}
	}
	if weightTotal > 0 {
		return weightedSum / weightTotal
	}

	// No similar user rated this property; fall back to its global average.
	if len(propertyReviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range propertyReviews {
		sum += r.Rating
	}
	return sum / float64(len(propertyReviews))
}

// similarUsers returns, for each other user who co-rated enough of the
// target user's properties, the Pearson correlation of their shared rating
// vectors, keeping only correlations at or above the threshold.
func (e *Engine) similarUsers(ctx context.Context, userID string, userRatings map[string]float64, ratedIDs []string) map[string]float64 {
	similarities := make(map[string]float64)
	if len(ratedIDs) == 0 {
		return similarities
	}

	coReviews, err := e.store.ListReviewsForProperties(ctx, ratedIDs)
	if err != nil {
		log.Printf("Error fetching co-ratings for user %s: %v", userID, err)
		return similarities
	}

	// Group other users' ratings on the shared properties.
	type pair struct{ mine, theirs float64 }
	shared := make(map[string][]pair)
	for _, r := range coReviews {
		if r.UserID == userID {
			continue
		}
		mine, ok := userRatings[r.PropertyID]
		if !ok {
			continue
		}
		shared[r.UserID] = append(shared[r.UserID], pair{mine: mine, theirs: r.Rating})
	}

	for otherID, pairs := range shared {
		if len(pairs) < e.cfg.MinCommonItems {
			continue
		}
		a := make([]float64, len(pairs))
		b := make([]float64, len(pairs))
		for i, p := range pairs {
			a[i] = p.mine
			b[i] = p.theirs
		}
		if sim := pearson(a, b); sim >= e.cfg.SimilarityThreshold {
			similarities[otherID] = sim
		}
	}
	return similarities
}

// pearson computes the Pearson correlation coefficient of two equal-length
// rating vectors. Vectors with zero variance have no defined correlation
// and yield 0.
func pearson(a, b []float64) float64 {
	n := float64(len(a))
	if n == 0 || len(a) != len(b) {
		return 0
	}

	var sumA, sumB float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}
	meanA := sumA / n
	meanB := sumB / n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
