package recommender

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rshetty-dev/stayfinder/models"
)

// GetRecommendations produces the ranked recommendation feed for a user.
// When checkIn and checkOut are both given, properties booked anywhere in
// that range are excluded up front. Per-candidate failures degrade to
// neutral values and never abort the batch; only a preferences or candidate
// fetch failure fails the whole request.
func (e *Engine) GetRecommendations(ctx context.Context, userID string, checkIn, checkOut *time.Time) (*models.RecommendationResponse, error) {
	prefs, err := e.store.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit := int64(2 * e.cfg.MaxRecommendations)
	candidates, err := e.store.ListCandidates(ctx, userID, checkIn, checkOut, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate properties: %w", err)
	}

	results := make([]*models.RecommendationCandidate, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i := range candidates {
		i := i
		g.Go(func() error {
			results[i] = e.scoreCandidate(gctx, userID, *prefs, candidates[i])
			return nil
		})
	}
	// Tasks report failures through fallback values, never through errors.
	_ = g.Wait()

	recommended := make([]models.RecommendationCandidate, 0, len(results))
	for _, c := range results {
		if c != nil {
			recommended = append(recommended, *c)
		}
	}

	// Stable sort keeps fetch order among equal scores, so a single run is
	// deterministic.
	sort.SliceStable(recommended, func(i, j int) bool {
		return recommended[i].HybridScore > recommended[j].HybridScore
	})
	if len(recommended) > e.cfg.MaxRecommendations {
		recommended = recommended[:e.cfg.MaxRecommendations]
	}

	meta := models.RecommendationMeta{
		Total:       len(recommended),
		GeneratedAt: time.Now().UTC(),
	}
	if checkIn != nil && checkOut != nil {
		meta.DateRange = []string{
			checkIn.Format("2006-01-02"),
			checkOut.Format("2006-01-02"),
		}
	}

	return &models.RecommendationResponse{
		RecommendedProperties: recommended,
		Meta:                  meta,
	}, nil
}

// scoreCandidate runs the per-property work: collaborative score, signed
// image URLs and the availability window, issued concurrently and joined.
// It returns nil when the property lacks the minimum open inventory.
func (e *Engine) scoreCandidate(ctx context.Context, userID string, prefs models.Preference, prop models.Property) *models.RecommendationCandidate {
	var (
		collabScore    float64
		imageURLs      []string
		availableDates []time.Time
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		collabScore = e.CollaborativeScore(ctx, userID, prop.PropID)
	}()
	go func() {
		defer wg.Done()
		imageURLs = e.signImageURLs(ctx, prop.ImageKeys)
	}()
	go func() {
		defer wg.Done()
		availableDates = e.AvailableDates(ctx, prop.PropID, e.cfg.LookaheadDays)
	}()
	wg.Wait()

	if len(availableDates) < e.cfg.MinAvailableDays {
		return nil
	}

	candidate := &models.RecommendationCandidate{
		Property:           prop,
		ImageURLs:          imageURLs,
		AvailableDates:     availableDates,
		CollaborativeScore: collabScore,
	}
	if len(availableDates) > 0 {
		candidate.NextAvailableDate = &availableDates[0]
	}

	contentScore := ContentScore(prop, prefs, e.cfg.PriceThreshold)
	candidate.HybridScore = HybridScore(contentScore, collabScore, prop.ReviewCount)

	// The raw keys are replaced by the temporary URLs in the response.
	candidate.ImageKeys = nil

	return candidate
}

// signImageURLs materializes temporary access URLs for at most the first
// MaxImageURLs image keys. A signing failure degrades to no URLs for this
// property only.
func (e *Engine) signImageURLs(ctx context.Context, keys []string) []string {
	if e.signer == nil || len(keys) == 0 {
		return []string{}
	}
	if len(keys) > e.cfg.MaxImageURLs {
		keys = keys[:e.cfg.MaxImageURLs]
	}

	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := e.signer.SignGetURL(ctx, key, e.cfg.URLExpiry)
		if err != nil {
			log.Printf("Error generating signed URL for key %s: %v", key, err)
			return []string{}
		}
		urls = append(urls, url)
	}
	return urls
}
