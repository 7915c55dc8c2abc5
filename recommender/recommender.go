// Package recommender ranks candidate properties for a user by blending a
// content-based score over the user's stated preferences with a
// collaborative score predicted from similar users' ratings. Everything is
// computed per request at read time; nothing is precomputed or cached.
package recommender

import (
	"context"
	"errors"
	"time"

	"github.com/rshetty-dev/stayfinder/models"
)

// ErrPreferencesNotSet is returned when the user has no stored preferences.
// Recommendations require an explicit taste profile, there is no default.
var ErrPreferencesNotSet = errors.New("no preferences found for user")

// Store is the read-only data access the engine needs. All methods are safe
// for concurrent use; the engine never writes.
type Store interface {
	GetPreferences(ctx context.Context, userID string) (*models.Preference, error)
	// ListCandidates returns up to limit properties the user has not
	// reviewed, excluding ones with an active booking overlapping
	// [checkIn, checkOut] when both are given. Candidates carry
	// averageRating, reviewCount and nextBookingDate.
	ListCandidates(ctx context.Context, userID string, checkIn, checkOut *time.Time, limit int64) ([]models.Property, error)
	ListBookings(ctx context.Context, propertyID string) ([]models.Booking, error)
	ListReviewsByUser(ctx context.Context, userID string) ([]models.Review, error)
	ListReviewsByProperty(ctx context.Context, propertyID string) ([]models.Review, error)
	// ListReviewsForProperties returns every review on any of the given
	// properties, across all users.
	ListReviewsForProperties(ctx context.Context, propertyIDs []string) ([]models.Review, error)
}

// URLSigner mints temporary access URLs for stored images.
type URLSigner interface {
	SignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Config struct {
	MaxRecommendations  int           // result size cap
	LookaheadDays       int           // availability window length
	MinAvailableDays    int           // candidates with fewer open days are dropped
	MaxImageURLs        int           // signed URLs per property
	URLExpiry           time.Duration // signed URL lifetime
	MinCommonItems      int           // co-rated properties needed for similarity
	SimilarityThreshold float64       // Pearson correlation floor
	PriceThreshold      float64       // price distance at which the price sub-score hits 0
	Concurrency         int           // candidate fan-out bound
}

func DefaultConfig() Config {
	return Config{
		MaxRecommendations:  20,
		LookaheadDays:       30,
		MinAvailableDays:    1,
		MaxImageURLs:        5,
		URLExpiry:           time.Hour,
		MinCommonItems:      3,
		SimilarityThreshold: 0.3,
		PriceThreshold:      1000,
		Concurrency:         8,
	}
}

type Engine struct {
	store  Store
	signer URLSigner
	cfg    Config
}

func New(store Store, signer URLSigner, cfg Config) *Engine {
	if cfg.MaxRecommendations <= 0 {
		cfg.MaxRecommendations = 20
	}
	if cfg.LookaheadDays <= 0 {
		cfg.LookaheadDays = 30
	}
	if cfg.MinAvailableDays <= 0 {
		cfg.MinAvailableDays = 1
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	return &Engine{store: store, signer: signer, cfg: cfg}
}
