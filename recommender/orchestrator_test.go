package recommender

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshetty-dev/stayfinder/models"
)

func TestGetRecommendationsRequiresPreferences(t *testing.T) {
	store := newMockStore()
	engine := New(store, &mockSigner{}, DefaultConfig())

	resp, err := engine.GetRecommendations(context.Background(), "u1", nil, nil)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrPreferencesNotSet)
}

func TestGetRecommendationsCandidateFetchFailure(t *testing.T) {
	store := newMockStore()
	store.prefs["u1"] = &models.Preference{UserID: "u1", PreferredPrice: 100}
	store.failCandidates = true
	engine := New(store, &mockSigner{}, DefaultConfig())

	resp, err := engine.GetRecommendations(context.Background(), "u1", nil, nil)

	assert.Nil(t, resp)
	assert.Error(t, err)
}

func TestGetRecommendationsRanksByHybridScore(t *testing.T) {
	store := newMockStore()
	store.prefs["u1"] = &models.Preference{
		UserID:          "u1",
		PreferredPrice:  100,
		PreferredRegion: "coast",
		PreferredType:   "villa",
	}
	// "best" matches everything, "middle" matches region only with price
	// halfway off, "far" matches nothing with price past the threshold.
	store.candidates = []models.Property{
		property("far", 1100, "inland", "cabin"),
		property("best", 100, "coast", "villa"),
		property("middle", 600, "coast", "cabin"),
	}
	engine := New(store, &mockSigner{}, DefaultConfig())

	resp, err := engine.GetRecommendations(context.Background(), "u1", nil, nil)
	require.NoError(t, err)

	require.Len(t, resp.RecommendedProperties, 3)
	assert.Equal(t, "best", resp.RecommendedProperties[0].PropID)
	assert.Equal(t, "middle", resp.RecommendedProperties[1].PropID)
	assert.Equal(t, "far", resp.RecommendedProperties[2].PropID)

	for i := 1; i < len(resp.RecommendedProperties); i++ {
		assert.GreaterOrEqual(t,
			resp.RecommendedProperties[i-1].HybridScore,
			resp.RecommendedProperties[i].HybridScore)
	}

	assert.Equal(t, 3, resp.Meta.Total)
	assert.False(t, resp.Meta.GeneratedAt.IsZero())
	assert.Nil(t, resp.Meta.DateRange)
}

func TestGetRecommendationsZeroHistoryEqualsContentScore(t *testing.T) {
	store := newMockStore()
	store.prefs["u1"] = &models.Preference{
		UserID:          "u1",
		PreferredPrice:  100,
		PreferredRegion: "coast",
		PreferredType:   "villa",
	}
	store.candidates = []models.Property{property("p1", 100, "coast", "villa")}
	engine := New(store, &mockSigner{}, DefaultConfig())

	resp, err := engine.GetRecommendations(context.Background(), "u1", nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.RecommendedProperties, 1)

	// ReviewCount is 0, so the hybrid score is the pure content score.
	assert.Equal(t, 1.0, resp.RecommendedProperties[0].HybridScore)
}

func TestGetRecommendationsSignsImageURLs(t *testing.T) {
	store := newMockStore()
	store.prefs["u1"] = &models.Preference{UserID: "u1", PreferredPrice: 100}
	prop := property("p1", 100, "coast", "villa")
	prop.ImageKeys = []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg", "g.jpg"}
	store.candidates = []models.Property{prop}
	engine := New(store, &mockSigner{}, DefaultConfig())

	resp, err := engine.GetRecommendations(context.Background(), "u1", nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.RecommendedProperties, 1)

	got := resp.RecommendedProperties[0]
	// Only the first five keys are signed; raw keys never leak out.
	require.Len(t, got.ImageURLs, 5)
	assert.Equal(t, "https://signed.example.com/a.jpg", got.ImageURLs[0])
	assert.Nil(t, got.ImageKeys)
}

func TestGetRecommendationsSigningFailureIsIsolated(t *testing.T) {
	store := newMockStore()
	store.prefs["u1"] = &models.Preference{UserID: "u1", PreferredPrice: 100}
	store.candidates = []models.Property{
		property("ok", 100, "coast", "villa"),
		property("broken", 100, "coast", "villa"),
	}
	signer := &mockSigner{failKeys: map[string]bool{"broken/cover.jpg": true}}
	engine := New(store, signer, DefaultConfig())

	resp, err := engine.GetRecommendations(context.Background(), "u1", nil, nil)
	require.NoError(t, err)

	require.Len(t, resp.RecommendedProperties, 2)
	for _, c := range resp.RecommendedProperties {
		switch c.PropID {
		case "ok":
			assert.Len(t, c.ImageURLs, 1)
		case "broken":
			// Signing failure degrades to no URLs for this property only.
			assert.Empty(t, c.ImageURLs)
		}
	}
}

func TestGetRecommendationsDropsFullyBookedProperties(t *testing.T) {
	store := newMockStore()
	store.prefs["u1"] = &models.Preference{UserID: "u1", PreferredPrice: 100}
	store.candidates = []models.Property{
		property("open", 100, "coast", "villa"),
		property("booked", 100, "coast", "villa"),
	}
	// Cover the whole 30-day lookahead window.
	store.bookings["booked"] = []models.Booking{
		{PropertyID: "booked", StartDate: day(0), EndDate: day(31), Status: models.BookingConfirmed},
	}
	engine := New(store, &mockSigner{}, DefaultConfig())

	resp, err := engine.GetRecommendations(context.Background(), "u1", nil, nil)
	require.NoError(t, err)

	require.Len(t, resp.RecommendedProperties, 1)
	assert.Equal(t, "open", resp.RecommendedProperties[0].PropID)
	require.NotNil(t, resp.RecommendedProperties[0].NextAvailableDate)
	assert.Equal(t, day(0), *resp.RecommendedProperties[0].NextAvailableDate)
}

func TestGetRecommendationsAvailabilityFailureDropsCandidate(t *testing.T) {
	store := newMockStore()
	store.prefs["u1"] = &models.Preference{UserID: "u1", PreferredPrice: 100}
	store.candidates = []models.Property{
		property("healthy", 100, "coast", "villa"),
		property("flaky", 100, "coast", "villa"),
	}
	store.failBookings["flaky"] = true
	engine := New(store, &mockSigner{}, DefaultConfig())

	resp, err := engine.GetRecommendations(context.Background(), "u1", nil, nil)
	require.NoError(t, err)

	// Availability fails closed, so the flaky candidate is dropped while
	// the rest of the batch survives.
	require.Len(t, resp.RecommendedProperties, 1)
	assert.Equal(t, "healthy", resp.RecommendedProperties[0].PropID)
}

func TestGetRecommendationsTruncatesToLimit(t *testing.T) {
	store := newMockStore()
	store.prefs["u1"] = &models.Preference{
		UserID:          "u1",
		PreferredPrice:  100,
		PreferredRegion: "coast",
		PreferredType:   "villa",
	}
	for i := 0; i < 40; i++ {
		store.candidates = append(store.candidates,
			property(fmt.Sprintf("p%02d", i), float64(100+10*i), "coast", "villa"))
	}
	engine := New(store, &mockSigner{}, DefaultConfig())

	resp, err := engine.GetRecommendations(context.Background(), "u1", nil, nil)
	require.NoError(t, err)

	assert.Len(t, resp.RecommendedProperties, 20)
	assert.Equal(t, 20, resp.Meta.Total)
	// Cheapest (closest to preferred price) first.
	assert.Equal(t, "p00", resp.RecommendedProperties[0].PropID)
}

func TestGetRecommendationsEchoesDateRange(t *testing.T) {
	store := newMockStore()
	store.prefs["u1"] = &models.Preference{UserID: "u1", PreferredPrice: 100}
	store.candidates = []models.Property{property("p1", 100, "coast", "villa")}
	engine := New(store, &mockSigner{}, DefaultConfig())

	checkIn := day(5)
	checkOut := day(9)
	resp, err := engine.GetRecommendations(context.Background(), "u1", &checkIn, &checkOut)
	require.NoError(t, err)

	assert.Equal(t, []string{
		checkIn.Format("2006-01-02"),
		checkOut.Format("2006-01-02"),
	}, resp.Meta.DateRange)
}
