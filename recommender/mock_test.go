package recommender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rshetty-dev/stayfinder/models"
)

var errStoreDown = errors.New("store unavailable")

// mockStore is an in-memory Store for tests. Set the fail* flags to make a
// method return an error.
type mockStore struct {
	prefs      map[string]*models.Preference
	candidates []models.Property
	bookings   map[string][]models.Booking
	reviews    []models.Review

	failPreferences bool
	failCandidates  bool
	failBookings    map[string]bool
	failReviews     bool
}

func newMockStore() *mockStore {
	return &mockStore{
		prefs:        make(map[string]*models.Preference),
		bookings:     make(map[string][]models.Booking),
		failBookings: make(map[string]bool),
	}
}

func (m *mockStore) GetPreferences(_ context.Context, userID string) (*models.Preference, error) {
	if m.failPreferences {
		return nil, errStoreDown
	}
	pref, ok := m.prefs[userID]
	if !ok {
		return nil, ErrPreferencesNotSet
	}
	return pref, nil
}

func (m *mockStore) ListCandidates(_ context.Context, _ string, _, _ *time.Time, limit int64) ([]models.Property, error) {
	if m.failCandidates {
		return nil, errStoreDown
	}
	if int64(len(m.candidates)) > limit {
		return m.candidates[:limit], nil
	}
	return m.candidates, nil
}

func (m *mockStore) ListBookings(_ context.Context, propertyID string) ([]models.Booking, error) {
	if m.failBookings[propertyID] {
		return nil, errStoreDown
	}
	return m.bookings[propertyID], nil
}

func (m *mockStore) ListReviewsByUser(_ context.Context, userID string) ([]models.Review, error) {
	if m.failReviews {
		return nil, errStoreDown
	}
	var out []models.Review
	for _, r := range m.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) ListReviewsByProperty(_ context.Context, propertyID string) ([]models.Review, error) {
	if m.failReviews {
		return nil, errStoreDown
	}
	var out []models.Review
	for _, r := range m.reviews {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) ListReviewsForProperties(_ context.Context, propertyIDs []string) ([]models.Review, error) {
	if m.failReviews {
		return nil, errStoreDown
	}
	wanted := make(map[string]bool, len(propertyIDs))
	for _, id := range propertyIDs {
		wanted[id] = true
	}
	var out []models.Review
	for _, r := range m.reviews {
		if wanted[r.PropertyID] {
			out = append(out, r)
		}
	}
	return out, nil
}

// mockSigner signs deterministically and can fail per key.
type mockSigner struct {
	failKeys map[string]bool
}

func (m *mockSigner) SignGetURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if m.failKeys[key] {
		return "", errors.New("signing failed")
	}
	return "https://signed.example.com/" + key, nil
}

func day(offset int) time.Time {
	y, mo, d := time.Now().UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func review(userID, propertyID string, rating float64) models.Review {
	return models.Review{UserID: userID, PropertyID: propertyID, Rating: rating}
}

func property(id string, price float64, region, propType string) models.Property {
	return models.Property{
		PropID:    id,
		Title:     fmt.Sprintf("Property %s", id),
		Price:     price,
		Region:    region,
		Type:      propType,
		ImageKeys: []string{id + "/cover.jpg"},
	}
}
