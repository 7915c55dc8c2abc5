package recommender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshetty-dev/stayfinder/models"
)

func TestAvailableDatesExcludesBookedRange(t *testing.T) {
	store := newMockStore()
	// Five-day confirmed booking starting today, ten-day lookahead: the
	// first five days are taken, the rest of the window is open.
	store.bookings["p1"] = []models.Booking{
		{PropertyID: "p1", StartDate: day(0), EndDate: day(4), Status: models.BookingConfirmed},
	}
	engine := New(store, &mockSigner{}, DefaultConfig())

	dates := engine.AvailableDates(context.Background(), "p1", 10)

	assert.Len(t, dates, 6)
	assert.Equal(t, day(5), dates[0])
	assert.Equal(t, day(10), dates[len(dates)-1])
	for _, d := range dates {
		assert.False(t, d.Before(day(5)), "booked dates must be excluded")
	}
}

func TestAvailableDatesIgnoresCancelledAndRejected(t *testing.T) {
	store := newMockStore()
	store.bookings["p1"] = []models.Booking{
		{PropertyID: "p1", StartDate: day(0), EndDate: day(4), Status: models.BookingCancelled},
		{PropertyID: "p1", StartDate: day(5), EndDate: day(9), Status: models.BookingRejected},
	}
	engine := New(store, &mockSigner{}, DefaultConfig())

	dates := engine.AvailableDates(context.Background(), "p1", 10)

	// Whole window stays open: 11 days inclusive of both endpoints.
	assert.Len(t, dates, 11)
}

func TestAvailableDatesIgnoresBookingsOutsideWindow(t *testing.T) {
	store := newMockStore()
	store.bookings["p1"] = []models.Booking{
		{PropertyID: "p1", StartDate: day(40), EndDate: day(45), Status: models.BookingConfirmed},
		{PropertyID: "p1", StartDate: day(-10), EndDate: day(-6), Status: models.BookingConfirmed},
	}
	engine := New(store, &mockSigner{}, DefaultConfig())

	dates := engine.AvailableDates(context.Background(), "p1", 30)

	assert.Len(t, dates, 31)
}

func TestAvailableDatesFailsClosed(t *testing.T) {
	store := newMockStore()
	store.failBookings["p1"] = true
	engine := New(store, &mockSigner{}, DefaultConfig())

	dates := engine.AvailableDates(context.Background(), "p1", 30)

	assert.Empty(t, dates)
}

func TestAvailableDatesAscending(t *testing.T) {
	store := newMockStore()
	store.bookings["p1"] = []models.Booking{
		{PropertyID: "p1", StartDate: day(3), EndDate: day(3), Status: models.BookingPending},
		{PropertyID: "p1", StartDate: day(7), EndDate: day(8), Status: models.BookingConfirmed},
	}
	engine := New(store, &mockSigner{}, DefaultConfig())

	dates := engine.AvailableDates(context.Background(), "p1", 10)

	assert.Len(t, dates, 8)
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i].After(dates[i-1]), "dates must be ascending")
	}
}

func TestIsAvailable(t *testing.T) {
	store := newMockStore()
	store.bookings["p1"] = []models.Booking{
		{PropertyID: "p1", StartDate: day(10), EndDate: day(14), Status: models.BookingConfirmed},
		{PropertyID: "p1", StartDate: day(20), EndDate: day(24), Status: models.BookingCancelled},
	}
	engine := New(store, &mockSigner{}, DefaultConfig())
	ctx := context.Background()

	tests := []struct {
		name  string
		start int
		end   int
		want  bool
	}{
		{"fully before", 5, 8, true},
		{"fully after", 16, 18, true},
		{"contained in booking", 11, 12, false},
		{"spanning booking", 8, 16, false},
		{"touching booking start", 8, 10, false},
		{"touching booking end", 14, 16, false},
		{"over cancelled booking", 20, 24, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.IsAvailable(ctx, "p1", day(tt.start), day(tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAvailableFailsClosed(t *testing.T) {
	store := newMockStore()
	store.failBookings["p1"] = true
	engine := New(store, &mockSigner{}, DefaultConfig())

	assert.False(t, engine.IsAvailable(context.Background(), "p1", day(1), day(3)))
}
