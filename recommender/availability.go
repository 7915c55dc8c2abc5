package recommender

import (
	"context"
	"log"
	"time"
)

// AvailableDates returns the calendar dates within [today, today+daysAhead]
// that are not covered by any active booking for the property, in ascending
// order. Only bookings starting inside the window count. A data access
// failure degrades to no available dates; availability fails closed.
func (e *Engine) AvailableDates(ctx context.Context, propertyID string, daysAhead int) []time.Time {
	bookings, err := e.store.ListBookings(ctx, propertyID)
	if err != nil {
		log.Printf("Error fetching bookings for property %s: %v", propertyID, err)
		return nil
	}

	today := truncateToDay(time.Now().UTC())
	windowEnd := today.AddDate(0, 0, daysAhead)

	booked := make(map[time.Time]bool)
	for _, b := range bookings {
		if !b.Occupies() {
			continue
		}
		start := truncateToDay(b.StartDate)
		if start.Before(today) || start.After(windowEnd) {
			continue
		}
		end := truncateToDay(b.EndDate)
		for d := start; !d.After(end) && !d.After(windowEnd); d = d.AddDate(0, 0, 1) {
			booked[d] = true
		}
	}

	var available []time.Time
	for d := today; !d.After(windowEnd); d = d.AddDate(0, 0, 1) {
		if !booked[d] {
			available = append(available, d)
		}
	}
	return available
}

// IsAvailable reports whether the property has no active booking whose
// interval intersects [start, end]. Intervals are closed: a booking ending
// on the requested check-in date still counts as a conflict. Errors degrade
// to unavailable.
func (e *Engine) IsAvailable(ctx context.Context, propertyID string, start, end time.Time) bool {
	bookings, err := e.store.ListBookings(ctx, propertyID)
	if err != nil {
		log.Printf("Error checking availability for property %s: %v", propertyID, err)
		return false
	}

	start = truncateToDay(start)
	end = truncateToDay(end)

	for _, b := range bookings {
		if !b.Occupies() {
			continue
		}
		if datesOverlap(start, end, truncateToDay(b.StartDate), truncateToDay(b.EndDate)) {
			return false
		}
	}
	return true
}

// datesOverlap is the closed-interval intersection test: touching endpoints
// overlap.
func datesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
