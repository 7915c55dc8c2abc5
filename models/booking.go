package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingRejected  = "rejected"
)

type Booking struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID  string             `bson:"propertyId" json:"propertyId"`
	UserID      string             `bson:"userId" json:"userId"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"`
	TotalGuests int                `bson:"totalGuests" json:"totalGuests"`
	TotalPrice  float64            `bson:"totalPrice" json:"totalPrice"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Occupies reports whether the booking blocks dates on its property.
// Cancelled and rejected bookings never count as occupancy.
func (b Booking) Occupies() bool {
	return b.Status != BookingCancelled && b.Status != BookingRejected
}
