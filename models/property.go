package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing status values for pending (not yet approved) properties.
const (
	ListingPending  = "pending"
	ListingRejected = "rejected"
)

type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PropID       string             `bson:"id" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Type         string             `bson:"type" json:"type"`
	Region       string             `bson:"region" json:"region"`
	Price        float64            `bson:"price" json:"price"`
	Guests       int                `bson:"guests" json:"guests"`
	Bedrooms     int                `bson:"bedrooms" json:"bedrooms"`
	Beds         int                `bson:"beds" json:"beds"`
	Bathrooms    int                `bson:"bathrooms" json:"bathrooms"`
	Kitchens     int                `bson:"kitchens" json:"kitchens"`
	SwimmingPool bool               `bson:"swimmingPool" json:"swimmingPool"`
	Amenities    []string           `bson:"amenities" json:"amenities"`
	ImageKeys    []string           `bson:"imageKeys" json:"imageKeys,omitempty"`
	Location     string             `bson:"location" json:"location"`
	Latitude     float64            `bson:"latitude" json:"latitude"`
	Longitude    float64            `bson:"longitude" json:"longitude"`
	CreatedBy    string             `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`

	// Derived at query time, never stored.
	AverageRating   float64    `bson:"averageRating,omitempty" json:"averageRating"`
	ReviewCount     int        `bson:"reviewCount,omitempty" json:"reviewCount"`
	NextBookingDate *time.Time `bson:"nextBookingDate,omitempty" json:"nextBookingDate,omitempty"`
}

// PendingProperty is a listing awaiting admin review. Approval moves it into
// the properties collection; rejection keeps it here with a reason so the
// host can see why.
type PendingProperty struct {
	Property `bson:",inline"`
	Status   string `bson:"status" json:"status"`
	Reason   string `bson:"reason,omitempty" json:"reason,omitempty"`
}
