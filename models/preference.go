package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Preference is the user's stated taste profile. One row per user, saved
// explicitly; a user without one has no personalization signal.
type Preference struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          string             `bson:"userID" json:"userID"`
	PreferredType   string             `bson:"preferredType" json:"preferredType"`
	PreferredRegion string             `bson:"preferredRegion" json:"preferredRegion"`
	PreferredPrice  float64            `bson:"preferredPrice" json:"preferredPrice"`
}
