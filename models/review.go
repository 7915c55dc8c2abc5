package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID string             `bson:"propertyId" json:"propertyId"`
	UserID     string             `bson:"userId" json:"userId"`
	Rating     float64            `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
