package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatMessage struct {
	SenderID string    `bson:"senderId" json:"senderId"`
	Content  string    `bson:"content" json:"content"`
	SentAt   time.Time `bson:"sentAt" json:"sentAt"`
}

// Conversation is the message thread between a guest and the host of one
// property. Messages is an ordered append-only log.
type Conversation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"chatId"`
	PropertyID string             `bson:"propertyId" json:"propertyId"`
	HostID     string             `bson:"hostId" json:"hostId"`
	SenderID   string             `bson:"senderId" json:"senderId"`
	Messages   []ChatMessage      `bson:"messages" json:"messages"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
