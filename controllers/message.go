package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rshetty-dev/stayfinder/config"
	"github.com/rshetty-dev/stayfinder/models"
)

// MessageHost sends a message to the host of a property. The first message
// opens a conversation; later ones append to its message log.
func MessageHost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		propertyID := mux.Vars(r)["propertyId"]

		var req struct {
			Message string `json:"message" validate:"required"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Message is required", http.StatusBadRequest)
			return
		}

		var property models.Property
		err := config.PropertyCollection.FindOne(r.Context(), bson.M{"id": propertyID}).Decode(&property)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				log.Printf("No host found with property id %s", propertyID)
				http.Error(w, "Host not found", http.StatusNotFound)
			} else {
				log.Printf("Error fetching property %s: %v", propertyID, err)
				http.Error(w, "Error fetching property", http.StatusInternalServerError)
			}
			return
		}

		now := time.Now()
		chatMessage := models.ChatMessage{SenderID: userID, Content: req.Message, SentAt: now}

		filter := bson.M{"propertyId": propertyID, "hostId": property.CreatedBy, "senderId": userID}
		update := bson.M{
			"$push": bson.M{"messages": chatMessage},
			"$set":  bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{
				"propertyId": propertyID,
				"hostId":     property.CreatedBy,
				"senderId":   userID,
				"createdAt":  now,
			},
		}

		_, err = config.ConversationCollection.UpdateOne(r.Context(), filter, update, options.Update().SetUpsert(true))
		if err != nil {
			log.Printf("Error saving message: %v", err)
			http.Error(w, "Failed to send message", http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(Response{Message: "Message sent successfully!"})
	}
}

// GetConversations lists every conversation the user takes part in, as
// guest or host, most recently active first.
func GetConversations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		filter := bson.M{"$or": bson.A{
			bson.M{"senderId": userID},
			bson.M{"hostId": userID},
		}}

		cursor, err := config.ConversationCollection.Find(r.Context(), filter)
		if err != nil {
			log.Printf("Error fetching conversations for user %s: %v", userID, err)
			http.Error(w, "Error fetching conversations", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var conversations []models.Conversation
		if err := cursor.All(r.Context(), &conversations); err != nil {
			log.Printf("Error decoding conversations: %v", err)
			http.Error(w, "Error decoding conversations", http.StatusInternalServerError)
			return
		}

		if len(conversations) == 0 {
			http.Error(w, "No conversations found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(conversations)
	}
}

// AppendMessage adds a message to an existing conversation by chat id.
func AppendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		var req struct {
			ChatID  string `json:"chatId" validate:"required"`
			Message string `json:"message" validate:"required"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "chatId and message are required", http.StatusBadRequest)
			return
		}

		objID, err := primitive.ObjectIDFromHex(req.ChatID)
		if err != nil {
			http.Error(w, "Invalid chat ID", http.StatusBadRequest)
			return
		}

		now := time.Now()
		// Only a participant may append.
		filter := bson.M{
			"_id": objID,
			"$or": bson.A{
				bson.M{"senderId": userID},
				bson.M{"hostId": userID},
			},
		}
		update := bson.M{
			"$push": bson.M{"messages": models.ChatMessage{SenderID: userID, Content: req.Message, SentAt: now}},
			"$set":  bson.M{"updatedAt": now},
		}

		res, err := config.ConversationCollection.UpdateOne(r.Context(), filter, update)
		if err != nil {
			log.Printf("Error appending message to conversation %s: %v", req.ChatID, err)
			http.Error(w, "Failed to send message", http.StatusInternalServerError)
			return
		}
		if res.MatchedCount == 0 {
			http.Error(w, "Conversation not found", http.StatusNotFound)
			return
		}

		json.NewEncoder(w).Encode(Response{Message: "Message sent successfully!"})
	}
}
