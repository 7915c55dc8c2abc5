package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rshetty-dev/stayfinder/config"
	"github.com/rshetty-dev/stayfinder/models"
)

type reviewRequest struct {
	PropertyID string  `json:"propertyId" validate:"required"`
	Rating     float64 `json:"rating" validate:"required,min=1,max=5"`
	Comment    string  `json:"comment"`
}

// CreateReview records a rating. One review per user per property; a
// repeat submission replaces the earlier rating.
func CreateReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			log.Printf("Invalid review data: %v", err)
			http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
			return
		}

		err := config.PropertyCollection.FindOne(r.Context(), bson.M{"id": req.PropertyID}).Err()
		if err != nil {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		filter := bson.M{"propertyId": req.PropertyID, "userId": userID}
		update := bson.M{"$set": bson.M{
			"rating":    req.Rating,
			"comment":   req.Comment,
			"createdAt": time.Now(),
		}}
		opts := options.Update().SetUpsert(true)

		if _, err := config.ReviewCollection.UpdateOne(r.Context(), filter, update, opts); err != nil {
			log.Printf("Error saving review: %v", err)
			http.Error(w, "Failed to save review", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Response{Message: "Review saved"})
	}
}

func GetPropertyReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		cursor, err := config.ReviewCollection.Find(r.Context(), bson.M{"propertyId": propertyID})
		if err != nil {
			log.Printf("Error fetching reviews for property %s: %v", propertyID, err)
			http.Error(w, "Error fetching reviews", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var reviews []models.Review
		if err := cursor.All(r.Context(), &reviews); err != nil {
			log.Printf("Error decoding reviews: %v", err)
			http.Error(w, "Error decoding reviews", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reviews)
	}
}
