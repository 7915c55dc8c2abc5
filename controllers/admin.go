package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rshetty-dev/stayfinder/config"
	"github.com/rshetty-dev/stayfinder/events"
	"github.com/rshetty-dev/stayfinder/models"
)

// GetPendingListings returns every listing awaiting review.
func GetPendingListings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, err := config.PendingPropertyCollection.Find(r.Context(), bson.M{"status": models.ListingPending})
		if err != nil {
			log.Printf("Error fetching pending listings: %v", err)
			http.Error(w, "Error fetching pending listings", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var listings []models.PendingProperty
		if err := cursor.All(r.Context(), &listings); err != nil {
			log.Printf("Error decoding pending listings: %v", err)
			http.Error(w, "Error decoding pending listings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(listings)
	}
}

// ApproveListing moves a pending listing into the live properties
// collection and announces it downstream.
func ApproveListing(redisClient *redis.Client, publisher *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pendingID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(pendingID)
		if err != nil {
			http.Error(w, "Invalid listing ID", http.StatusBadRequest)
			return
		}

		var pending models.PendingProperty
		err = config.PendingPropertyCollection.FindOne(r.Context(), bson.M{"_id": objID, "status": models.ListingPending}).Decode(&pending)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				http.Error(w, "Pending listing not found", http.StatusNotFound)
			} else {
				log.Printf("Error fetching pending listing %s: %v", pendingID, err)
				http.Error(w, "Error fetching pending listing", http.StatusInternalServerError)
			}
			return
		}

		if _, err := config.PropertyCollection.InsertOne(r.Context(), pending.Property); err != nil {
			log.Printf("Error approving listing %s: %v", pendingID, err)
			http.Error(w, "Failed to approve listing", http.StatusInternalServerError)
			return
		}

		if _, err := config.PendingPropertyCollection.DeleteOne(r.Context(), bson.M{"_id": objID}); err != nil {
			log.Printf("Error removing approved listing %s from pending queue: %v", pendingID, err)
		}

		go func() {
			deletePropertyCache(redisClient)
			publisher.Publish(events.PropertyEvent{Action: events.ActionCreate, PropertyID: pending.PropID})
		}()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Listing approved"})
	}
}

// RejectListing marks a pending listing rejected with a reason the host can
// read.
func RejectListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pendingID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(pendingID)
		if err != nil {
			http.Error(w, "Invalid listing ID", http.StatusBadRequest)
			return
		}

		var req struct {
			Reason string `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		res, err := config.PendingPropertyCollection.UpdateOne(r.Context(),
			bson.M{"_id": objID, "status": models.ListingPending},
			bson.M{"$set": bson.M{"status": models.ListingRejected, "reason": req.Reason}},
		)
		if err != nil {
			log.Printf("Error rejecting listing %s: %v", pendingID, err)
			http.Error(w, "Failed to reject listing", http.StatusInternalServerError)
			return
		}
		if res.MatchedCount == 0 {
			http.Error(w, "Pending listing not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Listing rejected"})
	}
}
