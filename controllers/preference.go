package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rshetty-dev/stayfinder/config"
	"github.com/rshetty-dev/stayfinder/models"
)

type preferenceRequest struct {
	PreferredType   string  `json:"preferredType" validate:"required"`
	PreferredRegion string  `json:"preferredRegion" validate:"required"`
	PreferredPrice  float64 `json:"preferredPrice" validate:"required,min=0"`
}

// SavePreferences stores the user's taste profile, replacing any earlier
// one. Preferences are only ever created through this explicit save.
func SavePreferences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		var req preferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			log.Printf("Invalid preference data: %v", err)
			http.Error(w, "Invalid preference data", http.StatusBadRequest)
			return
		}

		filter := bson.M{"userID": userID}
		update := bson.M{"$set": bson.M{
			"preferredType":   req.PreferredType,
			"preferredRegion": req.PreferredRegion,
			"preferredPrice":  req.PreferredPrice,
		}}

		_, err := config.PreferenceCollection.UpdateOne(r.Context(), filter, update, options.Update().SetUpsert(true))
		if err != nil {
			log.Printf("Error saving preferences for user %s: %v", userID, err)
			http.Error(w, "Failed to save preferences", http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(Response{Message: "Preferences saved"})
	}
}

func GetPreferences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		var pref models.Preference
		err := config.PreferenceCollection.FindOne(r.Context(), bson.M{"userID": userID}).Decode(&pref)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				http.Error(w, "No preferences found for user", http.StatusNotFound)
			} else {
				log.Printf("Error fetching preferences for user %s: %v", userID, err)
				http.Error(w, "Error fetching preferences", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pref)
	}
}
