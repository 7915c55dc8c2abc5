package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/rshetty-dev/stayfinder/recommender"
)

type recommendationRequest struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

// GetRecommendations serves the personalized feed. Preferences are a hard
// precondition; their absence is reported explicitly, never silently
// defaulted.
func GetRecommendations(engine *recommender.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		// An empty body means no date filter.
		var req recommendationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		var checkIn, checkOut *time.Time
		if req.CheckIn != "" && req.CheckOut != "" {
			in, errIn := time.Parse("2006-01-02", req.CheckIn)
			out, errOut := time.Parse("2006-01-02", req.CheckOut)
			if errIn != nil || errOut != nil || out.Before(in) {
				http.Error(w, "Invalid date range, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			checkIn, checkOut = &in, &out
		}

		resp, err := engine.GetRecommendations(r.Context(), userID, checkIn, checkOut)
		if err != nil {
			if errors.Is(err, recommender.ErrPreferencesNotSet) {
				http.Error(w, "Please set your preferences before requesting recommendations", http.StatusNotFound)
				return
			}
			log.Printf("Error generating recommendations for user %s: %v", userID, err)
			http.Error(w, "Unable to generate recommendations at this time", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
