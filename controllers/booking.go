package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rshetty-dev/stayfinder/config"
	"github.com/rshetty-dev/stayfinder/models"
	"github.com/rshetty-dev/stayfinder/recommender"
)

type bookingRequest struct {
	PropertyID  string  `json:"bookedPropertyId" validate:"required"`
	StartDate   string  `json:"bookingStartDate" validate:"required"`
	EndDate     string  `json:"bookingEndDate" validate:"required"`
	TotalGuests int     `json:"totalGuests" validate:"min=1"`
	TotalCost   float64 `json:"totalCost" validate:"min=0"`
}

// CreateBooking books a stay after confirming no active booking overlaps
// the requested window.
func CreateBooking(engine *recommender.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		var req bookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Invalid booking payload: %v", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			log.Printf("Invalid booking data: %v", err)
			http.Error(w, "Invalid booking data", http.StatusBadRequest)
			return
		}

		start, errS := time.Parse("2006-01-02", req.StartDate)
		end, errE := time.Parse("2006-01-02", req.EndDate)
		if errS != nil || errE != nil || end.Before(start) {
			http.Error(w, "Invalid booking dates", http.StatusBadRequest)
			return
		}

		err := config.PropertyCollection.FindOne(r.Context(), bson.M{"id": req.PropertyID}).Err()
		if err != nil {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		if !engine.IsAvailable(r.Context(), req.PropertyID, start, end) {
			http.Error(w, "Property is not available for the selected dates", http.StatusConflict)
			return
		}

		booking := models.Booking{
			PropertyID:  req.PropertyID,
			UserID:      userID,
			StartDate:   start,
			EndDate:     end,
			TotalGuests: req.TotalGuests,
			TotalPrice:  req.TotalCost,
			Status:      models.BookingConfirmed,
			CreatedAt:   time.Now(),
		}

		if _, err := config.BookingCollection.InsertOne(r.Context(), booking); err != nil {
			log.Printf("Insert failed for booking: %v", err)
			http.Error(w, "Failed to create booking", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Response{Message: "Booking successful!"})
	}
}

func GetBookings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		cursor, err := config.BookingCollection.Find(r.Context(), bson.M{"userId": userID})
		if err != nil {
			log.Printf("Error fetching bookings for user %s: %v", userID, err)
			http.Error(w, "Error fetching bookings", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var bookings []models.Booking
		if err := cursor.All(r.Context(), &bookings); err != nil {
			log.Printf("Error decoding bookings: %v", err)
			http.Error(w, "Error decoding bookings", http.StatusInternalServerError)
			return
		}

		if len(bookings) == 0 {
			http.Error(w, "No bookings found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"bookedPropertyDetail": bookings})
	}
}

func DeleteBooking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		bookingID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(bookingID)
		if err != nil {
			http.Error(w, "Invalid booking ID", http.StatusBadRequest)
			return
		}

		res, err := config.BookingCollection.DeleteOne(r.Context(), bson.M{"_id": objID, "userId": userID})
		if err != nil {
			log.Printf("Delete failed for booking %s: %v", bookingID, err)
			http.Error(w, "Delete failed", http.StatusInternalServerError)
			return
		}
		if res.DeletedCount == 0 {
			http.Error(w, "Booking with given id was not found", http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode(Response{Message: "Booking deleted successfully"})
	}
}

// DeleteExpiredBookings removes the caller's bookings, from a supplied id
// list, whose end date has passed. Bookings still in the future are left
// untouched.
func DeleteExpiredBookings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		var req struct {
			BookingIDs []string `json:"bookingIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.BookingIDs) == 0 {
			http.Error(w, "No booking IDs provided", http.StatusBadRequest)
			return
		}

		objIDs := make([]primitive.ObjectID, 0, len(req.BookingIDs))
		for _, id := range req.BookingIDs {
			objID, err := primitive.ObjectIDFromHex(id)
			if err != nil {
				http.Error(w, "Invalid booking ID: "+id, http.StatusBadRequest)
				return
			}
			objIDs = append(objIDs, objID)
		}

		cursor, err := config.BookingCollection.Find(r.Context(), bson.M{
			"_id":    bson.M{"$in": objIDs},
			"userId": userID,
		})
		if err != nil {
			log.Printf("Error fetching bookings for expiry cleanup: %v", err)
			http.Error(w, "Error fetching bookings", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var bookings []models.Booking
		if err := cursor.All(r.Context(), &bookings); err != nil {
			log.Printf("Error decoding bookings for expiry cleanup: %v", err)
			http.Error(w, "Error decoding bookings", http.StatusInternalServerError)
			return
		}
		if len(bookings) == 0 {
			http.Error(w, "No valid bookings found", http.StatusBadRequest)
			return
		}

		now := time.Now()
		var expiredIDs []primitive.ObjectID
		for _, b := range bookings {
			if now.After(b.EndDate) {
				expiredIDs = append(expiredIDs, b.ID)
			}
		}

		if len(expiredIDs) == 0 {
			http.Error(w, "No bookings have expired. Nothing to delete.", http.StatusBadRequest)
			return
		}

		res, err := config.BookingCollection.DeleteMany(r.Context(), bson.M{
			"_id":    bson.M{"$in": expiredIDs},
			"userId": userID,
		})
		if err != nil {
			log.Printf("Error deleting expired bookings: %v", err)
			http.Error(w, "Failed to delete expired bookings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":      "Expired bookings deleted successfully",
			"deletedCount": res.DeletedCount,
		})
	}
}
