package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rshetty-dev/stayfinder/config"
	"github.com/rshetty-dev/stayfinder/events"
	"github.com/rshetty-dev/stayfinder/models"
	"github.com/rshetty-dev/stayfinder/storage"
)

const (
	maxListingImages = 5
	imageURLExpiry   = time.Hour
)

// CreateListing accepts a multipart listing submission, uploads the images
// to S3 and queues the listing for admin review. Nothing becomes publicly
// visible until an admin approves it.
func CreateListing(images *storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			log.Printf("Error parsing multipart form: %v", err)
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}

		files := r.MultipartForm.File["propertyImages"]
		if len(files) == 0 || len(files) > maxListingImages {
			http.Error(w, fmt.Sprintf("Between 1 and %d images required", maxListingImages), http.StatusBadRequest)
			return
		}

		property, err := listingFromForm(r, userID)
		if err != nil {
			log.Printf("Invalid listing form data: %v", err)
			http.Error(w, "Invalid listing data", http.StatusBadRequest)
			return
		}

		imageKeys := make([]string, 0, len(files))
		for _, fileHeader := range files {
			file, err := fileHeader.Open()
			if err != nil {
				log.Printf("Error opening uploaded file: %v", err)
				http.Error(w, "Failed to read uploaded image", http.StatusInternalServerError)
				return
			}

			key := fmt.Sprintf("%s/%s-%s", userID, uuid.NewString(), fileHeader.Filename)
			err = images.Upload(r.Context(), key, file, fileHeader.Header.Get("Content-Type"))
			file.Close()
			if err != nil {
				log.Printf("Error uploading image %s: %v", key, err)
				http.Error(w, "Failed to upload image", http.StatusInternalServerError)
				return
			}
			imageKeys = append(imageKeys, key)
		}
		property.ImageKeys = imageKeys

		pending := models.PendingProperty{
			Property: property,
			Status:   models.ListingPending,
		}

		res, err := config.PendingPropertyCollection.InsertOne(r.Context(), pending)
		if err != nil {
			log.Printf("Insert failed for pending listing: %v", err)
			http.Error(w, "Failed to create listing", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":        "Listing submitted for review",
			"listingId":      res.InsertedID,
			"uploadedImages": imageKeys,
		})
	}
}

func listingFromForm(r *http.Request, userID string) (models.Property, error) {
	form := r.MultipartForm.Value

	get := func(key string) string {
		if vals := form[key]; len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	getFloat := func(key string) (float64, error) {
		v := get(key)
		if v == "" {
			return 0, nil
		}
		return strconv.ParseFloat(v, 64)
	}
	getInt := func(key string) (int, error) {
		v := get(key)
		if v == "" {
			return 0, nil
		}
		return strconv.Atoi(v)
	}

	price, err := getFloat("price")
	if err != nil {
		return models.Property{}, fmt.Errorf("invalid price: %w", err)
	}
	latitude, err := getFloat("latitude")
	if err != nil {
		return models.Property{}, fmt.Errorf("invalid latitude: %w", err)
	}
	longitude, err := getFloat("longitude")
	if err != nil {
		return models.Property{}, fmt.Errorf("invalid longitude: %w", err)
	}

	guests, err := getInt("guests")
	if err != nil {
		return models.Property{}, fmt.Errorf("invalid guests: %w", err)
	}
	bedrooms, err := getInt("bedrooms")
	if err != nil {
		return models.Property{}, fmt.Errorf("invalid bedrooms: %w", err)
	}
	beds, err := getInt("beds")
	if err != nil {
		return models.Property{}, fmt.Errorf("invalid beds: %w", err)
	}
	bathrooms, err := getInt("bathrooms")
	if err != nil {
		return models.Property{}, fmt.Errorf("invalid bathrooms: %w", err)
	}
	kitchens, err := getInt("kitchens")
	if err != nil {
		return models.Property{}, fmt.Errorf("invalid kitchens: %w", err)
	}

	var amenities []string
	if raw := get("amenities"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &amenities); err != nil {
			return models.Property{}, fmt.Errorf("invalid amenities: %w", err)
		}
	}

	objectID := primitive.NewObjectID()
	return models.Property{
		ID:           objectID,
		PropID:       objectID.Hex(),
		Title:        get("title"),
		Type:         get("propertyType"),
		Region:       get("propertyRegion"),
		Price:        price,
		Guests:       guests,
		Bedrooms:     bedrooms,
		Beds:         beds,
		Bathrooms:    bathrooms,
		Kitchens:     kitchens,
		SwimmingPool: get("swimmingPool") == "true",
		Amenities:    amenities,
		Location:     get("location"),
		Latitude:     latitude,
		Longitude:    longitude,
		CreatedBy:    userID,
		CreatedAt:    time.Now(),
	}, nil
}

// GetMyListings returns the host's approved listings with temporary image
// URLs.
func GetMyListings(images *storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		cursor, err := config.PropertyCollection.Find(r.Context(), bson.M{"createdBy": userID})
		if err != nil {
			log.Printf("Error fetching listings for user %s: %v", userID, err)
			http.Error(w, "Error fetching listings", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var listings []models.Property
		if err := cursor.All(r.Context(), &listings); err != nil {
			log.Printf("Error decoding listings: %v", err)
			http.Error(w, "Error decoding listings", http.StatusInternalServerError)
			return
		}

		if len(listings) == 0 {
			http.Error(w, "No listings found for this user", http.StatusNotFound)
			return
		}

		type listingWithURLs struct {
			models.Property
			ImageURLs []string `json:"imageUrls"`
		}

		out := make([]listingWithURLs, 0, len(listings))
		for _, listing := range listings {
			urls := signListingImages(r, images, listing.ImageKeys)
			listing.ImageKeys = nil
			out = append(out, listingWithURLs{Property: listing, ImageURLs: urls})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

// GetRejectedListings returns the host's listings still pending review or
// rejected by an admin.
func GetRejectedListings(images *storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		cursor, err := config.PendingPropertyCollection.Find(r.Context(), bson.M{"createdBy": userID})
		if err != nil {
			log.Printf("Error fetching pending listings for user %s: %v", userID, err)
			http.Error(w, "Error fetching listings", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var listings []models.PendingProperty
		if err := cursor.All(r.Context(), &listings); err != nil {
			log.Printf("Error decoding pending listings: %v", err)
			http.Error(w, "Error decoding listings", http.StatusInternalServerError)
			return
		}

		if len(listings) == 0 {
			http.Error(w, "No listings found for this user", http.StatusNotFound)
			return
		}

		for i := range listings {
			urls := signListingImages(r, images, listings[i].ImageKeys)
			listings[i].ImageKeys = urls
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(listings)
	}
}

// GetHostReservations lists bookings made against the host's properties.
func GetHostReservations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		propertyIDs, err := config.PropertyCollection.Distinct(r.Context(), "id", bson.M{"createdBy": userID})
		if err != nil {
			log.Printf("Error fetching host properties for %s: %v", userID, err)
			http.Error(w, "Error fetching reservations", http.StatusInternalServerError)
			return
		}
		if len(propertyIDs) == 0 {
			http.Error(w, "No booked properties found for this host", http.StatusNotFound)
			return
		}

		cursor, err := config.BookingCollection.Find(r.Context(), bson.M{"propertyId": bson.M{"$in": propertyIDs}})
		if err != nil {
			log.Printf("Error fetching reservations for host %s: %v", userID, err)
			http.Error(w, "Error fetching reservations", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var bookings []models.Booking
		if err := cursor.All(r.Context(), &bookings); err != nil {
			log.Printf("Error decoding reservations: %v", err)
			http.Error(w, "Error decoding reservations", http.StatusInternalServerError)
			return
		}

		if len(bookings) == 0 {
			http.Error(w, "No booked properties found for this host", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(bookings)
	}
}

func UpdateListing(redisClient *redis.Client, publisher *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		propertyID := mux.Vars(r)["id"]

		var updateData map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
			log.Printf("Invalid update data: %v", err)
			http.Error(w, "Invalid update data", http.StatusBadRequest)
			return
		}

		// Identity and ownership fields are immutable.
		delete(updateData, "_id")
		delete(updateData, "id")
		delete(updateData, "createdBy")
		delete(updateData, "createdAt")
		delete(updateData, "imageKeys")

		filter := bson.M{"id": propertyID, "createdBy": userID}
		update := bson.M{"$set": updateData}

		res, err := config.PropertyCollection.UpdateOne(r.Context(), filter, update)
		if err != nil {
			log.Printf("Update failed for property %s: %v", propertyID, err)
			http.Error(w, "Update failed", http.StatusInternalServerError)
			return
		}

		if res.MatchedCount == 0 {
			log.Printf("No property found with ID %s and createdBy %s, or unauthorized to update.", propertyID, userID)
			http.Error(w, "No property found or unauthorized", http.StatusForbidden)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
			publisher.Publish(events.PropertyEvent{Action: events.ActionUpdate, PropertyID: propertyID})
		}()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Listing updated successfully"})
	}
}

func DeleteListing(images *storage.ImageStore, redisClient *redis.Client, publisher *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		propertyID := mux.Vars(r)["id"]

		var property models.Property
		err := config.PropertyCollection.FindOne(r.Context(), bson.M{"id": propertyID, "createdBy": userID}).Decode(&property)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				http.Error(w, "Listing not found or unauthorized", http.StatusNotFound)
			} else {
				log.Printf("Error fetching listing %s: %v", propertyID, err)
				http.Error(w, "Error fetching listing", http.StatusInternalServerError)
			}
			return
		}

		for _, key := range property.ImageKeys {
			if err := images.Delete(r.Context(), key); err != nil {
				log.Printf("Error deleting image %s: %v", key, err)
			}
		}

		res, err := config.PropertyCollection.DeleteOne(r.Context(), bson.M{"id": propertyID, "createdBy": userID})
		if err != nil {
			log.Printf("Delete failed for property %s: %v", propertyID, err)
			http.Error(w, "Delete failed", http.StatusInternalServerError)
			return
		}
		if res.DeletedCount == 0 {
			http.Error(w, "No property found or unauthorized", http.StatusForbidden)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
			publisher.Publish(events.PropertyEvent{Action: events.ActionDelete, PropertyID: propertyID})
		}()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Listing deleted successfully"})
	}
}

func signListingImages(r *http.Request, images *storage.ImageStore, keys []string) []string {
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := images.SignGetURL(r.Context(), key, imageURLExpiry)
		if err != nil {
			log.Printf("Error generating signed URL for key %s: %v", key, err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
