package recommender

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rshetty-dev/stayfinder/models"
)

// MongoStore implements Store over the marketplace's MongoDB collections.
type MongoStore struct {
	Properties  *mongo.Collection
	Bookings    *mongo.Collection
	Reviews     *mongo.Collection
	Preferences *mongo.Collection
}

func NewMongoStore(properties, bookings, reviews, preferences *mongo.Collection) *MongoStore {
	return &MongoStore{
		Properties:  properties,
		Bookings:    bookings,
		Reviews:     reviews,
		Preferences: preferences,
	}
}

func (s *MongoStore) GetPreferences(ctx context.Context, userID string) (*models.Preference, error) {
	var pref models.Preference
	err := s.Preferences.FindOne(ctx, bson.M{"userID": userID}).Decode(&pref)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPreferencesNotSet
	}
	if err != nil {
		return nil, fmt.Errorf("fetching preferences: %w", err)
	}
	return &pref, nil
}

func (s *MongoStore) ListCandidates(ctx context.Context, userID string, checkIn, checkOut *time.Time, limit int64) ([]models.Property, error) {
	excluded, err := s.Reviews.Distinct(ctx, "propertyId", bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("fetching reviewed properties: %w", err)
	}

	if checkIn != nil && checkOut != nil {
		booked, err := s.Bookings.Distinct(ctx, "propertyId", bson.M{
			"status":    bson.M{"$nin": bson.A{models.BookingCancelled, models.BookingRejected}},
			"startDate": bson.M{"$lte": *checkOut},
			"endDate":   bson.M{"$gte": *checkIn},
		})
		if err != nil {
			return nil, fmt.Errorf("fetching unavailable properties: %w", err)
		}
		excluded = append(excluded, booked...)
	}

	now := time.Now().UTC()
	pipeline := mongo.Pipeline{
		{
			{Key: "$match", Value: bson.M{"id": bson.M{"$nin": excluded}}},
		},
		{
			{Key: "$lookup", Value: bson.M{
				"from":         "reviews",
				"localField":   "id",
				"foreignField": "propertyId",
				"as":           "propReviews",
			}},
		},
		{
			{Key: "$lookup", Value: bson.M{
				"from":         "bookings",
				"localField":   "id",
				"foreignField": "propertyId",
				"as":           "propBookings",
			}},
		},
		{
			{Key: "$addFields", Value: bson.M{
				"averageRating": bson.M{"$ifNull": bson.A{bson.M{"$avg": "$propReviews.rating"}, 0}},
				"reviewCount":   bson.M{"$size": "$propReviews"},
				"nextBookingDate": bson.M{"$min": bson.M{"$map": bson.M{
					"input": bson.M{"$filter": bson.M{
						"input": "$propBookings",
						"as":    "b",
						"cond": bson.M{"$and": bson.A{
							bson.M{"$gte": bson.A{"$$b.startDate", now}},
							bson.M{"$not": bson.M{"$in": bson.A{"$$b.status", bson.A{models.BookingCancelled, models.BookingRejected}}}},
						}},
					}},
					"as": "b",
					"in": "$$b.startDate",
				}}},
			}},
		},
		{
			{Key: "$project", Value: bson.M{"propReviews": 0, "propBookings": 0}},
		},
		{
			{Key: "$limit", Value: limit},
		},
	}

	cursor, err := s.Properties.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var candidates []models.Property
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, fmt.Errorf("decoding candidates: %w", err)
	}
	return candidates, nil
}

func (s *MongoStore) ListBookings(ctx context.Context, propertyID string) ([]models.Booking, error) {
	cursor, err := s.Bookings.Find(ctx, bson.M{"propertyId": propertyID})
	if err != nil {
		return nil, fmt.Errorf("fetching bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decoding bookings: %w", err)
	}
	return bookings, nil
}

func (s *MongoStore) ListReviewsByUser(ctx context.Context, userID string) ([]models.Review, error) {
	return s.listReviews(ctx, bson.M{"userId": userID})
}

func (s *MongoStore) ListReviewsByProperty(ctx context.Context, propertyID string) ([]models.Review, error) {
	return s.listReviews(ctx, bson.M{"propertyId": propertyID})
}

func (s *MongoStore) ListReviewsForProperties(ctx context.Context, propertyIDs []string) ([]models.Review, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	return s.listReviews(ctx, bson.M{"propertyId": bson.M{"$in": propertyIDs}})
}

func (s *MongoStore) listReviews(ctx context.Context, filter bson.M) ([]models.Review, error) {
	cursor, err := s.Reviews.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetching reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decoding reviews: %w", err)
	}
	return reviews, nil
}
