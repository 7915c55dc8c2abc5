package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rshetty-dev/stayfinder/config"
	"github.com/rshetty-dev/stayfinder/models"
	"github.com/rshetty-dev/stayfinder/storage"
)

// GetAllProperties serves the filterable property search. Results are
// cached in Redis per user and query for 10 minutes; any listing mutation
// invalidates the whole property cache.
func GetAllProperties(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			log.Println("User ID missing in context for GetAllProperties")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		query := r.URL.Query()
		cacheKey := generateCacheKey(userID, query)

		cachedData, err := redisClient.Get(r.Context(), cacheKey).Result()
		if err == nil {
			log.Printf("Cache Hit for key: %s", cacheKey)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cachedData))
			return
		}
		if err != redis.Nil {
			log.Printf("Redis GET error for key %s: %v", cacheKey, err)
		}

		log.Printf("Cache Miss for key: %s", cacheKey)

		var andConditions []bson.M
		fieldSpecificConditions := make(map[string]bson.M)

		operatorMap := map[string]string{
			"eq": "$eq", "ne": "$ne", "gt": "$gt", "gte": "$gte", "lt": "$lt", "lte": "$lte",
		}
		numericFields := map[string]bool{
			"price": true, "guests": true, "bedrooms": true, "beds": true, "bathrooms": true, "kitchens": true,
		}
		dateFields := map[string]bool{"createdAt": true}
		boolFields := map[string]bool{"swimmingPool": true}
		stringFields := map[string]bool{
			"id": true, "title": true, "type": true, "region": true, "location": true, "createdBy": true,
		}

		for rawKey, queryValues := range query {
			if rawKey == "userID" || len(queryValues) == 0 || queryValues[0] == "" {
				continue
			}

			fieldKey := rawKey
			mongoOperator := "$eq"

			if strings.Contains(rawKey, "[") && strings.Contains(rawKey, "]") {
				parts := strings.SplitN(rawKey, "[", 2)
				fieldKey = parts[0]
				opKey := strings.TrimSuffix(parts[1], "]")
				if mappedOp, exists := operatorMap[opKey]; exists {
					mongoOperator = mappedOp
				} else {
					log.Printf("Unknown operator key: %s in query param %s", opKey, rawKey)
					continue
				}
			}
			queryValue := queryValues[0]
			if fieldKey == "amenities" {
				terms := strings.Split(queryValue, ",")
				var orClausesForField bson.A
				for _, term := range terms {
					trimmedTerm := strings.TrimSpace(term)
					if trimmedTerm == "" {
						continue
					}
					orClausesForField = append(orClausesForField, bson.M{fieldKey: bson.M{"$regex": primitive.Regex{Pattern: trimmedTerm, Options: "i"}}})
				}
				if len(orClausesForField) > 0 {
					andConditions = append(andConditions, bson.M{"$or": orClausesForField})
				}
				continue
			}

			if stringFields[fieldKey] {
				values := strings.Split(queryValue, ",")
				var trimmedValues []string
				for _, v := range values {
					trimmedV := strings.TrimSpace(v)
					if trimmedV != "" {
						trimmedValues = append(trimmedValues, trimmedV)
					}
				}
				if len(trimmedValues) > 0 {
					if mongoOperator == "$eq" {
						andConditions = append(andConditions, bson.M{fieldKey: bson.M{"$in": trimmedValues}})
					} else if mongoOperator == "$ne" {
						andConditions = append(andConditions, bson.M{fieldKey: bson.M{"$nin": trimmedValues}})
					} else {
						log.Printf("Unsupported operator '%s' for string field '%s'. Defaulting to $eq/$in.", mongoOperator, fieldKey)
						andConditions = append(andConditions, bson.M{fieldKey: bson.M{"$in": trimmedValues}})
					}
				}
				continue
			}

			if boolFields[fieldKey] {
				boolVal, err := strconv.ParseBool(strings.ToLower(queryValue))
				if err == nil {
					andConditions = append(andConditions, bson.M{fieldKey: bson.M{mongoOperator: boolVal}})
				} else {
					log.Printf("Invalid boolean value for %s: %s", fieldKey, queryValue)
				}
				continue
			}

			if numericFields[fieldKey] || dateFields[fieldKey] {
				if _, ok := fieldSpecificConditions[fieldKey]; !ok {
					fieldSpecificConditions[fieldKey] = bson.M{}
				}

				if numericFields[fieldKey] {
					numVal, err := strconv.ParseFloat(queryValue, 64)
					if err == nil {
						fieldSpecificConditions[fieldKey][mongoOperator] = numVal
					} else {
						log.Printf("Invalid numeric value for %s operator %s: %s. Error: %v", fieldKey, mongoOperator, queryValue, err)
					}
				} else {
					t, err := time.Parse("2006-01-02", queryValue)
					if err == nil {
						fieldSpecificConditions[fieldKey][mongoOperator] = t
					} else {
						log.Printf("Invalid date value for %s operator %s: %s. Error: %v", fieldKey, mongoOperator, queryValue, err)
					}
				}
				continue
			}
			log.Printf("Unhandled query parameter: %s (parsed as field: %s)", rawKey, fieldKey)
		}

		for field, conditionsMap := range fieldSpecificConditions {
			if len(conditionsMap) > 0 {
				andConditions = append(andConditions, bson.M{field: conditionsMap})
			}
		}

		finalMongoQuery := bson.M{}
		if len(andConditions) > 0 {
			finalMongoQuery["$and"] = andConditions
		}
		findOptions := options.Find().SetLimit(10)

		cursor, err := config.PropertyCollection.Find(r.Context(), finalMongoQuery, findOptions)
		if err != nil {
			log.Printf("Error fetching properties with query %+v: %v", finalMongoQuery, err)
			http.Error(w, "Error fetching properties", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var properties []models.Property
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding properties: %v", err)
			http.Error(w, "Error decoding properties", http.StatusInternalServerError)
			return
		}

		resultBytes, err := json.Marshal(properties)
		if err != nil {
			log.Printf("Failed to serialize properties: %v", err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}

		err = redisClient.Set(r.Context(), cacheKey, resultBytes, 10*time.Minute).Err()
		if err != nil {
			log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(resultBytes)
	}
}

// FilterProperties answers the date-range search: properties in a region
// with enough guest capacity and no conflicting booking in the requested
// window.
func FilterProperties(images *storage.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StartDate  string `json:"startDate"`
			EndDate    string `json:"endDate"`
			RegionName string `json:"regionName" validate:"required"`
			TotalGuest int    `json:"totalGuest" validate:"min=1"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid filter criteria", http.StatusBadRequest)
			return
		}

		filter := bson.M{
			"region": req.RegionName,
			"guests": bson.M{"$gte": req.TotalGuest},
		}

		if req.StartDate != "" && req.EndDate != "" {
			start, errS := time.Parse("2006-01-02", req.StartDate)
			end, errE := time.Parse("2006-01-02", req.EndDate)
			if errS != nil || errE != nil {
				http.Error(w, "Invalid date format, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}

			booked, err := config.BookingCollection.Distinct(r.Context(), "propertyId", bson.M{
				"status":    bson.M{"$nin": bson.A{models.BookingCancelled, models.BookingRejected}},
				"startDate": bson.M{"$lte": end},
				"endDate":   bson.M{"$gte": start},
			})
			if err != nil {
				log.Printf("Error fetching booked properties: %v", err)
				http.Error(w, "Error fetching properties", http.StatusInternalServerError)
				return
			}
			if len(booked) > 0 {
				filter["id"] = bson.M{"$nin": booked}
			}
		}

		cursor, err := config.PropertyCollection.Find(r.Context(), filter)
		if err != nil {
			log.Printf("Error filtering properties: %v", err)
			http.Error(w, "Error fetching properties", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		var properties []models.Property
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding filtered properties: %v", err)
			http.Error(w, "Error decoding properties", http.StatusInternalServerError)
			return
		}

		if len(properties) == 0 {
			http.Error(w, "Couldn't find property with following constraints", http.StatusNotFound)
			return
		}

		type propertyWithURLs struct {
			models.Property
			ImageURLs []string `json:"imageUrls"`
		}
		out := make([]propertyWithURLs, 0, len(properties))
		for _, p := range properties {
			urls := signListingImages(r, images, p.ImageKeys)
			p.ImageKeys = nil
			out = append(out, propertyWithURLs{Property: p, ImageURLs: urls})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

func generateCacheKey(userID string, queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(userID)
	sb.WriteString(":")

	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return "property:" + hex.EncodeToString(sum[:])
}

func deletePropertyCache(redisClient *redis.Client) {
	ctx := context.Background()
	const scanPattern = "property:*"
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = redisClient.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := redisClient.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	_, execErr := pipe.Exec(ctx)

	if execErr != nil {
		log.Printf("Error executing pipeline for deleting %d property cache keys: %v", len(keysToDelete), execErr)
	} else {
		log.Printf("Property cache invalidated. Deleted %d keys matching '%s'.", len(keysToDelete), scanPattern)
	}
}
