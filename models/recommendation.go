package models

import "time"

// RecommendationCandidate is a property annotated with the per-request
// recommendation signals. It is produced and discarded within a single
// request, never persisted.
type RecommendationCandidate struct {
	Property

	ImageURLs          []string    `json:"imageUrls"`
	AvailableDates     []time.Time `json:"availableDates"`
	NextAvailableDate  *time.Time  `json:"nextAvailableDate,omitempty"`
	CollaborativeScore float64     `json:"-"`
	HybridScore        float64     `json:"hybridScore"`
}

type RecommendationMeta struct {
	Total       int       `json:"total"`
	GeneratedAt time.Time `json:"generatedAt"`
	DateRange   []string  `json:"dateRange,omitempty"`
}

type RecommendationResponse struct {
	RecommendedProperties []RecommendationCandidate `json:"recommendedProperties"`
	Meta                  RecommendationMeta        `json:"meta"`
}

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
