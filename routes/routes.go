package routes

import (
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/rshetty-dev/stayfinder/controllers"
	"github.com/rshetty-dev/stayfinder/events"
	"github.com/rshetty-dev/stayfinder/mail"
	"github.com/rshetty-dev/stayfinder/middleware"
	"github.com/rshetty-dev/stayfinder/recommender"
	"github.com/rshetty-dev/stayfinder/storage"
)

// Deps carries the injected clients the handlers need.
type Deps struct {
	Redis  *redis.Client
	Images *storage.ImageStore
	Events *events.Publisher
	Mailer *mail.Mailer
	Engine *recommender.Engine
}

func Routes(router *mux.Router, deps Deps) {
	// Auth routes
	router.HandleFunc("/register", controllers.RegisterUser()).Methods("POST")
	router.HandleFunc("/login", controllers.LoginUser()).Methods("POST")
	router.HandleFunc("/forgot-password", controllers.ForgotPassword(deps.Redis, deps.Mailer)).Methods("POST")
	router.HandleFunc("/forgot-password/reset", controllers.ResetPassword(deps.Redis)).Methods("POST")

	// Routes that require authentication
	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(middleware.AuthMiddleware)

	// Hosting routes
	authenticated.HandleFunc("/listings", controllers.CreateListing(deps.Images)).Methods("POST")
	authenticated.HandleFunc("/listings", controllers.GetMyListings(deps.Images)).Methods("GET")
	authenticated.HandleFunc("/listings/rejected", controllers.GetRejectedListings(deps.Images)).Methods("GET")
	authenticated.HandleFunc("/listings/reservations", controllers.GetHostReservations()).Methods("GET")
	authenticated.HandleFunc("/listings/{id}", controllers.UpdateListing(deps.Redis, deps.Events)).Methods("PUT")
	authenticated.HandleFunc("/listings/{id}", controllers.DeleteListing(deps.Images, deps.Redis, deps.Events)).Methods("DELETE")

	// Admin review routes
	admin := authenticated.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/pending", controllers.GetPendingListings()).Methods("GET")
	admin.HandleFunc("/pending/{id}/approve", controllers.ApproveListing(deps.Redis, deps.Events)).Methods("POST")
	admin.HandleFunc("/pending/{id}/reject", controllers.RejectListing()).Methods("POST")

	// Property search routes
	authenticated.HandleFunc("/properties", controllers.GetAllProperties(deps.Redis)).Methods("GET")
	authenticated.HandleFunc("/properties/filter", controllers.FilterProperties(deps.Images)).Methods("POST")
	authenticated.HandleFunc("/properties/{id}/reviews", controllers.GetPropertyReviews()).Methods("GET")

	// Booking routes
	authenticated.HandleFunc("/bookings", controllers.CreateBooking(deps.Engine)).Methods("POST")
	authenticated.HandleFunc("/bookings", controllers.GetBookings()).Methods("GET")
	authenticated.HandleFunc("/bookings", controllers.DeleteExpiredBookings()).Methods("DELETE")
	authenticated.HandleFunc("/bookings/{id}", controllers.DeleteBooking()).Methods("DELETE")

	// Review routes
	authenticated.HandleFunc("/reviews", controllers.CreateReview()).Methods("POST")

	// Preference routes
	authenticated.HandleFunc("/preferences", controllers.SavePreferences()).Methods("PUT")
	authenticated.HandleFunc("/preferences", controllers.GetPreferences()).Methods("GET")

	// Messaging routes
	authenticated.HandleFunc("/messages", controllers.GetConversations()).Methods("GET")
	authenticated.HandleFunc("/messages", controllers.AppendMessage()).Methods("POST")
	authenticated.HandleFunc("/messages/{propertyId}", controllers.MessageHost()).Methods("POST")

	// Recommendations
	authenticated.HandleFunc("/recommendations", controllers.GetRecommendations(deps.Engine)).Methods("POST")
}
