package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/rshetty-dev/stayfinder/config"
	"github.com/rshetty-dev/stayfinder/events"
	"github.com/rshetty-dev/stayfinder/mail"
	"github.com/rshetty-dev/stayfinder/recommender"
	"github.com/rshetty-dev/stayfinder/routes"
	"github.com/rshetty-dev/stayfinder/storage"
)

func loadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}
}

func recommenderConfig() recommender.Config {
	cfg := recommender.DefaultConfig()
	if v := os.Getenv("MIN_AVAILABLE_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Printf("Invalid MIN_AVAILABLE_DAYS %q, using default %d", v, cfg.MinAvailableDays)
		} else {
			cfg.MinAvailableDays = n
		}
	}
	return cfg
}

func main() {
	loadEnv()

	client, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatalf("Error closing MongoDB connection: %v", err)
		}
		log.Println("MongoDB connection closed")
	}()

	config.InitCollections(client)

	redisClient := config.InitRedis()

	images, err := storage.NewImageStore(context.Background())
	if err != nil {
		log.Fatalf("Failed to set up image storage: %v", err)
	}

	var publisher *events.Publisher
	if rabbitURL := os.Getenv("RABBITMQ_URL"); rabbitURL != "" {
		publisher, err = events.NewPublisher(rabbitURL, os.Getenv("RABBITMQ_QUEUE"))
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RABBITMQ_URL not set, property events disabled")
	}

	mailer := mail.NewMailerFromEnv()
	if mailer == nil {
		log.Println("SMTP credentials not set, password reset email disabled")
	}

	store := recommender.NewMongoStore(
		config.PropertyCollection,
		config.BookingCollection,
		config.ReviewCollection,
		config.PreferenceCollection,
	)
	engine := recommender.New(store, images, recommenderConfig())

	router := mux.NewRouter()
	routes.Routes(router, routes.Deps{
		Redis:  redisClient,
		Images: images,
		Events: publisher,
		Mailer: mailer,
		Engine: engine,
	})

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handler := corsOptions.Handler(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Error during server shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
