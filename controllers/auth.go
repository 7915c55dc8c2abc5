package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rshetty-dev/stayfinder/config"
	"github.com/rshetty-dev/stayfinder/mail"
	"github.com/rshetty-dev/stayfinder/models"
	"github.com/rshetty-dev/stayfinder/utils"
)

type Response struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

type registerRequest struct {
	UserID   string `json:"userID" validate:"required,min=3"`
	UserName string `json:"userName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	UserID   string `json:"userID"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

func RegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Error decoding user data: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			log.Printf("Invalid registration payload: %v", err)
			http.Error(w, "Invalid registration data", http.StatusBadRequest)
			return
		}

		exists := config.UserCollection.FindOne(context.TODO(), bson.M{"userID": req.UserID})
		if exists.Err() == nil {
			log.Printf("UserID already exists: %s", req.UserID)
			http.Error(w, "UserID already exists", http.StatusConflict)
			return
		}

		exists = config.UserCollection.FindOne(context.TODO(), bson.M{"email": req.Email})
		if exists.Err() == nil {
			log.Printf("User email already exists: %s", req.Email)
			http.Error(w, "Email already exists", http.StatusConflict)
			return
		}

		hashedPwd, err := utils.HashPassword(req.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			http.Error(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}

		role := req.Role
		if role == "" {
			role = models.RoleUser
		}

		user := models.User{
			UserID:    req.UserID,
			UserName:  req.UserName,
			Email:     req.Email,
			Password:  hashedPwd,
			Role:      role,
			CreatedAt: time.Now(),
		}

		_, err = config.UserCollection.InsertOne(context.TODO(), user)
		if err != nil {
			log.Printf("Error inserting user into the database: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Response{Message: "User registered successfully"})
	}
}

func LoginUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials loginRequest
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("Error decoding login credentials: %v", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		var dbUser models.User
		err := config.UserCollection.FindOne(context.TODO(), bson.M{"userID": credentials.UserID}).Decode(&dbUser)
		if err != nil {
			log.Printf("User not found: %s", credentials.UserID)
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		if !utils.CheckPasswordHash(credentials.Password, dbUser.Password) {
			log.Printf("Invalid credentials for user: %s", credentials.UserID)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		// Admins must log in through the admin toggle, and only admins may
		// use it.
		if dbUser.Role == models.RoleAdmin && !credentials.IsAdmin {
			http.Error(w, "Admins must log in as admin", http.StatusForbidden)
			return
		}
		if dbUser.Role != models.RoleAdmin && credentials.IsAdmin {
			http.Error(w, "You are not authorized as an admin", http.StatusForbidden)
			return
		}

		token, err := utils.GenerateJWT(dbUser.UserID, dbUser.Role)
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(Response{Message: "Login successful", Token: token})
	}
}

const otpTTL = 5 * time.Minute

func ForgotPassword(redisClient *redis.Client, mailer *mail.Mailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email" validate:"required,email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid email", http.StatusBadRequest)
			return
		}

		err := config.UserCollection.FindOne(r.Context(), bson.M{"email": req.Email}).Err()
		if err != nil {
			http.Error(w, "Given email does not exist", http.StatusNotFound)
			return
		}

		otp, err := utils.GenerateOTP()
		if err != nil {
			log.Printf("Error generating OTP: %v", err)
			http.Error(w, "Failed to generate OTP", http.StatusInternalServerError)
			return
		}

		if err := redisClient.Set(r.Context(), otpKey(req.Email), otp, otpTTL).Err(); err != nil {
			log.Printf("Error storing OTP for %s: %v", req.Email, err)
			http.Error(w, "Failed to store OTP", http.StatusInternalServerError)
			return
		}

		if err := mailer.SendOTP(req.Email, otp); err != nil {
			log.Printf("Error sending OTP email to %s: %v", req.Email, err)
			http.Error(w, "Failed to send OTP email", http.StatusInternalServerError)
			return
		}

		json.NewEncoder(w).Encode(Response{Message: "OTP has been sent to your email"})
	}
}

func ResetPassword(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email       string `json:"email" validate:"required,email"`
			OTP         string `json:"otp" validate:"required,len=6"`
			NewPassword string `json:"newPassword" validate:"required,min=8"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid reset data", http.StatusBadRequest)
			return
		}

		storedOTP, err := redisClient.Get(r.Context(), otpKey(req.Email)).Result()
		if err != nil || storedOTP != req.OTP {
			http.Error(w, "Invalid or expired OTP", http.StatusBadRequest)
			return
		}

		hashedPwd, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			log.Printf("Error hashing new password: %v", err)
			http.Error(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}

		_, err = config.UserCollection.UpdateOne(r.Context(),
			bson.M{"email": req.Email},
			bson.M{"$set": bson.M{"password": hashedPwd}},
		)
		if err != nil {
			log.Printf("Error updating password for %s: %v", req.Email, err)
			http.Error(w, "Failed to reset password", http.StatusInternalServerError)
			return
		}

		redisClient.Del(r.Context(), otpKey(req.Email))

		json.NewEncoder(w).Encode(Response{Message: "Password reset successfully"})
	}
}

func otpKey(email string) string {
	return "otp:" + email
}
