package controllers

import "github.com/go-playground/validator/v10"

type ContextKey string

const (
	UserIDKey = ContextKey("userID")
	RoleKey   = ContextKey("role")
)

var validate = validator.New()
