package domain

import "time"

// User is the identity record an email address resolves to.
type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Login        string    `json:"login" dynamodbav:"login"`
	Email        string    `json:"email" dynamodbav:"email"`
	AppCode      string    `json:"code" dynamodbav:"code"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Login    string `json:"login" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	AppCode  string `json:"code" validate:"required,min=3"`
}
