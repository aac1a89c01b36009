package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole defines access levels for API consumers.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

// User is a console account for teachers and administrators.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

// JWTClaims carries identity and role inside access tokens. For student
// sessions UserID holds the student identifier.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	FullName string   `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest is the console login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StudentLoginRequest is the student login payload. PIN is compared as plain
// text; the accounts are low-stakes classroom handles, not credentials.
type StudentLoginRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	PIN       string `json:"pin" validate:"omitempty,len=4,numeric"`
}

// LoginResponse returns the issued token and identity summary.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	IssuedAt    time.Time   `json:"issued_at"`
	Role        UserRole    `json:"role"`
	Profile     interface{} `json:"profile,omitempty"`
}
