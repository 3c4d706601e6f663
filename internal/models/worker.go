package models

import "time"

// Worker roles.
const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
)

// DefaultHourlyRate is applied to newly registered workers.
const DefaultHourlyRate = 10

// Worker is an authenticated user who performs labor billed by hourly rate.
type Worker struct {
	ID                 int64      `json:"id" db:"id"`
	Login              string     `json:"login" db:"login"`
	Name               string     `json:"name" db:"name"`
	PasswordHash       string     `json:"-" db:"password_hash"`
	Role               string     `json:"role" db:"role"`
	HourlyRate         float64    `json:"hourly_rate" db:"hourly_rate"`
	RefreshToken       string     `json:"-" db:"refresh_token"`
	RefreshTokenExpiry *time.Time `json:"-" db:"refresh_token_expiry"`
	CreateTime         time.Time  `json:"create_time" db:"create_time"`
}

// RegisterRequest is the payload for creating a worker account.
type RegisterRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued tokens.
type LoginResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Worker       *Worker   `json:"worker"`
}

// RateUpdateRequest changes a worker's hourly rate.
type RateUpdateRequest struct {
	HourlyRate float64 `json:"hourly_rate" binding:"required,gte=0"`
}
