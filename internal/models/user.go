package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognized by the admin API.
const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
	RoleClerk      = "clerk"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
