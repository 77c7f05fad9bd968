package models

import (
	"time"

	"travelbooking/internal/domain"
)

type User struct {
	ID           domain.ID   `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Email        string      `json:"email" db:"email"`
	Phone        string      `json:"phone" db:"phone"`
	PasswordHash string      `json:"-" db:"password_hash"`
	Role         domain.Role `json:"role" db:"role"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}

// UserSummary is what other entities expose about their owner.
type UserSummary struct {
	ID    domain.ID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Phone string    `json:"phone,omitempty"`
}
