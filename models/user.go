package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the storefront account. Balance is mutated only by settlement.
type User struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Role         string          `json:"role"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
