package userRepo

import (
	"context"

	"investplan/models"

	"github.com/shopspring/decimal"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by their unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// CreditBalance atomically increments the balance field.
	CreditBalance(ctx context.Context, id string, amount decimal.Decimal) error
}
