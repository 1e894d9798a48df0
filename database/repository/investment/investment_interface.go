package investmentRepo

import (
	"context"

	"investplan/models"
)

// InvestmentRepository stores plans activated by settlement.
type InvestmentRepository interface {
	// Create inserts an investment. A second investment for the same
	// transaction returns database.ErrDuplicate.
	Create(ctx context.Context, inv *models.Investment) error
	// ListByUser returns a user's investments, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Investment, error)
}
