package transactionRepo

import (
	"context"

	"investplan/models"
)

// TransactionRepository is the durable, append-only record of payment attempts.
type TransactionRepository interface {
	// Create inserts a new transaction. Returns database.ErrDuplicate on id collision.
	Create(ctx context.Context, tx *models.Transaction) error
	// GetByTransactionID returns database.ErrNotFound for unknown ids.
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error)
	// CompleteIfPending moves a PENDING transaction to a terminal status in one
	// conditional write and returns the updated record. Returns
	// database.ErrNotPending when the stored status is no longer PENDING.
	CompleteIfPending(ctx context.Context, transactionID string, c models.Completion) (*models.Transaction, error)
	// List returns transactions matching filter, oldest first.
	List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
}
