package memstore

import (
	"context"
	"fmt"
	"sort"

	"investplan/database"
	"investplan/models"
)

// Transactions implements transactionRepo.TransactionRepository.
type Transactions struct {
	s *Store
}

func (r *Transactions) Create(ctx context.Context, tx *models.Transaction) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.transactions[tx.TransactionID]; exists {
		return fmt.Errorf("failed to create transaction %s: %w", tx.TransactionID, database.ErrDuplicate)
	}
	r.s.transactions[tx.TransactionID] = *tx
	id := tx.TransactionID
	record(ctx, func() { delete(r.s.transactions, id) })
	return nil
}

func (r *Transactions) GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx, ok := r.s.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", transactionID, database.ErrNotFound)
	}
	return &tx, nil
}

func (r *Transactions) CompleteIfPending(ctx context.Context, transactionID string, c models.Completion) (*models.Transaction, error) {
	if !models.CanTransition(models.StatusPending, c.Status) {
		return nil, fmt.Errorf("invalid completion status %q", c.Status)
	}

	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.transactions[transactionID]
	if !ok || prev.Status != models.StatusPending {
		return nil, database.ErrNotPending
	}
	next := prev
	completedAt := c.CompletedAt
	next.Status = c.Status
	next.CompletedAt = &completedAt
	if c.FailureReason != "" {
		next.FailureReason = c.FailureReason
	}
	if c.GatewayRef != "" {
		next.GatewayRef = c.GatewayRef
	}
	r.s.transactions[transactionID] = next
	record(ctx, func() { r.s.transactions[transactionID] = prev })
	return &next, nil
}

func (r *Transactions) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Transaction{}
	for _, tx := range r.s.transactions {
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		if filter.UserID != "" && tx.UserID != filter.UserID {
			continue
		}
		if filter.ExpiredBefore != nil && (tx.ExpiresAt == nil || tx.ExpiresAt.After(*filter.ExpiredBefore)) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
