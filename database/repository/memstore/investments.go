package memstore

import (
	"context"
	"fmt"
	"sort"

	"investplan/database"
	"investplan/models"
)

// Investments implements investmentRepo.InvestmentRepository, keyed by transaction id.
type Investments struct {
	s *Store
}

func (r *Investments) Create(ctx context.Context, inv *models.Investment) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.investments[inv.TransactionID]; exists {
		return fmt.Errorf("failed to create investment for %s: %w", inv.TransactionID, database.ErrDuplicate)
	}
	r.s.investments[inv.TransactionID] = *inv
	key := inv.TransactionID
	record(ctx, func() { delete(r.s.investments, key) })
	return nil
}

func (r *Investments) ListByUser(ctx context.Context, userID string) ([]models.Investment, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Investment{}
	for _, inv := range r.s.investments {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
