package memstore

import (
	"context"
	"fmt"
	"time"

	"investplan/database"
	"investplan/models"

	"github.com/shopspring/decimal"
)

// Users implements userRepo.UserRepository.
type Users struct {
	s *Store
}

func (r *Users) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, database.ErrNotFound)
	}
	u.PasswordHash = ""
	return &u, nil
}

func (r *Users) Create(ctx context.Context, user *models.User) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[user.ID]; exists {
		return fmt.Errorf("failed to create user: %w", database.ErrDuplicate)
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	id := user.ID
	record(ctx, func() { delete(r.s.users, id) })
	return nil
}

func (r *Users) CreditBalance(ctx context.Context, id string, amount decimal.Decimal) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.users[id]
	if !ok {
		return fmt.Errorf("user with id %s: %w", id, database.ErrNotFound)
	}
	next := prev
	next.Balance = prev.Balance.Add(amount)
	next.UpdatedAt = time.Now()
	r.s.users[id] = next
	record(ctx, func() { r.s.users[id] = prev })
	return nil
}
