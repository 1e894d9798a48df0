package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"investplan/database"
	"investplan/models"
)

// Products implements productRepo.ProductRepository.
type Products struct {
	s *Store
}

func (r *Products) GetActive(ctx context.Context, id string) (*models.Product, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok || !p.Active {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, database.ErrNotFound)
	}
	return &p, nil
}

func (r *Products) ListActive(ctx context.Context) ([]models.Product, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Product{}
	for _, p := range r.s.products {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	return out, nil
}

func (r *Products) Upsert(ctx context.Context, p *models.Product) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	prev, existed := r.s.products[p.ID]
	r.s.products[p.ID] = *p
	id := p.ID
	record(ctx, func() {
		if existed {
			r.s.products[id] = prev
		} else {
			delete(r.s.products, id)
		}
	})
	return nil
}
