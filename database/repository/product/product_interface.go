package productRepo

import (
	"context"

	"investplan/models"
)

// ProductRepository is the read side of the plan catalog.
type ProductRepository interface {
	// GetActive returns database.ErrNotFound for unknown or inactive products.
	GetActive(ctx context.Context, id string) (*models.Product, error)
	// ListActive returns every active plan, cheapest first.
	ListActive(ctx context.Context) ([]models.Product, error)
	// Upsert writes a product, used by seeding.
	Upsert(ctx context.Context, p *models.Product) error
}
