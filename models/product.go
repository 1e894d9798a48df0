package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an investment plan offered in the storefront.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	DailyEarning decimal.Decimal `json:"dailyEarning"`
	DurationDays int             `json:"durationDays"`
	Active       bool            `json:"active"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Snapshot copies the plan terms for a transaction.
func (p *Product) Snapshot() PlanSnapshot {
	return PlanSnapshot{
		Name:         p.Name,
		Price:        p.Price,
		DailyEarning: p.DailyEarning,
		DurationDays: p.DurationDays,
	}
}
