package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is a plan activated by a settled transaction. One per transaction.
type Investment struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	ProductID     string          `json:"productId"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	DailyEarning  decimal.Decimal `json:"dailyEarning"`
	DurationDays  int             `json:"durationDays"`
	StartsAt      time.Time       `json:"startsAt"`
	EndsAt        time.Time       `json:"endsAt"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Active reports whether the plan is still earning at now.
func (i *Investment) Active(now time.Time) bool {
	return !now.Before(i.StartsAt) && now.Before(i.EndsAt)
}
