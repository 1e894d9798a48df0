package settlement

import (
	"context"
	"fmt"

	investmentRepo "investplan/database/repository/investment"
	userRepo "investplan/database/repository/user"
	"investplan/models"

	"github.com/google/uuid"
)

// SettlementEffect is applied exactly once, inside the same database transaction
// that moves a transaction to SUCCESS. An error aborts the whole settlement.
type SettlementEffect interface {
	Apply(ctx context.Context, tx *models.Transaction) error
}

// BalanceCredit credits the user's balance with the recorded amount.
type BalanceCredit struct {
	Users userRepo.UserRepository
}

func (e BalanceCredit) Apply(ctx context.Context, tx *models.Transaction) error {
	if err := e.Users.CreditBalance(ctx, tx.UserID, tx.Amount); err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	return nil
}

// PlanActivation starts the purchased plan from the snapshot taken at initiation.
type PlanActivation struct {
	Investments investmentRepo.InvestmentRepository
}

func (e PlanActivation) Apply(ctx context.Context, tx *models.Transaction) error {
	startsAt := tx.CreatedAt
	if tx.CompletedAt != nil {
		startsAt = *tx.CompletedAt
	}
	inv := &models.Investment{
		ID:            uuid.NewString(),
		UserID:        tx.UserID,
		ProductID:     tx.ProductID,
		TransactionID: tx.TransactionID,
		Amount:        tx.Amount,
		DailyEarning:  tx.Plan.DailyEarning,
		DurationDays:  tx.Plan.DurationDays,
		StartsAt:      startsAt,
		EndsAt:        startsAt.AddDate(0, 0, tx.Plan.DurationDays),
		CreatedAt:     startsAt,
	}
	if err := e.Investments.Create(ctx, inv); err != nil {
		return fmt.Errorf("activate plan: %w", err)
	}
	return nil
}

// Effects applies each effect in order.
type Effects []SettlementEffect

func (es Effects) Apply(ctx context.Context, tx *models.Transaction) error {
	for _, e := range es {
		if err := e.Apply(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

// NewEffect builds the effect named by SETTLEMENT_EFFECT.
func NewEffect(mode string, deps Deps) (SettlementEffect, error) {
	switch mode {
	case "credit":
		return BalanceCredit{Users: deps.Users}, nil
	case "activate":
		return PlanActivation{Investments: deps.Investments}, nil
	case "both":
		return Effects{BalanceCredit{Users: deps.Users}, PlanActivation{Investments: deps.Investments}}, nil
	}
	return nil, fmt.Errorf("unknown settlement effect %q", mode)
}
