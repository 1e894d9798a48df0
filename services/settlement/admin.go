package settlement

import (
	"context"
	"strings"

	"investplan/models"

	"go.uber.org/zap"
)

const maxListLimit = 500

// Fail is idempotent for FAILED transactions and refuses SUCCESS ones.
func (s *DefaultSettlementService) Fail(ctx context.Context, transactionID, reason string) (*models.Transaction, error) {
	tx, err := s.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	switch tx.Status {
	case models.StatusFailed:
		return tx, nil
	case models.StatusSuccess:
		return nil, newError(KindConflict, "transaction already succeeded", nil)
	}

	failureReason := models.FailureAdmin
	if reason = strings.TrimSpace(reason); reason != "" {
		failureReason += ": " + reason
	}
	s.log().Info("Admin failing transaction", zap.String("transactionId", tx.TransactionID), zap.String("reason", reason))

	settled, err := s.settle(ctx, tx.TransactionID, models.Completion{
		Status:        models.StatusFailed,
		CompletedAt:   s.now(),
		FailureReason: failureReason,
	})
	if err != nil {
		return nil, err
	}
	if settled.Status == models.StatusSuccess {
		return nil, newError(KindConflict, "transaction already succeeded", nil)
	}
	return settled, nil
}

func (s *DefaultSettlementService) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	txs, err := s.Transactions.List(ctx, filter)
	if err != nil {
		return nil, newError(KindInternal, "failed to list transactions", err)
	}
	return txs, nil
}
