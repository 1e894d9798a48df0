package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"investplan/database"
	"investplan/models"

	"go.uber.org/zap"
)

func (s *DefaultSettlementService) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, invalid("transactionId is required")
	}
	tx, err := s.Transactions.GetByTransactionID(ctx, transactionID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, newError(KindNotFound, "transaction not found", err)
	}
	if err != nil {
		return nil, newError(KindInternal, "failed to load transaction", err)
	}
	return tx, nil
}

// CheckStatus never produces a terminal state from an inconclusive or failed
// verification, with the single exception of a definitive not-paid answer.
func (s *DefaultSettlementService) CheckStatus(ctx context.Context, transactionID string) (*models.Transaction, error) {
	tx, err := s.GetTransaction(ctx, transactionID)
	if err != nil || tx.Status.IsTerminal() {
		return tx, err
	}

	if s.Locker != nil {
		release, acquired, lockErr := s.Locker.TryLock(ctx, tx.TransactionID, s.lockTTL())
		switch {
		case lockErr != nil:
			// The conditional update still guarantees a single winner.
			s.log().Warn("settlement: lock unavailable, checking without it",
				zap.String("transactionId", tx.TransactionID), zap.Error(lockErr))
		case !acquired:
			// Another check is in flight. Report what is stored.
			return tx, nil
		default:
			defer release()
			if tx, err = s.GetTransaction(ctx, tx.TransactionID); err != nil || tx.Status.IsTerminal() {
				return tx, err
			}
		}
	}

	return s.verifyAndSettle(ctx, tx)
}

func (s *DefaultSettlementService) verifyAndSettle(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	result, err := s.Verifier.Verify(ctx, tx.TransactionID)
	if err != nil {
		s.log().Warn("settlement: verifier unavailable, transaction stays pending",
			zap.String("transactionId", tx.TransactionID), zap.Error(err))
		return tx, nil
	}

	now := s.now()
	c := models.Completion{CompletedAt: now, GatewayRef: result.GatewayRef}
	switch {
	case result.Paid:
		c.Status = models.StatusSuccess
	case result.Definitive:
		c.Status = models.StatusFailed
		c.FailureReason = models.FailureNotPaid
	case tx.Expired(now):
		c.Status = models.StatusFailed
		c.FailureReason = models.FailureExpired
	default:
		return tx, nil
	}
	return s.settle(ctx, tx.TransactionID, c)
}

// settle applies c and, for SUCCESS, the settlement effect in one unit of work.
// Losing the conditional update to a concurrent caller is not an error: the
// winner's result is returned.
func (s *DefaultSettlementService) settle(ctx context.Context, transactionID string, c models.Completion) (*models.Transaction, error) {
	var settled *models.Transaction
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		updated, err := s.Transactions.CompleteIfPending(ctx, transactionID, c)
		if err != nil {
			return err
		}
		if updated.Status == models.StatusSuccess && s.Effect != nil {
			if err := s.Effect.Apply(ctx, updated); err != nil {
				return fmt.Errorf("apply settlement effect: %w", err)
			}
		}
		settled = updated
		return nil
	})

	switch {
	case err == nil:
		s.log().Info("Transaction settled",
			zap.String("transactionId", settled.TransactionID),
			zap.String("status", string(settled.Status)),
			zap.String("failureReason", settled.FailureReason))
		return settled, nil
	case errors.Is(err, database.ErrNotPending):
		s.log().Debug("settlement: already settled by a concurrent caller", zap.String("transactionId", transactionID))
		return s.GetTransaction(ctx, transactionID)
	default:
		s.log().Error("settlement: failed to settle transaction",
			zap.String("transactionId", transactionID), zap.Error(err))
		return nil, newError(KindInternal, "failed to settle transaction", err)
	}
}
