package settlement

import (
	"context"

	"investplan/models"

	"go.uber.org/zap"
)

// ExpireStale runs CheckStatus on PENDING transactions past their expiry. Each
// one still goes through the verifier first, so a late payment settles SUCCESS
// rather than being expired.
func (s *DefaultSettlementService) ExpireStale(ctx context.Context, limit int) (int, error) {
	now := s.now()
	stale, err := s.ListTransactions(ctx, models.TransactionFilter{
		Status:        models.StatusPending,
		ExpiredBefore: &now,
		Limit:         limit,
	})
	if err != nil {
		return 0, err
	}

	settled := 0
	for _, tx := range stale {
		if err := ctx.Err(); err != nil {
			return settled, err
		}
		res, err := s.CheckStatus(ctx, tx.TransactionID)
		if err != nil {
			s.log().Warn("settlement: expiry check failed", zap.String("transactionId", tx.TransactionID), zap.Error(err))
			continue
		}
		if res.Status.IsTerminal() {
			settled++
		}
	}
	if len(stale) > 0 {
		s.log().Info("Expiry sweep finished", zap.Int("candidates", len(stale)), zap.Int("settled", settled))
	}
	return settled, nil
}
