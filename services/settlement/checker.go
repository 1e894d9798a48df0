package settlement

import (
	"context"

	"investplan/models"
	"investplan/services/poller"
)

// StatusChecker lets the poller drive CheckStatus in process.
func StatusChecker(svc SettlementService) poller.Checker {
	return poller.CheckerFunc(func(ctx context.Context, transactionID string) (models.TransactionStatus, error) {
		tx, err := svc.CheckStatus(ctx, transactionID)
		if err != nil {
			if KindOf(err) == KindNotFound {
				return "", poller.ErrNotFound
			}
			return "", err
		}
		return tx.Status, nil
	})
}
