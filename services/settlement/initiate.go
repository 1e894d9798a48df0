package settlement

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"investplan/database"
	"investplan/models"
	"investplan/utils"

	"go.uber.org/zap"
)

// upiPattern is the VPA shape: handle@provider.
var upiPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{2,256}@[A-Za-z]{2,64}$`)

// --- Initiate ---
func (s *DefaultSettlementService) Initiate(ctx context.Context, req InitiateRequest) (*models.Transaction, error) {
	if err := validateInitiate(&req); err != nil {
		return nil, err
	}

	product, err := s.Products.GetActive(ctx, req.ProductID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, newError(KindNotFound, "product not found", err)
	}
	if err != nil {
		s.log().Error("settlement: failed to load product", zap.String("productId", req.ProductID), zap.Error(err))
		return nil, newError(KindInternal, "failed to load product", err)
	}
	if !req.Amount.Equal(product.Price) {
		return nil, invalid("amount does not match plan price")
	}

	txID := req.TransactionID
	if txID == "" {
		txID = utils.NewTransactionID()
	}

	now := s.now()
	tx := &models.Transaction{
		TransactionID: txID,
		UserID:        req.UserID,
		ProductID:     product.ID,
		Amount:        req.Amount,
		UPIID:         req.UPIID,
		PaymentMethod: req.PaymentMethod,
		Plan:          product.Snapshot(),
		Status:        models.StatusPending,
		CreatedAt:     now,
	}
	if s.PendingExpiry > 0 {
		expiresAt := now.Add(s.PendingExpiry)
		tx.ExpiresAt = &expiresAt
	}

	if err := s.Transactions.Create(ctx, tx); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, newError(KindConflict, "transaction id already exists", err)
		}
		s.log().Error("settlement: failed to record transaction", zap.String("transactionId", txID), zap.Error(err))
		return nil, newError(KindInternal, "failed to record transaction", err)
	}

	s.log().Info("Payment initiated",
		zap.String("transactionId", tx.TransactionID),
		zap.String("userId", tx.UserID),
		zap.String("productId", tx.ProductID),
		zap.String("amount", tx.Amount.String()))
	return tx, nil
}

func validateInitiate(req *InitiateRequest) error {
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.UPIID = strings.TrimSpace(req.UPIID)
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	req.PaymentMethod = strings.ToUpper(strings.TrimSpace(req.PaymentMethod))

	if req.UserID == "" {
		return newError(KindUnauthorized, "missing user", nil)
	}
	if req.ProductID == "" {
		return invalid("productId is required")
	}
	if !req.Amount.IsPositive() {
		return invalid("amount must be positive")
	}
	if !req.Amount.Equal(req.Amount.Round(2)) {
		return invalid("amount has more than two decimal places")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentMethodUPI
	}
	if req.PaymentMethod != models.PaymentMethodUPI {
		return invalid("unsupported payment method")
	}
	if !upiPattern.MatchString(req.UPIID) {
		return invalid("invalid upiId")
	}
	if req.TransactionID != "" && !utils.ValidTransactionID(req.TransactionID) {
		return invalid("invalid transactionId")
	}
	return nil
}
