package settlement

import (
	"context"
	"time"

	"investplan/database"
	investmentRepo "investplan/database/repository/investment"
	productRepo "investplan/database/repository/product"
	transactionRepo "investplan/database/repository/transaction"
	userRepo "investplan/database/repository/user"
	"investplan/models"
	"investplan/services/verifier"
	"investplan/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettlementService owns the PENDING -> terminal transition of payment transactions.
type SettlementService interface {
	// Initiate validates the request and records a PENDING transaction.
	Initiate(ctx context.Context, req InitiateRequest) (*models.Transaction, error)
	// CheckStatus returns the current state, settling the transaction first if the
	// verifier has a definitive answer. Safe to call repeatedly and concurrently.
	CheckStatus(ctx context.Context, transactionID string) (*models.Transaction, error)
	// GetTransaction reads the stored record without consulting the verifier.
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)
	// Fail is the administrator override that marks a PENDING transaction FAILED.
	Fail(ctx context.Context, transactionID, reason string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	// ExpireStale re-checks PENDING transactions past their expiry and returns how many became terminal.
	ExpireStale(ctx context.Context, limit int) (int, error)
}

// InitiateRequest is built by the transport layer. UserID comes from the
// authenticated principal, never from the request body.
type InitiateRequest struct {
	UserID        string
	ProductID     string
	Amount        decimal.Decimal
	UPIID         string
	PaymentMethod string
	TransactionID string
}

// DefaultSettlementService is the production implementation.
type DefaultSettlementService struct {
	Transactions transactionRepo.TransactionRepository
	Products     productRepo.ProductRepository
	Verifier     verifier.PaymentVerifier
	Effect       SettlementEffect
	Tx           database.Transactor

	// Locker is optional; without it concurrent checks all reach the verifier
	// and the conditional update alone picks the winner.
	Locker  utils.Locker
	LockTTL time.Duration

	// PendingExpiry of zero disables expiry.
	PendingExpiry time.Duration

	Logger *zap.Logger
	Now    func() time.Time
}

// Deps groups the stores NewEffect may need.
type Deps struct {
	Users       userRepo.UserRepository
	Investments investmentRepo.InvestmentRepository
}

func (s *DefaultSettlementService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultSettlementService) log() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}

func (s *DefaultSettlementService) lockTTL() time.Duration {
	if s.LockTTL > 0 {
		return s.LockTTL
	}
	return 10 * time.Second
}
