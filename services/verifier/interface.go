package verifier

import (
	"context"
	"errors"

	"investplan/models"
)

// ErrUnavailable marks transient verifier failures. The caller keeps the transaction PENDING.
var ErrUnavailable = errors.New("payment verifier unavailable")

// PaymentVerifier is the system of record for whether money actually moved.
type PaymentVerifier interface {
	Verify(ctx context.Context, transactionRef string) (models.VerificationResult, error)
}

// Func adapts a function to PaymentVerifier.
type Func func(ctx context.Context, transactionRef string) (models.VerificationResult, error)

func (f Func) Verify(ctx context.Context, transactionRef string) (models.VerificationResult, error) {
	return f(ctx, transactionRef)
}
