// Package poller waits for a payment transaction to reach a terminal status by
// checking it at a fixed interval.
package poller

import (
	"context"
	"errors"
	"time"

	"investplan/models"

	"go.uber.org/zap"
)

// ErrNotFound aborts polling; retrying an unknown transaction cannot succeed.
var ErrNotFound = errors.New("transaction not found")

const (
	DefaultInterval    = 3 * time.Second
	DefaultMaxAttempts = 20
)

// Checker reports the current status of a transaction.
type Checker interface {
	Check(ctx context.Context, transactionID string) (models.TransactionStatus, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, transactionID string) (models.TransactionStatus, error)

func (f CheckerFunc) Check(ctx context.Context, transactionID string) (models.TransactionStatus, error) {
	return f(ctx, transactionID)
}

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeTimeout Outcome = "timeout"
)

// Message is the user-facing text for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return "Payment successful. Your plan is now active."
	case OutcomeFailed:
		return "Payment failed. No money was captured for this plan."
	case OutcomeTimeout:
		return "Payment is still being confirmed. Check again shortly."
	}
	return ""
}

type Result struct {
	Outcome  Outcome
	Status   models.TransactionStatus
	Attempts int
}

type Poller struct {
	Checker     Checker
	Interval    time.Duration
	MaxAttempts int
	Logger      *zap.Logger
}

// Poll checks until a terminal status or MaxAttempts. Running out of attempts is
// the timeout outcome, not an error; the transaction may still settle later.
func (p *Poller) Poll(ctx context.Context, transactionID string) (Result, error) {
	interval, maxAttempts := p.Interval, p.MaxAttempts
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res := Result{Status: models.StatusPending}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for res.Attempts < maxAttempts {
		res.Attempts++
		status, err := p.Checker.Check(ctx, transactionID)
		switch {
		case errors.Is(err, ErrNotFound):
			return res, err
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			logger.Warn("poller: status check failed", zap.String("transactionId", transactionID),
				zap.Int("attempt", res.Attempts), zap.Error(err))
		case status == models.StatusSuccess:
			res.Outcome, res.Status = OutcomeSuccess, status
			return res, nil
		case status == models.StatusFailed:
			res.Outcome, res.Status = OutcomeFailed, status
			return res, nil
		default:
			res.Status = status
		}

		if res.Attempts == maxAttempts {
			break
		}
		timer.Reset(interval)
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-timer.C:
		}
	}

	res.Outcome = OutcomeTimeout
	logger.Info("poller: gave up waiting for settlement", zap.String("transactionId", transactionID),
		zap.Int("attempts", res.Attempts))
	return res, nil
}
