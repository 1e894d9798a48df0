package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the settlement state of a payment attempt.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"

	// statusCompletedLegacy is accepted when reading old records and never written.
	statusCompletedLegacy = "COMPLETED"
)

// ParseTransactionStatus normalizes a stored status. COMPLETED maps to SUCCESS.
func ParseTransactionStatus(s string) (TransactionStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(StatusPending):
		return StatusPending, true
	case string(StatusSuccess), statusCompletedLegacy:
		return StatusSuccess, true
	case string(StatusFailed):
		return StatusFailed, true
	}
	return "", false
}

// IsTerminal reports whether no further transition is allowed.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// CanTransition checks a status change. Only PENDING may move, and only to a terminal state.
func CanTransition(from, to TransactionStatus) bool {
	return from == StatusPending && to.IsTerminal()
}

const PaymentMethodUPI = "UPI"

// Failure reasons recorded on FAILED transactions.
const (
	FailureNotPaid = "not_paid"
	FailureExpired = "expired"
	FailureAdmin   = "admin"
)

// PlanSnapshot copies the plan terms at initiation so settlement never depends on the mutable catalog.
type PlanSnapshot struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	DailyEarning decimal.Decimal `json:"dailyEarning"`
	DurationDays int             `json:"durationDays"`
}

// Transaction is one payment attempt. Everything except Status, CompletedAt,
// FailureReason and GatewayRef is immutable after creation.
type Transaction struct {
	TransactionID string            `json:"transactionId"`
	UserID        string            `json:"userId"`
	ProductID     string            `json:"productId"`
	Amount        decimal.Decimal   `json:"amount"`
	UPIID         string            `json:"upiId"`
	PaymentMethod string            `json:"paymentMethod"`
	Plan          PlanSnapshot      `json:"plan"`
	Status        TransactionStatus `json:"status"`
	FailureReason string            `json:"failureReason,omitempty"`
	GatewayRef    string            `json:"gatewayRef,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	ExpiresAt     *time.Time        `json:"expiresAt,omitempty"`
	CompletedAt   *time.Time        `json:"completedAt,omitempty"`
}

// Expired reports whether the pending window has passed at now.
func (t *Transaction) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// Completion carries the fields written when a transaction leaves PENDING.
type Completion struct {
	Status        TransactionStatus
	CompletedAt   time.Time
	FailureReason string
	GatewayRef    string
}

// TransactionFilter narrows admin listings.
type TransactionFilter struct {
	Status        TransactionStatus
	UserID        string
	ExpiredBefore *time.Time
	Limit         int
}
