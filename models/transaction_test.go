package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTransactionStatus(t *testing.T) {
	cases := map[string]TransactionStatus{
		"PENDING":   StatusPending,
		"success":   StatusSuccess,
		"COMPLETED": StatusSuccess,
		" FAILED ":  StatusFailed,
	}
	for in, want := range cases {
		got, ok := ParseTransactionStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseTransactionStatus("REFUNDED")
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusSuccess))
	assert.True(t, CanTransition(StatusPending, StatusFailed))
	assert.False(t, CanTransition(StatusPending, StatusPending))
	assert.False(t, CanTransition(StatusSuccess, StatusFailed))
	assert.False(t, CanTransition(StatusFailed, StatusSuccess))
}

func TestTransactionExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tx := &Transaction{}
	assert.False(t, tx.Expired(now), "no expiry configured")

	at := now.Add(time.Minute)
	tx.ExpiresAt = &at
	assert.False(t, tx.Expired(now))
	assert.True(t, tx.Expired(at))
}
