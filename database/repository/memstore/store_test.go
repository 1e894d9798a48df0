package memstore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"investplan/database"
	"investplan/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pending(id string) *models.Transaction {
	return &models.Transaction{
		TransactionID: id,
		UserID:        "u1",
		ProductID:     "P1",
		Amount:        decimal.NewFromInt(500),
		Status:        models.StatusPending,
		CreatedAt:     time.Now(),
	}
}

func TestCompleteIfPendingSingleWinner(t *testing.T) {
	ctx := context.Background()
	txs := New().Transactions()
	require.NoError(t, txs.Create(ctx, pending("T1")))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := txs.CompleteIfPending(ctx, "T1", models.Completion{Status: models.StatusSuccess, CompletedAt: time.Now()})
			if err == nil {
				atomic.AddInt32(&wins, 1)
				return
			}
			assert.ErrorIs(t, err, database.ErrNotPending)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)

	got, err := txs.GetByTransactionID(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	txs := New().Transactions()
	require.NoError(t, txs.Create(ctx, pending("T1")))
	assert.ErrorIs(t, txs.Create(ctx, pending("T1")), database.ErrDuplicate)
}

func TestWithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Users().Create(ctx, &models.User{ID: "u1"}))
	require.NoError(t, s.Transactions().Create(ctx, pending("T1")))

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Transactions().CompleteIfPending(ctx, "T1", models.Completion{Status: models.StatusSuccess, CompletedAt: time.Now()}); err != nil {
			return err
		}
		if err := s.Users().CreditBalance(ctx, "u1", decimal.NewFromInt(500)); err != nil {
			return err
		}
		if err := s.Investments().Create(ctx, &models.Investment{ID: "i1", UserID: "u1", TransactionID: "T1"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tx, err := s.Transactions().GetByTransactionID(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, tx.Status)
	assert.Nil(t, tx.CompletedAt)

	u, err := s.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, u.Balance.IsZero())

	invs, err := s.Investments().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, invs)
}

func TestWithTransactionCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Users().Create(ctx, &models.User{ID: "u1"}))

	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		return s.Users().CreditBalance(ctx, "u1", decimal.RequireFromString("12.50"))
	})
	require.NoError(t, err)

	u, err := s.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "12.5", u.Balance.String())
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	txs := New().Transactions()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"A", "B", "C"} {
		tx := pending(id)
		tx.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		exp := tx.CreatedAt.Add(10 * time.Minute)
		tx.ExpiresAt = &exp
		require.NoError(t, txs.Create(ctx, tx))
	}
	_, err := txs.CompleteIfPending(ctx, "B", models.Completion{Status: models.StatusFailed, CompletedAt: base})
	require.NoError(t, err)

	pendingOnly, err := txs.List(ctx, models.TransactionFilter{Status: models.StatusPending})
	require.NoError(t, err)
	require.Len(t, pendingOnly, 2)
	assert.Equal(t, "A", pendingOnly[0].TransactionID)

	cutoff := base.Add(10 * time.Minute)
	stale, err := txs.List(ctx, models.TransactionFilter{Status: models.StatusPending, ExpiredBefore: &cutoff})
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "A", stale[0].TransactionID)

	limited, err := txs.List(ctx, models.TransactionFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestReadsWaitForInFlightTransaction(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Transactions().Create(ctx, pending("T1")))

	written := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- s.WithTransaction(ctx, func(ctx context.Context) error {
			if _, err := s.Transactions().CompleteIfPending(ctx, "T1", models.Completion{Status: models.StatusSuccess, CompletedAt: time.Now()}); err != nil {
				return err
			}
			close(written)
			<-release
			return errors.New("effect failed")
		})
	}()
	<-written

	read := make(chan models.TransactionStatus, 1)
	go func() {
		got, err := s.Transactions().GetByTransactionID(ctx, "T1")
		assert.NoError(t, err)
		if got != nil {
			read <- got.Status
		}
	}()

	select {
	case status := <-read:
		t.Fatalf("read returned %s before the transaction finished", status)
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.Error(t, <-txDone)
	assert.Equal(t, models.StatusPending, <-read, "rolled back write is never visible")
}
