package transactionRepo

import (
	"context"
	"testing"
	"time"

	"investplan/database"
	"investplan/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func sampleTransaction() *models.Transaction {
	return &models.Transaction{
		TransactionID: "TXN-test-0001",
		UserID:        "user-1",
		ProductID:     "P1",
		Amount:        decimal.RequireFromString("500"),
		UPIID:         "alice@upi",
		PaymentMethod: models.PaymentMethodUPI,
		Plan: models.PlanSnapshot{
			Name:         "Starter",
			Price:        decimal.RequireFromString("500"),
			DailyEarning: decimal.RequireFromString("25.5"),
			DurationDays: 30,
		},
		Status:    models.StatusPending,
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func asBSON(t testing.TB, tx *models.Transaction) bson.D {
	doc, err := toDoc(tx)
	require.NoError(t, err)
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoTransactionRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		repo := newMongoTransactionRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, repo.Create(ctx, sampleTransaction()))
	})

	mt.Run("create duplicate maps to ErrDuplicate", func(mt *mtest.T) {
		repo := newMongoTransactionRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))
		err := repo.Create(ctx, sampleTransaction())
		assert.ErrorIs(mt, err, database.ErrDuplicate)
	})

	mt.Run("get decodes amounts and plan", func(mt *mtest.T) {
		repo := newMongoTransactionRepo(mt.Coll)
		want := sampleTransaction()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, namespace(mt), mtest.FirstBatch, asBSON(mt, want)))

		got, err := repo.GetByTransactionID(ctx, want.TransactionID)
		require.NoError(mt, err)
		assert.Equal(mt, want.TransactionID, got.TransactionID)
		assert.True(mt, want.Amount.Equal(got.Amount))
		assert.True(mt, want.Plan.DailyEarning.Equal(got.Plan.DailyEarning))
		assert.Equal(mt, models.StatusPending, got.Status)
		assert.Nil(mt, got.CompletedAt)
	})

	mt.Run("get unknown maps to ErrNotFound", func(mt *mtest.T) {
		repo := newMongoTransactionRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))
		_, err := repo.GetByTransactionID(ctx, "missing")
		assert.ErrorIs(mt, err, database.ErrNotFound)
	})

	mt.Run("complete returns updated document", func(mt *mtest.T) {
		repo := newMongoTransactionRepo(mt.Coll)
		done := sampleTransaction()
		completedAt := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)
		done.Status = models.StatusSuccess
		done.CompletedAt = &completedAt
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: asBSON(mt, done)}))

		got, err := repo.CompleteIfPending(ctx, done.TransactionID, models.Completion{
			Status:      models.StatusSuccess,
			CompletedAt: completedAt,
		})
		require.NoError(mt, err)
		assert.Equal(mt, models.StatusSuccess, got.Status)
		require.NotNil(mt, got.CompletedAt)
		assert.True(mt, completedAt.Equal(*got.CompletedAt))
	})

	mt.Run("complete on terminal maps to ErrNotPending", func(mt *mtest.T) {
		repo := newMongoTransactionRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.CompleteIfPending(ctx, "TXN-test-0001", models.Completion{
			Status:      models.StatusFailed,
			CompletedAt: time.Now(),
		})
		assert.ErrorIs(mt, err, database.ErrNotPending)
	})

	mt.Run("complete rejects non-terminal target", func(mt *mtest.T) {
		repo := newMongoTransactionRepo(mt.Coll)
		_, err := repo.CompleteIfPending(ctx, "TXN-test-0001", models.Completion{Status: models.StatusPending})
		assert.Error(mt, err)
	})
}

func TestLegacyCompletedStatusDecodesAsSuccess(t *testing.T) {
	doc, err := toDoc(sampleTransaction())
	require.NoError(t, err)
	doc.Status = "COMPLETED"
	assert.Equal(t, models.StatusSuccess, doc.toModel().Status)
}
