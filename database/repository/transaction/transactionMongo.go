package transactionRepo

import (
	"time"

	"investplan/database"
	"investplan/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const collectionName = "transactions"

// MongoTransactionRepo implements TransactionRepository using MongoDB.
type MongoTransactionRepo struct {
	coll *mongo.Collection
}

// NewMongoTransactionRepo creates the repository and its indexes.
func NewMongoTransactionRepo(db *mongo.Database, logger *zap.Logger) TransactionRepository {
	repo := newMongoTransactionRepo(db.Collection(collectionName))
	if err := repo.ensureIndexes(); err != nil {
		logger.Error("transaction repo: failed to create indexes", zap.Error(err))
	}
	return repo
}

func newMongoTransactionRepo(coll *mongo.Collection) *MongoTransactionRepo {
	return &MongoTransactionRepo{coll: coll}
}

type planDoc struct {
	Name         string               `bson:"name"`
	Price        primitive.Decimal128 `bson:"price"`
	DailyEarning primitive.Decimal128 `bson:"dailyEarning"`
	DurationDays int                  `bson:"durationDays"`
}

type transactionDoc struct {
	TransactionID string               `bson:"transactionId"`
	UserID        string               `bson:"userId"`
	ProductID     string               `bson:"productId"`
	Amount        primitive.Decimal128 `bson:"amount"`
	UPIID         string               `bson:"upiId"`
	PaymentMethod string               `bson:"paymentMethod"`
	Plan          planDoc              `bson:"plan"`
	Status        string               `bson:"status"`
	FailureReason string               `bson:"failureReason,omitempty"`
	GatewayRef    string               `bson:"gatewayRef,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt"`
	ExpiresAt     *time.Time           `bson:"expiresAt,omitempty"`
	CompletedAt   *time.Time           `bson:"completedAt,omitempty"`
}

func toDoc(tx *models.Transaction) (*transactionDoc, error) {
	amount, err := database.ToDecimal128(tx.Amount)
	if err != nil {
		return nil, err
	}
	price, err := database.ToDecimal128(tx.Plan.Price)
	if err != nil {
		return nil, err
	}
	daily, err := database.ToDecimal128(tx.Plan.DailyEarning)
	if err != nil {
		return nil, err
	}
	return &transactionDoc{
		TransactionID: tx.TransactionID,
		UserID:        tx.UserID,
		ProductID:     tx.ProductID,
		Amount:        amount,
		UPIID:         tx.UPIID,
		PaymentMethod: tx.PaymentMethod,
		Plan: planDoc{
			Name:         tx.Plan.Name,
			Price:        price,
			DailyEarning: daily,
			DurationDays: tx.Plan.DurationDays,
		},
		Status:        string(tx.Status),
		FailureReason: tx.FailureReason,
		GatewayRef:    tx.GatewayRef,
		CreatedAt:     tx.CreatedAt,
		ExpiresAt:     tx.ExpiresAt,
		CompletedAt:   tx.CompletedAt,
	}, nil
}

func (d *transactionDoc) toModel() *models.Transaction {
	status, ok := models.ParseTransactionStatus(d.Status)
	if !ok {
		// Unknown stored values are treated as still pending so they are never settled twice.
		status = models.StatusPending
	}
	return &models.Transaction{
		TransactionID: d.TransactionID,
		UserID:        d.UserID,
		ProductID:     d.ProductID,
		Amount:        database.FromDecimal128(d.Amount),
		UPIID:         d.UPIID,
		PaymentMethod: d.PaymentMethod,
		Plan: models.PlanSnapshot{
			Name:         d.Plan.Name,
			Price:        database.FromDecimal128(d.Plan.Price),
			DailyEarning: database.FromDecimal128(d.Plan.DailyEarning),
			DurationDays: d.Plan.DurationDays,
		},
		Status:        status,
		FailureReason: d.FailureReason,
		GatewayRef:    d.GatewayRef,
		CreatedAt:     d.CreatedAt,
		ExpiresAt:     d.ExpiresAt,
		CompletedAt:   d.CompletedAt,
	}
}
