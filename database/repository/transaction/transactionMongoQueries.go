package transactionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"investplan/database"
	"investplan/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

// Create inserts a new transaction document.
func (r *MongoTransactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc, err := toDoc(tx)
	if err != nil {
		return fmt.Errorf("failed to encode transaction %s: %w", tx.TransactionID, err)
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create transaction %s: %w", tx.TransactionID, database.MapError(err))
	}
	return nil
}

// GetByTransactionID retrieves a transaction by its correlation key.
func (r *MongoTransactionRepo) GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc transactionDoc
	if err := r.coll.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", transactionID, database.MapError(err))
	}
	return doc.toModel(), nil
}

// CompleteIfPending is the compare-and-swap on status: the filter only matches while
// the stored status is still PENDING, so at most one caller ever gets a document back.
func (r *MongoTransactionRepo) CompleteIfPending(ctx context.Context, transactionID string, c models.Completion) (*models.Transaction, error) {
	if !models.CanTransition(models.StatusPending, c.Status) {
		return nil, fmt.Errorf("invalid completion status %q", c.Status)
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	set := bson.M{
		"status":      string(c.Status),
		"completedAt": c.CompletedAt,
	}
	if c.FailureReason != "" {
		set["failureReason"] = c.FailureReason
	}
	if c.GatewayRef != "" {
		set["gatewayRef"] = c.GatewayRef
	}
	filter := bson.M{
		"transactionId": transactionID,
		"status":        string(models.StatusPending),
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc transactionDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete transaction %s: %w", transactionID, err)
	}
	return doc.toModel(), nil
}

// List returns transactions matching the filter, oldest first.
func (r *MongoTransactionRepo) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	q := bson.M{}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}
	if filter.UserID != "" {
		q["userId"] = filter.UserID
	}
	if filter.ExpiredBefore != nil {
		q["expiresAt"] = bson.M{"$lte": *filter.ExpiredBefore}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	txs := []models.Transaction{}
	for cursor.Next(ctx) {
		var doc transactionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		txs = append(txs, *doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}
