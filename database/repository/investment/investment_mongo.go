package investmentRepo

import (
	"context"
	"fmt"
	"time"

	"investplan/database"
	"investplan/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoInvestmentRepo struct {
	coll *mongo.Collection
}

func NewMongoInvestmentRepo(db *mongo.Database, logger *zap.Logger) InvestmentRepository {
	repo := &MongoInvestmentRepo{coll: db.Collection("investments")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		logger.Error("investment repo: failed to create indexes", zap.Error(err))
	}
	return repo
}

type investmentDoc struct {
	ID            string               `bson:"id"`
	UserID        string               `bson:"userId"`
	ProductID     string               `bson:"productId"`
	TransactionID string               `bson:"transactionId"`
	Amount        primitive.Decimal128 `bson:"amount"`
	DailyEarning  primitive.Decimal128 `bson:"dailyEarning"`
	DurationDays  int                  `bson:"durationDays"`
	StartsAt      time.Time            `bson:"startsAt"`
	EndsAt        time.Time            `bson:"endsAt"`
	CreatedAt     time.Time            `bson:"createdAt"`
}

func (r *MongoInvestmentRepo) Create(ctx context.Context, inv *models.Investment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	amount, err := database.ToDecimal128(inv.Amount)
	if err != nil {
		return err
	}
	daily, err := database.ToDecimal128(inv.DailyEarning)
	if err != nil {
		return err
	}
	doc := investmentDoc{
		ID:            inv.ID,
		UserID:        inv.UserID,
		ProductID:     inv.ProductID,
		TransactionID: inv.TransactionID,
		Amount:        amount,
		DailyEarning:  daily,
		DurationDays:  inv.DurationDays,
		StartsAt:      inv.StartsAt,
		EndsAt:        inv.EndsAt,
		CreatedAt:     inv.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create investment for %s: %w", inv.TransactionID, database.MapError(err))
	}
	return nil
}

func (r *MongoInvestmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Investment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var docs []investmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode investments: %w", err)
	}
	out := make([]models.Investment, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Investment{
			ID:            d.ID,
			UserID:        d.UserID,
			ProductID:     d.ProductID,
			TransactionID: d.TransactionID,
			Amount:        database.FromDecimal128(d.Amount),
			DailyEarning:  database.FromDecimal128(d.DailyEarning),
			DurationDays:  d.DurationDays,
			StartsAt:      d.StartsAt,
			EndsAt:        d.EndsAt,
			CreatedAt:     d.CreatedAt,
		})
	}
	return out, nil
}
