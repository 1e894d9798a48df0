package userRepo

import (
	"context"
	"fmt"
	"time"

	"investplan/database"
	"investplan/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database, logger *zap.Logger) UserRepository {
	repo := &MongoUserRepo{coll: db.Collection("users")}
	if err := repo.ensureIndexes(); err != nil {
		logger.Error("user repo: failed to create indexes", zap.Error(err))
	}
	return repo
}

type userDoc struct {
	ID           string               `bson:"id"`
	Username     string               `bson:"username"`
	Email        string               `bson:"email"`
	PasswordHash string               `bson:"passwordHash"`
	Role         string               `bson:"role"`
	Balance      primitive.Decimal128 `bson:"balance"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a user by its unique ID, without the password hash.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"passwordHash": 0})
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, database.MapError(err))
	}
	return &models.User{
		ID:        doc.ID,
		Username:  doc.Username,
		Email:     doc.Email,
		Role:      doc.Role,
		Balance:   database.FromDecimal128(doc.Balance),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	balance, err := database.ToDecimal128(user.Balance)
	if err != nil {
		return err
	}
	doc := userDoc{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		Balance:      balance,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create user: %w", database.MapError(err))
	}
	return nil
}

// CreditBalance increments balance with $inc so concurrent credits never lose updates.
func (r *MongoUserRepo) CreditBalance(ctx context.Context, id string, amount decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	inc, err := database.ToDecimal128(amount)
	if err != nil {
		return err
	}
	update := bson.M{
		"$inc": bson.M{"balance": inc},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to credit user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s: %w", id, database.ErrNotFound)
	}
	return nil
}
