package productRepo

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

type MongoProductRepo struct {
	coll *mongo.Collection
}

func NewMongoProductRepo(db *mongo.Database, logger *zap.Logger) ProductRepository {
	repo := &MongoProductRepo{coll: db.Collection("products")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Error("product repo: failed to create indexes", zap.Error(err))
	}
	return repo
}

type productDoc struct {
	ID           string               `bson:"id"`
	Name         string               `bson:"name"`
	Price        primitive.Decimal128 `bson:"price"`
	DailyEarning primitive.Decimal128 `bson:"dailyEarning"`
	DurationDays int                  `bson:"durationDays"`
	Active       bool                 `bson:"active"`
	ImageURL     string               `bson:"imageUrl,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt"`
}

func (d productDoc) toModel() models.Product {
	return models.Product{
		ID:           d.ID,
		Name:         d.Name,
		Price:        database.FromDecimal128(d.Price),
		DailyEarning: database.FromDecimal128(d.DailyEarning),
		DurationDays: d.DurationDays,
		Active:       d.Active,
		ImageURL:     d.ImageURL,
		CreatedAt:    d.CreatedAt,
	}
}

func (r *MongoProductRepo) GetActive(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "active": true}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, database.MapError(err))
	}
	p := doc.toModel()
	return &p, nil
}

func (r *MongoProductRepo) ListActive(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toModel())
	}
	return products, nil
}

func (r *MongoProductRepo) Upsert(ctx context.Context, p *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	price, err := database.ToDecimal128(p.Price)
	if err != nil {
		return err
	}
	daily, err := database.ToDecimal128(p.DailyEarning)
	if err != nil {
		return err
	}
	doc := productDoc{
		ID:           p.ID,
		Name:         p.Name,
		Price:        price,
		DailyEarning: daily,
		DurationDays: p.DurationDays,
		Active:       p.Active,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt,
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": p.ID}, doc, opts); err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
	}
	return nil
}
