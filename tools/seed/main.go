// Command seed inserts the demo plan catalog and a demo user, then prints a
// bearer token for that user.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"investplan/config"
	"investplan/database"
	"investplan/database/repository"
	"investplan/models"
	"investplan/utils"

	"github.com/shopspring/decimal"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var demoProducts = []models.Product{
	{ID: "P1", Name: "Starter Plan", Price: decimal.NewFromInt(500), DailyEarning: decimal.NewFromInt(25), DurationDays: 30},
	{ID: "P2", Name: "Growth Plan", Price: decimal.NewFromInt(2000), DailyEarning: decimal.NewFromInt(110), DurationDays: 45},
	{ID: "P3", Name: "Premium Plan", Price: decimal.NewFromInt(10000), DailyEarning: decimal.RequireFromString("587.50"), DurationDays: 60},
}

func main() {
	userID := flag.String("user-id", "demo-user", "id of the demo user")
	username := flag.String("username", "demo", "username of the demo user")
	email := flag.String("email", "demo@example.com", "email of the demo user")
	password := flag.String("password", "demo1234", "password of the demo user")
	admin := flag.Bool("admin", false, "give the demo user the admin role")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the printed token")
	flag.Parse()

	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database.InitDB()
	defer func() { _ = database.CloseDB(context.Background()) }()
	db := database.Database()
	products := repository.NewMongoProductRepo(db, logger)
	users := repository.NewMongoUserRepo(db, logger)

	now := time.Now()
	for _, p := range demoProducts {
		p := p
		p.Active = true
		p.CreatedAt = now
		if err := products.Upsert(ctx, &p); err != nil {
			logger.Fatal("seed: failed to upsert product", zap.String("productId", p.ID), zap.Error(err))
		}
		logger.Info("seed: product ready", zap.String("productId", p.ID), zap.String("price", p.Price.String()))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("seed: failed to hash password", zap.Error(err))
	}
	role := models.RoleUser
	if *admin {
		role = models.RoleAdmin
	}
	user := &models.User{
		ID:           *userID,
		Username:     *username,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         role,
		Balance:      decimal.Zero,
	}
	switch err := users.Create(ctx, user); {
	case errors.Is(err, database.ErrDuplicate):
		logger.Info("seed: user already exists", zap.String("userId", user.ID))
	case err != nil:
		logger.Fatal("seed: failed to create user", zap.Error(err))
	default:
		logger.Info("seed: user created", zap.String("userId", user.ID), zap.String("role", role))
	}

	token, err := utils.GenerateToken([]byte(config.AppConfig.JWTSecret), user.ID, role, *tokenTTL)
	if err != nil {
		logger.Fatal("seed: failed to sign token", zap.Error(err))
	}
	fmt.Fprintln(os.Stdout, token)
}
