package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"investplan/config"
	"investplan/cron"
	"investplan/database"
	"investplan/database/repository"
	"investplan/database/repository/memstore"
	"investplan/handlers"
	"investplan/middleware"
	"investplan/routes"
	"investplan/services/settlement"
	"investplan/services/verifier"
	"investplan/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type stores struct {
	transactions repository.TransactionRepository
	users        repository.UserRepository
	products     repository.ProductRepository
	investments  repository.InvestmentRepository
	tx           database.Transactor
}

func openStores(cfg config.Config, logger *zap.Logger) stores {
	if cfg.StoreDriver == "memory" {
		logger.Warn("main: using in-memory store; data is lost on exit")
		m := memstore.New()
		return stores{
			transactions: m.Transactions(),
			users:        m.Users(),
			products:     m.Products(),
			investments:  m.Investments(),
			tx:           m,
		}
	}

	database.InitDB()
	db := database.Database()
	return stores{
		transactions: repository.NewMongoTransactionRepo(db, logger),
		users:        repository.NewMongoUserRepo(db, logger),
		products:     repository.NewMongoProductRepo(db, logger),
		investments:  repository.NewMongoInvestmentRepo(db, logger),
		tx:           database.NewMongoTransactor(database.MongoClient),
	}
}

func newVerifier(cfg config.Config, logger *zap.Logger) verifier.PaymentVerifier {
	if cfg.VerifierMode == "http" {
		return verifier.NewHTTPVerifier(verifier.HTTPConfig{
			BaseURL: cfg.VerifierURL,
			APIKey:  cfg.VerifierAPIKey,
			Timeout: cfg.VerifierTimeout,
			Retries: cfg.VerifierRetries,
		}, logger)
	}
	logger.Warn("main: using simulated payment verifier", zap.Duration("settleAfter", cfg.SimulatedSettleAfter))
	return verifier.NewSimulatedVerifier(cfg.SimulatedSettleAfter)
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	st := openStores(cfg, logger)

	redisUp := true
	if err := utils.InitRedis(); err != nil {
		redisUp = false
		logger.Warn("main: redis unavailable; auth cache, distributed lock and asynq sweep disabled", zap.Error(err))
	}

	var locker utils.Locker = utils.NewLocalLocker()
	if redisUp {
		locker = utils.NewRedisLocker(utils.LockClient, utils.SettlementLockPrefix)
	}

	effect, err := settlement.NewEffect(cfg.SettlementEffect, settlement.Deps{Users: st.users, Investments: st.investments})
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	svc := &settlement.DefaultSettlementService{
		Transactions:  st.transactions,
		Products:      st.products,
		Verifier:      newVerifier(cfg, logger),
		Effect:        effect,
		Tx:            st.tx,
		Locker:        locker,
		LockTTL:       cfg.SettlementLockTTL,
		PendingExpiry: cfg.PendingExpiry,
		Logger:        logger,
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimit(cfg.MaxRequestsPerMin))

	paymentHandler := handlers.NewPaymentHandler(svc)
	adminHandler := handlers.NewAdminHandler(svc)
	userHandler := handlers.NewUserHandler(st.users, st.investments)
	productHandler := handlers.NewProductHandler(st.products)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth: middleware.NewJWTAuthenticator([]byte(cfg.JWTSecret), st.users, utils.AuthCacheClient, logger),

		ListProductsHandler: productHandler.ListProductsHandler,

		InitiatePaymentHandler: paymentHandler.InitiatePaymentHandler,
		PaymentStatusHandler:   paymentHandler.PaymentStatusHandler,

		GetProfileHandler: userHandler.GetProfileHandler,

		ListTransactionsHandler: adminHandler.ListTransactionsHandler,
		FailTransactionHandler:  adminHandler.FailTransactionHandler,
	}
	routes.RegisterRoutes(router, handlerBundle, cfg.AllowedOrigins())

	// Pending expiry sweep.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	var worker *cron.Worker
	if cfg.PendingExpiry > 0 && cfg.ExpirySweepSpec != "" {
		if redisUp {
			worker = cron.NewWorker(asynq.RedisClientOpt{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisQueueDB,
			}, svc, logger)
			if err := worker.Start(cfg.ExpirySweepSpec, cfg.ExpirySweepBatch); err != nil {
				logger.Sugar().Fatalf("main: %v", err)
			}
		} else {
			go func() {
				if err := cron.RunLocal(sweepCtx, svc, cfg.ExpirySweepSpec, cfg.ExpirySweepBatch, logger); err != nil {
					logger.Error("main: local expiry sweep stopped", zap.Error(err))
				}
			}()
		}
	}

	// Start the HTTP server.
	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	stopSweep()
	if worker != nil {
		worker.Shutdown()
	}
	utils.CloseRedis()
	if err := database.CloseDB(ctx); err != nil {
		logger.Sugar().Errorf("main: failed to close database: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
