package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Eugen9719/test-pay-service/internal/config"
	handler "github.com/Eugen9719/test-pay-service/internal/handler/http"
	"github.com/Eugen9719/test-pay-service/internal/logging"
	"github.com/Eugen9719/test-pay-service/internal/repository/migration"
	"github.com/Eugen9719/test-pay-service/internal/repository/postgresql"
	"github.com/Eugen9719/test-pay-service/internal/service"
	"github.com/Eugen9719/test-pay-service/internal/signature"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration:", err)
	}

	logger, err := logging.New(cfg.Logger.LoggerLevel, cfg.Logger.Development)
	if err != nil {
		log.Fatal("failed to build logger:", err)
	}
	defer logger.Sync()

	db, err := sql.Open("postgres", cfg.DB.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.DB.MaxOpenConnection)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConnection)
	db.SetConnMaxLifetime(cfg.DB.ConnectionLifetime)
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	if err := migration.RunMigrations(db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	userRepo := postgresql.NewUserRepository(db)
	accountRepo := postgresql.NewAccountRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)
	txManager := postgresql.NewTxManager(db)
	verifier := signature.NewVerifier(cfg.Payment.WebhookSecret)

	paymentService := service.NewPaymentService(txManager, paymentRepo, accountRepo, userRepo, verifier, logger)
	accountService := service.NewAccountService(accountRepo, paymentRepo, userRepo, logger)
	userService := service.NewUserService(userRepo, logger)

	webhookHandler := handler.NewWebhookHandler(paymentService, logger)
	accountHandler := handler.NewAccountHandler(accountService, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	r := chi.NewRouter()
	r.Use(handler.RequestLogger(logger))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/webhook/process-payment-webhook", webhookHandler.ProcessPayment)

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireToken(cfg.Token.AuthToken))
			r.Post("/users", userHandler.Register)
			r.Post("/users/{userID}/accounts", accountHandler.CreateAccount)
			r.Get("/accounts/{accountID}", accountHandler.GetAccount)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
