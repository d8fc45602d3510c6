package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josue04mendez04-max/YuJoFintech/internal/config"
	"github.com/josue04mendez04-max/YuJoFintech/internal/handler"
	"github.com/josue04mendez04-max/YuJoFintech/internal/logging"
	"github.com/josue04mendez04-max/YuJoFintech/internal/middleware"
	"github.com/josue04mendez04-max/YuJoFintech/internal/reconcile"
	"github.com/josue04mendez04-max/YuJoFintech/internal/repository"
	"github.com/josue04mendez04-max/YuJoFintech/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("yujo-api", cfg.LogLevel, cfg.AppEnv)

	policy := reconcile.BalancePolicy(cfg.BalancePolicy)
	if !policy.IsValid() {
		slog.Error("invalid balance policy", "policy", cfg.BalancePolicy)
		os.Exit(1)
	}
	seedOpening, err := decimal.NewFromString(cfg.OpeningBalance)
	if err != nil {
		slog.Error("invalid opening balance", "value", cfg.OpeningBalance, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	movementRepo := repository.NewMovementRepository(db)
	cutRepo := repository.NewCutRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	movementSvc := service.NewMovementService(movementRepo, db)
	cutSvc := service.NewCutService(movementRepo, cutRepo, db, policy, seedOpening)
	investmentSvc := service.NewInvestmentService(investmentRepo, movementRepo, db)

	movementHandler := handler.NewMovementHandler(movementSvc)
	vaultHandler := handler.NewVaultHandler()
	cutHandler := handler.NewCutHandler(cutSvc)
	investmentHandler := handler.NewInvestmentHandler(investmentSvc)
	healthHandler := handler.NewHealthHandler(db)

	idem := middleware.Idempotency(idempotencyRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Check)

	mux.HandleFunc("GET /api/v1/movements", movementHandler.List)
	mux.Handle("POST /api/v1/movements", idem(http.HandlerFunc(movementHandler.Create)))
	mux.HandleFunc("DELETE /api/v1/movements/{id}", movementHandler.Delete)
	mux.Handle("POST /api/v1/movements/{id}/correct", idem(http.HandlerFunc(movementHandler.Correct)))

	mux.HandleFunc("POST /api/v1/vault/total", vaultHandler.Total)

	mux.HandleFunc("POST /api/v1/cuts/preview", cutHandler.Preview)
	mux.Handle("POST /api/v1/cuts", idem(http.HandlerFunc(cutHandler.Perform)))
	mux.HandleFunc("GET /api/v1/cuts", cutHandler.List)
	mux.HandleFunc("GET /api/v1/cuts/{id}", cutHandler.Get)

	mux.HandleFunc("GET /api/v1/investments", investmentHandler.List)
	mux.Handle("POST /api/v1/investments", idem(http.HandlerFunc(investmentHandler.Create)))
	mux.HandleFunc("POST /api/v1/investments/{id}/pending-return", investmentHandler.MarkPendingReturn)
	mux.Handle("POST /api/v1/investments/{id}/liquidate", idem(http.HandlerFunc(investmentHandler.Liquidate)))

	chain := middleware.RequestID(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "balance_policy", policy)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
