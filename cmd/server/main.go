package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/division-ledger/internal/application/service"
	domainservice "github.com/damon-houk/division-ledger/internal/domain/service"
	"github.com/damon-houk/division-ledger/internal/infrastructure/config"
	"github.com/damon-houk/division-ledger/internal/infrastructure/db"
	"github.com/damon-houk/division-ledger/internal/infrastructure/handler"
	"github.com/damon-houk/division-ledger/internal/infrastructure/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.GetDefaultLogger().Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := cfg.Validate(); err != nil {
		logger.GetDefaultLogger().Fatal("Invalid configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	log := logger.NewJSONLogger(os.Stdout, level).WithField("service", "division-ledger")
	logger.SetDefaultLogger(log)

	log.Info("Starting division ledger", map[string]interface{}{
		"port":      cfg.Port,
		"log_level": level,
	})

	repo, err := db.Open(cfg.StoreDSN, log)
	if err != nil {
		log.Fatal("Failed to open transaction store", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Error closing transaction store", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	txService := service.NewTransactionService(repo, domainservice.SystemClock{}, log)
	statsService := service.NewStatsService(repo, log)

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        handler.NewRouter(txService, statsService, cfg.CORSAllowedOrigins, log),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	log.Info("Server stopped gracefully", nil)
}
