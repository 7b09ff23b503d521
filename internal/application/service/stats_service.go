// Package service holds the ledger use cases
package service

import (
	"context"
	"fmt"

	"github.com/damon-houk/division-ledger/internal/domain/entity"
	"github.com/damon-houk/division-ledger/internal/domain/repository"
	"github.com/damon-houk/division-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/division-ledger/internal/infrastructure/middleware"
)

// Health describes the state of the service and its store
type Health struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// StatsService computes aggregates over the stored transactions
type StatsService struct {
	repo   repository.TransactionRepository
	logger logger.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(repo repository.TransactionRepository, log logger.Logger) *StatsService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &StatsService{
		repo:   repo,
		logger: log,
	}
}

// GetStats recomputes the totals over every transaction matching filter.
// The zero Filter covers all transactions.
func (s *StatsService) GetStats(ctx context.Context, filter entity.Filter) (entity.Stats, error) {
	requestID := middleware.GetRequestID(ctx)

	txs, err := s.repo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to load transactions for stats", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return entity.Stats{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	stats := entity.ComputeStats(txs)

	s.logger.Debug("Stats computed", map[string]interface{}{
		"request_id":     requestID,
		"count":          stats.Count,
		"total_income":   stats.TotalIncome,
		"total_expenses": stats.TotalExpenses,
	})

	return stats, nil
}

// Health pings the store. A failing store is reported, not returned as an error.
func (s *StatsService) Health(ctx context.Context) Health {
	health := Health{Status: "Server is healthy and running", Store: "ok"}

	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Warn("Store ping failed", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"error":      err.Error(),
		})
		health.Store = "unavailable"
	}

	return health
}
