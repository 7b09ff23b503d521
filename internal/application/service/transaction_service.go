package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/division-ledger/internal/domain/entity"
	"github.com/damon-houk/division-ledger/internal/domain/repository"
	domainservice "github.com/damon-houk/division-ledger/internal/domain/service"
	"github.com/damon-houk/division-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/division-ledger/internal/infrastructure/middleware"
)

// TransactionService handles business logic for transactions
type TransactionService struct {
	repo   repository.TransactionRepository
	clock  domainservice.Clock
	logger logger.Logger
}

// NewTransactionService creates a new transaction service.
// A nil clock means the system clock and a nil logger the default logger.
func NewTransactionService(repo repository.TransactionRepository, clock domainservice.Clock, log logger.Logger) *TransactionService {
	if clock == nil {
		clock = domainservice.SystemClock{}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionService{
		repo:   repo,
		clock:  clock,
		logger: log,
	}
}

// CreateTransaction validates and stores a new transaction. A zero Date is
// replaced by the current time.
func (s *TransactionService) CreateTransaction(ctx context.Context, tx entity.Transaction) (*entity.Transaction, error) {
	requestID := middleware.GetRequestID(ctx)

	tx.ID = ""
	tx.Amount = entity.RoundAmount(tx.Amount)
	if tx.Date.IsZero() {
		tx.Date = s.clock.Now()
	}

	if err := tx.Validate(); err != nil {
		s.logger.Warn("Transaction rejected", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil, err
	}

	id, err := s.repo.Store(ctx, &tx)
	if err != nil {
		s.logger.Error("Failed to store transaction", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil, err
	}
	tx.ID = id

	s.logger.Info("Transaction created", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
		"type":       tx.Type,
		"division":   tx.Division,
		"amount":     tx.Amount,
	})

	return &tx, nil
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (*entity.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

// ListTransactions returns the transactions matching filter, newest first
func (s *TransactionService) ListTransactions(ctx context.Context, filter entity.Filter) ([]*entity.Transaction, error) {
	txs, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Transactions listed", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"count":      len(txs),
	})

	return txs, nil
}

// Transfer records amount leaving from and arriving in to as an expense and
// income pair sharing one timestamp. Both records are stored atomically.
func (s *TransactionService) Transfer(ctx context.Context, amount float64, from, to entity.Division) ([]*entity.Transaction, error) {
	requestID := middleware.GetRequestID(ctx)

	if from == "" || to == "" {
		return nil, entity.NewValidationError("division", "fromDivision and toDivision are required")
	}

	now := s.clock.Now()
	amount = entity.RoundAmount(amount)

	outgoing := &entity.Transaction{
		Title:    fmt.Sprintf("Transfer to %s", to),
		Amount:   amount,
		Type:     entity.TypeExpense,
		Category: entity.TransferCategory,
		Division: from,
		Date:     now,
	}
	incoming := &entity.Transaction{
		Title:    fmt.Sprintf("Transfer from %s", from),
		Amount:   amount,
		Type:     entity.TypeIncome,
		Category: entity.TransferCategory,
		Division: to,
		Date:     now,
	}

	if err := outgoing.Validate(); err != nil {
		return nil, transferFieldError(err, "fromDivision")
	}
	if err := incoming.Validate(); err != nil {
		return nil, transferFieldError(err, "toDivision")
	}

	if from == to {
		s.logger.Warn("Transfer within a single division", map[string]interface{}{
			"request_id": requestID,
			"division":   from,
			"amount":     amount,
		})
	}

	if err := s.repo.StoreAll(ctx, outgoing, incoming); err != nil {
		s.logger.Error("Failed to store transfer", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Transfer recorded", map[string]interface{}{
		"request_id":  requestID,
		"from":        from,
		"to":          to,
		"amount":      amount,
		"outgoing_id": outgoing.ID,
		"incoming_id": incoming.ID,
	})

	return []*entity.Transaction{outgoing, incoming}, nil
}

// transferFieldError renames division errors after the request field that caused them
func transferFieldError(err error, field string) error {
	var ve *entity.ValidationError
	if errors.As(err, &ve) && ve.Field == "division" {
		return entity.NewValidationError(field, field+" must be one of Personal, Office")
	}
	return err
}

// UpdateTransaction merges patch into the transaction with id as long as it
// is still inside its edit window. The merged record is validated again.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, patch entity.TransactionPatch) (*entity.Transaction, error) {
	requestID := middleware.GetRequestID(ctx)

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !current.Editable(now) {
		s.logger.Warn("Edit window expired", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"date":       current.Date.Format(time.RFC3339),
			"elapsed":    now.Sub(current.Date).String(),
		})
		return nil, fmt.Errorf("%w: transaction %s is older than %s", entity.ErrEditWindowExpired, id, entity.EditWindow)
	}

	if patch.Empty() {
		s.logger.Debug("Edit changes nothing", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
		})
		return current, nil
	}

	updated := patch.Apply(*current)
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		s.logger.Error("Failed to update transaction", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Transaction updated", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
	})

	return &updated, nil
}
