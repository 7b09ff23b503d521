// Package repository defines the storage ports of the ledger
package repository

import (
	"context"

	"github.com/damon-houk/division-ledger/internal/domain/entity"
)

// TransactionRepository defines the interface for transaction storage.
// Implementations assign IDs and wrap backend failures in entity.StoreError.
type TransactionRepository interface {
	// Store saves a transaction, assigning its ID, and returns that ID
	Store(ctx context.Context, transaction *entity.Transaction) (string, error)

	// StoreAll saves every transaction or none of them
	StoreAll(ctx context.Context, transactions ...*entity.Transaction) error

	// FindByID retrieves a transaction by its unique identifier.
	// It returns entity.ErrNotFound when the ID does not exist.
	FindByID(ctx context.Context, id string) (*entity.Transaction, error)

	// Find returns the transactions matching filter, newest first
	Find(ctx context.Context, filter entity.Filter) ([]*entity.Transaction, error)

	// Update overwrites an existing transaction
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Ping checks that the store is reachable
	Ping(ctx context.Context) error

	// Close releases the store
	Close() error
}
