package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/damon-houk/division-ledger/internal/domain/entity"
	"github.com/damon-houk/division-ledger/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

const badgerKeyPrefix = "tx:"

// BadgerTransactionRepository implements the transaction repository interface using BadgerDB
type BadgerTransactionRepository struct {
	db *badger.DB
}

// NewBadgerTransactionRepository creates a new BadgerDB transaction repository
func NewBadgerTransactionRepository(db *badger.DB) *BadgerTransactionRepository {
	return &BadgerTransactionRepository{db: db}
}

func badgerKey(id string) []byte {
	return []byte(badgerKeyPrefix + id)
}

func setTransaction(txn *badger.Txn, tx *entity.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	return txn.Set(badgerKey(tx.ID), data)
}

// Store saves a transaction and returns its ID
func (r *BadgerTransactionRepository) Store(ctx context.Context, tx *entity.Transaction) (string, error) {
	if err := r.StoreAll(ctx, tx); err != nil {
		return "", err
	}
	return tx.ID, nil
}

// StoreAll saves all transactions inside a single write transaction
func (r *BadgerTransactionRepository) StoreAll(ctx context.Context, txs ...*entity.Transaction) error {
	for _, tx := range txs {
		assignID(tx)
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		for _, tx := range txs {
			if err := setTransaction(txn, tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &entity.StoreError{Op: "store", Err: err}
	}

	return nil
}

// FindByID retrieves a transaction by its unique identifier
func (r *BadgerTransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var tx entity.Transaction

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &tx)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}

	if err != nil {
		return nil, &entity.StoreError{Op: "find", Err: err}
	}

	return &tx, nil
}

// Find scans every transaction and keeps those matching filter
func (r *BadgerTransactionRepository) Find(ctx context.Context, filter entity.Filter) ([]*entity.Transaction, error) {
	result := make([]*entity.Transaction, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var tx entity.Transaction
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &tx)
			}); err != nil {
				return err
			}

			if filter.Matches(&tx) {
				result = append(result, &tx)
			}
		}
		return nil
	})
	if err != nil {
		return nil, &entity.StoreError{Op: "find", Err: err}
	}

	sortNewestFirst(result)
	return result, nil
}

// Update overwrites an existing transaction
func (r *BadgerTransactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(badgerKey(tx.ID)); err != nil {
			return err
		}
		return setTransaction(txn, tx)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, tx.ID)
	}
	if err != nil {
		return &entity.StoreError{Op: "update", Err: err}
	}

	return nil
}

// Ping reports an error once the database has been closed
func (r *BadgerTransactionRepository) Ping(ctx context.Context) error {
	if r.db.IsClosed() {
		return &entity.StoreError{Op: "ping", Err: errors.New("badger database is closed")}
	}
	return nil
}

// Close closes the underlying database
func (r *BadgerTransactionRepository) Close() error {
	return r.db.Close()
}

var _ repository.TransactionRepository = (*BadgerTransactionRepository)(nil)
