package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/division-ledger/internal/domain/entity"
	"github.com/damon-houk/division-ledger/internal/domain/repository"
	"gorm.io/gorm"
)

// gormTransaction maps to the transactions table
type gormTransaction struct {
	ID       string    `gorm:"primaryKey;size:36"`
	Title    string    `gorm:"not null"`
	Amount   float64   `gorm:"not null;check:chk_transactions_amount,amount > 0"`
	Type     string    `gorm:"size:16;not null;index:idx_transactions_type"`
	Category string    `gorm:"size:255;not null;index:idx_transactions_division_category,priority:2"`
	Division string    `gorm:"size:16;not null;index:idx_transactions_division_category,priority:1"`
	Date     time.Time `gorm:"not null;index:idx_transactions_date"`
}

func (*gormTransaction) TableName() string {
	return "transactions"
}

func toGormTransaction(tx *entity.Transaction) *gormTransaction {
	return &gormTransaction{
		ID:       tx.ID,
		Title:    tx.Title,
		Amount:   tx.Amount,
		Type:     string(tx.Type),
		Category: tx.Category,
		Division: string(tx.Division),
		Date:     tx.Date.UTC(),
	}
}

func (g *gormTransaction) toEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:       g.ID,
		Title:    g.Title,
		Amount:   g.Amount,
		Type:     entity.TransactionType(g.Type),
		Category: g.Category,
		Division: entity.Division(g.Division),
		Date:     g.Date.UTC(),
	}
}

// GormTransactionRepository stores transactions in a SQL server through GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates the repository and migrates its table
func NewGormTransactionRepository(db *gorm.DB) (*GormTransactionRepository, error) {
	if err := db.AutoMigrate(&gormTransaction{}); err != nil {
		return nil, fmt.Errorf("failed to migrate transactions table: %w", err)
	}
	return &GormTransactionRepository{db: db}, nil
}

// Store saves a transaction and returns its ID
func (r *GormTransactionRepository) Store(ctx context.Context, tx *entity.Transaction) (string, error) {
	if err := r.StoreAll(ctx, tx); err != nil {
		return "", err
	}
	return tx.ID, nil
}

// StoreAll inserts all transactions in one database transaction
func (r *GormTransactionRepository) StoreAll(ctx context.Context, txs ...*entity.Transaction) error {
	rows := make([]*gormTransaction, 0, len(txs))
	for _, tx := range txs {
		assignID(tx)
		rows = append(rows, toGormTransaction(tx))
	}

	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		for _, row := range rows {
			if err := db.Create(row).Error; err != nil {
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
func (r *GormTransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var row gormTransaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}
	if err != nil {
		return nil, &entity.StoreError{Op: "find", Err: err}
	}
	return row.toEntity(), nil
}

// Find returns the transactions matching filter, newest first
func (r *GormTransactionRepository) Find(ctx context.Context, filter entity.Filter) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&gormTransaction{})

	if v, ok := filter.DivisionValue(); ok {
		query = query.Where("division = ?", v)
	}
	if v, ok := filter.CategoryValue(); ok {
		query = query.Where("category = ?", v)
	}
	if v, ok := filter.TypeValue(); ok {
		query = query.Where("type = ?", v)
	}
	if start, end, ok := filter.DateRange(); ok {
		query = query.Where("date BETWEEN ? AND ?", start.UTC(), end.UTC())
	}

	var rows []gormTransaction
	if err := query.Order("date DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, &entity.StoreError{Op: "find", Err: err}
	}

	result := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toEntity())
	}
	return result, nil
}

// Update overwrites an existing transaction
func (r *GormTransactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var existing gormTransaction
		if err := db.Where("id = ?", tx.ID).First(&existing).Error; err != nil {
			return err
		}
		return db.Save(toGormTransaction(tx)).Error
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, tx.ID)
	}
	if err != nil {
		return &entity.StoreError{Op: "update", Err: err}
	}
	return nil
}

// Ping checks the database connection
func (r *GormTransactionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return &entity.StoreError{Op: "ping", Err: err}
	}
	return nil
}

// Close closes the underlying connection pool
func (r *GormTransactionRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ repository.TransactionRepository = (*GormTransactionRepository)(nil)
