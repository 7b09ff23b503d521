package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/damon-houk/division-ledger/internal/domain/entity"
	"github.com/damon-houk/division-ledger/internal/domain/repository"

	_ "modernc.org/sqlite"
)

const sqliteColumns = "id, title, amount, type, category, division, date_utc"

// sqliteDateLayout is fixed width so that text order is chronological order
const sqliteDateLayout = "2006-01-02T15:04:05.000000000Z"

func formatSQLiteDate(t time.Time) string {
	return t.UTC().Format(sqliteDateLayout)
}

// SQLiteTransactionRepository stores transactions in a sqlite file
type SQLiteTransactionRepository struct {
	db *sql.DB
}

// NewSQLiteTransactionRepository opens dbPath, creating it and its schema if needed
func NewSQLiteTransactionRepository(dbPath string) (*SQLiteTransactionRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// one writer at a time keeps sqlite from answering SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteTransactionRepository{db: db}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*entity.Transaction, error) {
	var (
		tx            entity.Transaction
		txType, divsn string
		date          string
	)
	if err := row.Scan(&tx.ID, &tx.Title, &tx.Amount, &txType, &tx.Category, &divsn, &date); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(sqliteDateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse date of %s: %w", tx.ID, err)
	}
	tx.Type = entity.TransactionType(txType)
	tx.Division = entity.Division(divsn)
	tx.Date = parsed
	return &tx, nil
}

// Store saves a transaction and returns its ID
func (r *SQLiteTransactionRepository) Store(ctx context.Context, tx *entity.Transaction) (string, error) {
	if err := r.StoreAll(ctx, tx); err != nil {
		return "", err
	}
	return tx.ID, nil
}

// StoreAll inserts all transactions in one SQL transaction
func (r *SQLiteTransactionRepository) StoreAll(ctx context.Context, txs ...*entity.Transaction) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &entity.StoreError{Op: "store", Err: err}
	}
	defer sqlTx.Rollback()

	for _, tx := range txs {
		assignID(tx)
		_, err := sqlTx.ExecContext(ctx,
			"INSERT INTO transactions ("+sqliteColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			tx.ID, tx.Title, tx.Amount, string(tx.Type), tx.Category, string(tx.Division), formatSQLiteDate(tx.Date))
		if err != nil {
			return &entity.StoreError{Op: "store", Err: err}
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return &entity.StoreError{Op: "store", Err: err}
	}

	return nil
}

// FindByID retrieves a transaction by its unique identifier
func (r *SQLiteTransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sqliteColumns+" FROM transactions WHERE id = ?", id)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}
	if err != nil {
		return nil, &entity.StoreError{Op: "find", Err: err}
	}

	return tx, nil
}

// buildFindQuery turns a filter into a WHERE clause and its arguments
func buildFindQuery(filter entity.Filter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	if v, ok := filter.DivisionValue(); ok {
		conds = append(conds, "division = ?")
		args = append(args, v)
	}
	if v, ok := filter.CategoryValue(); ok {
		conds = append(conds, "category = ?")
		args = append(args, v)
	}
	if v, ok := filter.TypeValue(); ok {
		conds = append(conds, "type = ?")
		args = append(args, v)
	}
	if start, end, ok := filter.DateRange(); ok {
		conds = append(conds, "date_utc BETWEEN ? AND ?")
		args = append(args, formatSQLiteDate(start), formatSQLiteDate(end))
	}

	query := "SELECT " + sqliteColumns + " FROM transactions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date_utc DESC, id DESC"

	return query, args
}

// Find returns the transactions matching filter, newest first
func (r *SQLiteTransactionRepository) Find(ctx context.Context, filter entity.Filter) ([]*entity.Transaction, error) {
	query, args := buildFindQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &entity.StoreError{Op: "find", Err: err}
	}
	defer rows.Close()

	result := make([]*entity.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, &entity.StoreError{Op: "find", Err: err}
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, &entity.StoreError{Op: "find", Err: err}
	}

	return result, nil
}

// Update overwrites an existing transaction
func (r *SQLiteTransactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET title = ?, amount = ?, type = ?, category = ?, division = ?, date_utc = ? WHERE id = ?",
		tx.Title, tx.Amount, string(tx.Type), tx.Category, string(tx.Division), formatSQLiteDate(tx.Date), tx.ID)
	if err != nil {
		return &entity.StoreError{Op: "update", Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return &entity.StoreError{Op: "update", Err: err}
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, tx.ID)
	}

	return nil
}

// Ping checks the database connection
func (r *SQLiteTransactionRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return &entity.StoreError{Op: "ping", Err: err}
	}
	return nil
}

// Close closes the database
func (r *SQLiteTransactionRepository) Close() error {
	return r.db.Close()
}

var _ repository.TransactionRepository = (*SQLiteTransactionRepository)(nil)
