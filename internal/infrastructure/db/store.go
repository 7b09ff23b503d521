package db

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/damon-houk/division-ledger/internal/domain/repository"
	"github.com/damon-houk/division-ledger/internal/infrastructure/logger"
	"github.com/dgraph-io/badger/v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 5
	connectInterval = 2 * time.Second
)

// Backend names the storage engine selected by a DSN
type Backend string

const (
	BackendBadger   Backend = "badger"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
)

// ParseDSN splits a store DSN into its backend and the backend specific address.
// A DSN without a scheme is treated as a badger directory.
func ParseDSN(dsn string) (Backend, string, error) {
	scheme, rest, found := strings.Cut(dsn, "://")
	if !found {
		if dsn == "" {
			return "", "", fmt.Errorf("store DSN is empty")
		}
		return BackendBadger, dsn, nil
	}

	switch strings.ToLower(scheme) {
	case "badger":
		return BackendBadger, rest, nil
	case "sqlite", "sqlite3":
		return BackendSQLite, rest, nil
	case "postgres", "postgresql":
		// the pgx driver understands the URL form as is
		return BackendPostgres, dsn, nil
	case "mysql":
		return BackendMySQL, rest, nil
	default:
		return "", "", fmt.Errorf("unsupported store scheme %q", scheme)
	}
}

// Open connects to the store described by dsn
func Open(dsn string, log logger.Logger) (repository.TransactionRepository, error) {
	backend, addr, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	log.Info("Opening transaction store", map[string]interface{}{
		"backend": string(backend),
	})

	var repo repository.TransactionRepository
	switch backend {
	case BackendSQLite:
		repo, err = openSQLite(addr)
	case BackendPostgres:
		repo, err = openGorm(postgres.Open(addr), log)
	case BackendMySQL:
		repo, err = openGorm(mysql.Open(withParseTime(addr)), log)
	default:
		repo, err = openBadger(addr, log)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}

	return repo, nil
}

func openSQLite(path string) (repository.TransactionRepository, error) {
	repo, err := NewSQLiteTransactionRepository(path)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func openBadger(path string, log logger.Logger) (repository.TransactionRepository, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	opts := badger.DefaultOptions(path).WithLogger(newBadgerLogger(log))

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return NewBadgerTransactionRepository(badgerDB), nil
}

func openGorm(dialector gorm.Dialector, log logger.Logger) (repository.TransactionRepository, error) {
	cfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var (
		gdb *gorm.DB
		err error
	)
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		gdb, err = gorm.Open(dialector, cfg)
		if err == nil {
			if err = pingGorm(gdb); err == nil {
				break
			}
		}

		if attempt < connectAttempts {
			log.Warn("Store connection failed, retrying", map[string]interface{}{
				"attempt":  attempt,
				"max":      connectAttempts,
				"error":    err.Error(),
				"retry_in": connectInterval.String(),
			})
			time.Sleep(connectInterval)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect after %d attempts: %w", connectAttempts, err)
	}

	repo, err := NewGormTransactionRepository(gdb)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// pingGorm checks the connection and releases the pool when it is unusable
func pingGorm(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return err
	}
	return nil
}

// withParseTime makes the mysql driver return DATETIME columns as time.Time
func withParseTime(dsn string) string {
	if strings.Contains(strings.ToLower(dsn), "parsetime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}
