package db

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/damon-houk/division-ledger/internal/domain/entity"
	"github.com/damon-houk/division-ledger/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteTransactionRepository(t *testing.T) {
	repo, err := NewSQLiteTransactionRepository(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	require.NoError(t, err)
	defer repo.Close()

	testRepositoryContract(t, repo, rejectNonPositiveAmount)
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := NewSQLiteTransactionRepository(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewSQLiteTransactionRepository(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestOpenSQLiteFromDSN(t *testing.T) {
	log := logger.NewJSONLogger(io.Discard, logger.InfoLevel)

	repo, err := Open("sqlite://"+filepath.Join(t.TempDir(), "ledger.db"), log)
	require.NoError(t, err)
	defer repo.Close()

	_, ok := repo.(*SQLiteTransactionRepository)
	assert.True(t, ok)
}

func TestBuildFindQuery(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	query, args := buildFindQuery(entity.Filter{})
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
	assert.True(t, strings.HasSuffix(query, "ORDER BY date_utc DESC, id DESC"))

	query, args = buildFindQuery(entity.Filter{Division: "Office", Category: "All", Type: "income", StartDate: &start, EndDate: &end})
	assert.Contains(t, query, "WHERE division = ? AND type = ? AND date_utc BETWEEN ? AND ?")
	assert.NotContains(t, query, "category")
	assert.Equal(t, []interface{}{"Office", "income", "2024-01-01T00:00:00.000000000Z", "2024-01-02T00:00:00.000000000Z"}, args)
}

func TestSQLiteDateOrdering(t *testing.T) {
	dates := []time.Time{
		time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1500, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1969, 12, 31, 23, 59, 59, 999999999, time.UTC),
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 10, 18, 0, 0, 1, time.UTC),
		time.Date(2024, 5, 10, 21, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
		time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC),
	}

	for i := 1; i < len(dates); i++ {
		prev, cur := formatSQLiteDate(dates[i-1]), formatSQLiteDate(dates[i])
		assert.Less(t, prev, cur)

		parsed, err := time.Parse(sqliteDateLayout, cur)
		require.NoError(t, err)
		assert.True(t, parsed.Equal(dates[i]))
	}
}

func TestSQLiteMigratesNanosecondDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	// a database written before dates were stored as text
	legacy, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = legacy.Exec(legacySchema)
	require.NoError(t, err)
	for _, row := range []struct {
		id    string
		nanos int64
	}{
		{"after-epoch", time.Date(2024, 5, 10, 18, 0, 0, 250, time.UTC).UnixNano()},
		{"before-epoch", time.Date(1960, 3, 1, 12, 30, 0, 5, time.UTC).UnixNano()},
	} {
		_, err = legacy.Exec("INSERT INTO transactions (id, title, amount, type, category, division, date_nanos) VALUES (?, 'Old', 5, 'income', 'Misc', 'Office', ?)",
			row.id, row.nanos)
		require.NoError(t, err)
	}
	require.NoError(t, legacy.Close())

	repo, err := NewSQLiteTransactionRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	after, err := repo.FindByID(ctx, "after-epoch")
	require.NoError(t, err)
	assert.True(t, after.Date.Equal(time.Date(2024, 5, 10, 18, 0, 0, 250, time.UTC)), after.Date.String())

	before, err := repo.FindByID(ctx, "before-epoch")
	require.NoError(t, err)
	assert.True(t, before.Date.Equal(time.Date(1960, 3, 1, 12, 30, 0, 5, time.UTC)), before.Date.String())
}

// legacySchema is version 1 of the schema as recorded by golang-migrate
const legacySchema = `
CREATE TABLE schema_migrations (version uint64, dirty bool);
CREATE UNIQUE INDEX version_unique ON schema_migrations (version);
INSERT INTO schema_migrations (version, dirty) VALUES (1, false);
CREATE TABLE transactions (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    amount     REAL NOT NULL CHECK (amount > 0),
    type       TEXT NOT NULL CHECK (type IN ('income', 'expense')),
    category   TEXT NOT NULL,
    division   TEXT NOT NULL CHECK (division IN ('Personal', 'Office')),
    date_nanos INTEGER NOT NULL
);
CREATE INDEX idx_transactions_date ON transactions (date_nanos DESC, id DESC);
`

// rejectNonPositiveAmount trips the amount CHECK constraint
func rejectNonPositiveAmount(tx *entity.Transaction) {
	tx.Amount = -1
}
