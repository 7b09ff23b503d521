package db

import (
	"context"
	"testing"
	"time"

	"github.com/damon-houk/division-ledger/internal/domain/entity"
	"github.com/damon-houk/division-ledger/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contractBase = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

func contractTransaction(title string, typ entity.TransactionType, div entity.Division, category string, offset time.Duration) *entity.Transaction {
	return &entity.Transaction{
		Title:    title,
		Amount:   10,
		Type:     typ,
		Category: category,
		Division: div,
		Date:     contractBase.Add(offset),
	}
}

func titlesOf(txs []*entity.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.Title)
	}
	return out
}

// testRepositoryContract exercises the behavior every backend must share.
// reject turns a transaction into one the backend refuses to write.
func testRepositoryContract(t *testing.T, repo repository.TransactionRepository, reject func(tx *entity.Transaction)) {
	ctx := context.Background()

	t.Run("Empty store", func(t *testing.T) {
		txs, err := repo.Find(ctx, entity.Filter{})
		require.NoError(t, err)
		assert.NotNil(t, txs)
		assert.Empty(t, txs)
	})

	t.Run("Store and find by id", func(t *testing.T) {
		tx := contractTransaction("Lunch", entity.TypeExpense, entity.DivisionPersonal, "Food", 0)
		tx.Amount = 15.25

		id, err := repo.Store(ctx, tx)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, tx.ID)

		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Lunch", found.Title)
		assert.Equal(t, 15.25, found.Amount)
		assert.Equal(t, entity.TypeExpense, found.Type)
		assert.Equal(t, entity.DivisionPersonal, found.Division)
		assert.True(t, found.Date.Equal(tx.Date))
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "does-not-exist")
		assert.ErrorIs(t, err, entity.ErrNotFound)

		err = repo.Update(ctx, &entity.Transaction{ID: "does-not-exist", Title: "x", Amount: 1,
			Type: entity.TypeIncome, Category: "x", Division: entity.DivisionOffice, Date: contractBase})
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("Store all", func(t *testing.T) {
		out := contractTransaction("Transfer to Personal", entity.TypeExpense, entity.DivisionOffice, entity.TransferCategory, time.Hour)
		in := contractTransaction("Transfer from Office", entity.TypeIncome, entity.DivisionPersonal, entity.TransferCategory, time.Hour)

		require.NoError(t, repo.StoreAll(ctx, out, in))
		assert.NotEmpty(t, out.ID)
		assert.NotEmpty(t, in.ID)
		assert.NotEqual(t, out.ID, in.ID)

		txs, err := repo.Find(ctx, entity.Filter{Category: entity.TransferCategory})
		require.NoError(t, err)
		require.Len(t, txs, 2)
		// Same date: later insert first
		assert.Equal(t, []string{"Transfer from Office", "Transfer to Personal"}, titlesOf(txs))
	})

	t.Run("Filters and ordering", func(t *testing.T) {
		require.NoError(t, repo.StoreAll(ctx,
			contractTransaction("Salary", entity.TypeIncome, entity.DivisionPersonal, "Salary", -24*time.Hour),
			contractTransaction("Invoice", entity.TypeIncome, entity.DivisionOffice, "Sales", 2*time.Hour),
		))

		all, err := repo.Find(ctx, entity.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Invoice", "Transfer from Office", "Transfer to Personal", "Lunch", "Salary"}, titlesOf(all))

		for _, tc := range []struct {
			filter entity.Filter
			want   []string
		}{
			{entity.Filter{Division: "Office"}, []string{"Invoice", "Transfer to Personal"}},
			{entity.Filter{Division: "All", Type: "income"}, []string{"Invoice", "Transfer from Office", "Salary"}},
			{entity.Filter{Division: "Personal", Type: "expense", Category: "Food"}, []string{"Lunch"}},
			{entity.Filter{StartDate: ptrTime(contractBase), EndDate: ptrTime(contractBase.Add(time.Hour))},
				[]string{"Transfer from Office", "Transfer to Personal", "Lunch"}},
			{entity.Filter{EndDate: ptrTime(contractBase)}, []string{"Invoice", "Transfer from Office", "Transfer to Personal", "Lunch", "Salary"}},
			{entity.Filter{Category: "Travel"}, []string{}},
		} {
			txs, err := repo.Find(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, titlesOf(txs), "%+v", tc.filter)

			for _, tx := range txs {
				assert.True(t, tc.filter.Matches(tx))
			}
		}
	})

	t.Run("Update", func(t *testing.T) {
		tx := contractTransaction("Taxi", entity.TypeExpense, entity.DivisionOffice, "Travel", 3*time.Hour)
		_, err := repo.Store(ctx, tx)
		require.NoError(t, err)

		tx.Title = "Airport taxi"
		tx.Amount = 42
		require.NoError(t, repo.Update(ctx, tx))

		found, err := repo.FindByID(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, "Airport taxi", found.Title)
		assert.Equal(t, 42.0, found.Amount)
	})

	t.Run("Store all writes nothing when one write fails", func(t *testing.T) {
		out := contractTransaction("Transfer to Office", entity.TypeExpense, entity.DivisionPersonal, "Rollback", 4*time.Hour)
		in := contractTransaction("Transfer from Personal", entity.TypeIncome, entity.DivisionOffice, "Rollback", 4*time.Hour)
		reject(in)

		err := repo.StoreAll(ctx, out, in)
		require.Error(t, err)
		assert.True(t, entity.IsStore(err))

		txs, err := repo.Find(ctx, entity.Filter{Category: "Rollback"})
		require.NoError(t, err)
		assert.Empty(t, txs)

		_, err = repo.FindByID(ctx, out.ID)
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("Dates far from the epoch", func(t *testing.T) {
		past := contractTransaction("Ancient", entity.TypeIncome, entity.DivisionPersonal, "Archive", 0)
		past.Date = time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)
		future := contractTransaction("Distant", entity.TypeExpense, entity.DivisionPersonal, "Archive", 0)
		future.Date = time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)

		require.NoError(t, repo.StoreAll(ctx, past, future))

		for _, tx := range []*entity.Transaction{past, future} {
			found, err := repo.FindByID(ctx, tx.ID)
			require.NoError(t, err)
			assert.True(t, found.Date.Equal(tx.Date), "stored %s, read back %s", tx.Date, found.Date)
		}

		txs, err := repo.Find(ctx, entity.Filter{Category: "Archive"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Distant", "Ancient"}, titlesOf(txs))

		txs, err = repo.Find(ctx, entity.Filter{
			Category:  "Archive",
			StartDate: ptrTime(time.Date(1400, 1, 1, 0, 0, 0, 0, time.UTC)),
			EndDate:   ptrTime(time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC)),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Ancient"}, titlesOf(txs))
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}

func ptrTime(t time.Time) *time.Time { return &t }
