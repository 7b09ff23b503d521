package entity

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() Transaction {
	return Transaction{
		Title:    "Lunch",
		Amount:   15,
		Type:     TypeExpense,
		Category: "Food",
		Division: DivisionPersonal,
		Date:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(tx *Transaction)
		field  string
	}{
		{"Valid transaction", func(tx *Transaction) {}, ""},
		{"Missing title", func(tx *Transaction) { tx.Title = "  " }, "title"},
		{"Zero amount", func(tx *Transaction) { tx.Amount = 0 }, "amount"},
		{"Negative amount", func(tx *Transaction) { tx.Amount = -3 }, "amount"},
		{"Missing type", func(tx *Transaction) { tx.Type = "" }, "type"},
		{"Unknown type", func(tx *Transaction) { tx.Type = "refund" }, "type"},
		{"Missing category", func(tx *Transaction) { tx.Category = "" }, "category"},
		{"Missing division", func(tx *Transaction) { tx.Division = "" }, "division"},
		{"Unknown division", func(tx *Transaction) { tx.Division = "office" }, "division"},
		{"Year 1500 is kept", func(tx *Transaction) { tx.Date = time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC) }, ""},
		{"Year 9999 is kept", func(tx *Transaction) { tx.Date = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC) }, ""},
		{"Year past 9999", func(tx *Transaction) { tx.Date = time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC) }, "date"},
		{"Negative year", func(tx *Transaction) { tx.Date = time.Date(-1, 1, 1, 0, 0, 0, 0, time.UTC) }, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.modify(&tx)

			err := tx.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestTransactionEditable(t *testing.T) {
	tx := validTransaction()

	assert.True(t, tx.Editable(tx.Date.Add(time.Hour)))
	assert.True(t, tx.Editable(tx.Date.Add(EditWindow-time.Second)))
	assert.False(t, tx.Editable(tx.Date.Add(EditWindow)))
	assert.False(t, tx.Editable(tx.Date.Add(48*time.Hour)))
}

func TestTransactionPatchApply(t *testing.T) {
	tx := validTransaction()
	tx.ID = "fixed-id"

	title := "Dinner"
	amount := 20.456
	patch := TransactionPatch{Title: &title, Amount: &amount}

	updated := patch.Apply(tx)

	assert.Equal(t, "fixed-id", updated.ID)
	assert.Equal(t, "Dinner", updated.Title)
	assert.Equal(t, 20.46, updated.Amount)
	assert.Equal(t, tx.Category, updated.Category)
	assert.Equal(t, tx.Division, updated.Division)
	assert.Equal(t, "Lunch", tx.Title, "original must not change")

	assert.True(t, TransactionPatch{}.Empty())
	assert.False(t, patch.Empty())
}

func TestFilterMatches(t *testing.T) {
	tx := validTransaction()
	start := tx.Date.Add(-time.Hour)
	end := tx.Date.Add(time.Hour)
	before := tx.Date.Add(-2 * time.Hour)

	assert.True(t, Filter{}.Matches(&tx))
	assert.True(t, Filter{Division: "All", Category: "all", Type: "ALL"}.Matches(&tx))
	assert.True(t, Filter{Division: "Personal", Category: "Food", Type: "expense"}.Matches(&tx))
	assert.False(t, Filter{Division: "Office"}.Matches(&tx))
	assert.False(t, Filter{Category: "Rent"}.Matches(&tx))
	assert.False(t, Filter{Type: "income"}.Matches(&tx))

	assert.True(t, Filter{StartDate: &start, EndDate: &end}.Matches(&tx))
	assert.True(t, Filter{StartDate: &tx.Date, EndDate: &tx.Date}.Matches(&tx), "range is inclusive")
	assert.False(t, Filter{StartDate: &before, EndDate: &start}.Matches(&tx))
	assert.True(t, Filter{StartDate: &before}.Matches(&tx), "half range is ignored")
}

func TestComputeStats(t *testing.T) {
	t.Run("Empty set", func(t *testing.T) {
		assert.Equal(t, Stats{}, ComputeStats(nil))
	})

	t.Run("Mixed set", func(t *testing.T) {
		txs := []*Transaction{
			{Type: TypeIncome, Amount: 1000},
			{Type: TypeExpense, Amount: 15},
			{Type: TypeExpense, Amount: 0.1},
			{Type: TypeIncome, Amount: 0.2},
		}

		stats := ComputeStats(txs)

		assert.Equal(t, 1000.2, stats.TotalIncome)
		assert.Equal(t, 15.1, stats.TotalExpenses)
		assert.Equal(t, 985.1, stats.TotalBalance)
		assert.Equal(t, 4, stats.Count)
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    *float64
		wantErr bool
	}{
		{`15`, ptr(15.0), false},
		{`"15.5"`, ptr(15.5), false},
		{`" 7 "`, ptr(7.0), false},
		{`null`, nil, false},
		{``, nil, false},
		{`""`, nil, false},
		{`"abc"`, nil, true},
		{`true`, nil, true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(json.RawMessage(tt.raw))
		if tt.wantErr {
			assert.True(t, IsValidation(err), "raw %q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("date", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("date", "2024-03-01T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("startDate", "yesterday")
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "startDate")
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk full")
	err := error(&StoreError{Op: "store", Err: cause})

	assert.True(t, IsStore(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsValidation(err))
}

func ptr(f float64) *float64 { return &f }
