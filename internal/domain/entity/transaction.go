package entity

import (
	"math"
	"strings"
	"time"
)

// TransactionType tells whether money came in or went out
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is part of the closed set of transaction types
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Division is the ledger partition a transaction belongs to
type Division string

const (
	DivisionPersonal Division = "Personal"
	DivisionOffice   Division = "Office"
)

// Valid reports whether d is part of the closed set of divisions
func (d Division) Valid() bool {
	return d == DivisionPersonal || d == DivisionOffice
}

const (
	// TransferCategory marks both halves of a transfer
	TransferCategory = "Transfer"

	// EditWindow is how long after its date a transaction may still be changed
	EditWindow = 12 * time.Hour

	// MinYear and MaxYear bound the dates every store can represent
	MinYear = 1
	MaxYear = 9999
)

// Transaction represents a single income or expense entry in a division
type Transaction struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Amount   float64         `json:"amount"`
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Division Division        `json:"division"`
	Date     time.Time       `json:"date"`
}

// Validate ensures the transaction meets all requirements
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "title is required")
	}

	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return NewValidationError("amount", "amount must be a number")
	}

	if t.Amount <= 0 {
		return NewValidationError("amount", "amount must be a positive value")
	}

	if t.Type == "" {
		return NewValidationError("type", "type is required")
	}
	if !t.Type.Valid() {
		return NewValidationError("type", "type must be one of income, expense")
	}

	if strings.TrimSpace(t.Category) == "" {
		return NewValidationError("category", "category is required")
	}

	if t.Division == "" {
		return NewValidationError("division", "division is required")
	}
	if !t.Division.Valid() {
		return NewValidationError("division", "division must be one of Personal, Office")
	}

	if y := t.Date.Year(); y < MinYear || y > MaxYear {
		return NewValidationError("date", "date must be between years 0001 and 9999")
	}

	return nil
}

// Editable reports whether the transaction is still inside its edit window at now
func (t *Transaction) Editable(now time.Time) bool {
	return now.Sub(t.Date) < EditWindow
}

// RoundAmount rounds an amount to the nearest cent
func RoundAmount(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// TransactionPatch carries the fields of a partial update. Nil fields are left untouched.
type TransactionPatch struct {
	Title    *string
	Amount   *float64
	Type     *TransactionType
	Category *string
	Division *Division
	Date     *time.Time
}

// Empty reports whether the patch changes nothing
func (p TransactionPatch) Empty() bool {
	return p.Title == nil && p.Amount == nil && p.Type == nil &&
		p.Category == nil && p.Division == nil && p.Date == nil
}

// Apply returns a copy of tx with the patch merged over it
func (p TransactionPatch) Apply(tx Transaction) Transaction {
	if p.Title != nil {
		tx.Title = *p.Title
	}
	if p.Amount != nil {
		tx.Amount = RoundAmount(*p.Amount)
	}
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Division != nil {
		tx.Division = *p.Division
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	return tx
}
