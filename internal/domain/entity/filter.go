package entity

import (
	"strings"
	"time"
)

// MatchAll is the filter value that imposes no constraint on a field
const MatchAll = "All"

// Filter narrows a transaction listing. Empty and MatchAll values are ignored,
// and the date range only applies when both bounds are set.
type Filter struct {
	Division  string
	Category  string
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
}

func active(v string) bool {
	return v != "" && !strings.EqualFold(v, MatchAll)
}

// DivisionValue returns the division constraint and whether one applies
func (f Filter) DivisionValue() (string, bool) { return f.Division, active(f.Division) }

// CategoryValue returns the category constraint and whether one applies
func (f Filter) CategoryValue() (string, bool) { return f.Category, active(f.Category) }

// TypeValue returns the type constraint and whether one applies
func (f Filter) TypeValue() (string, bool) { return f.Type, active(f.Type) }

// DateRange returns the inclusive date bounds and whether they apply
func (f Filter) DateRange() (time.Time, time.Time, bool) {
	if f.StartDate == nil || f.EndDate == nil {
		return time.Time{}, time.Time{}, false
	}
	return *f.StartDate, *f.EndDate, true
}

// Matches reports whether tx satisfies every active constraint
func (f Filter) Matches(tx *Transaction) bool {
	if v, ok := f.DivisionValue(); ok && string(tx.Division) != v {
		return false
	}
	if v, ok := f.CategoryValue(); ok && tx.Category != v {
		return false
	}
	if v, ok := f.TypeValue(); ok && string(tx.Type) != v {
		return false
	}
	if start, end, ok := f.DateRange(); ok {
		if tx.Date.Before(start) || tx.Date.After(end) {
			return false
		}
	}
	return true
}
