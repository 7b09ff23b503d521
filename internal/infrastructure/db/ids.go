// Package db holds the storage backends of the ledger
package db

import (
	"sort"

	"github.com/damon-houk/division-ledger/internal/domain/entity"
	"github.com/google/uuid"
)

// newID returns a time-ordered identifier so that IDs follow insertion order
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func assignID(tx *entity.Transaction) {
	if tx.ID == "" {
		tx.ID = newID()
	}
}

// sortNewestFirst orders by date descending, ties broken by ID descending
func sortNewestFirst(txs []*entity.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID > txs[j].ID
	})
}
