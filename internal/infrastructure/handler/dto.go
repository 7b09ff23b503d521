package handler

import (
	"encoding/json"

	"github.com/damon-houk/division-ledger/internal/domain/entity"
)

// TransactionRequest is the body of the create and edit endpoints.
// Amount is kept raw so that numeric strings can be coerced.
type TransactionRequest struct {
	Title    *string         `json:"title"`
	Amount   json.RawMessage `json:"amount"`
	Type     *string         `json:"type"`
	Category *string         `json:"category"`
	Division *string         `json:"division"`
	Date     *string         `json:"date"`
}

// toTransaction builds a new transaction; absent fields stay empty and are caught by validation
func (req *TransactionRequest) toTransaction() (entity.Transaction, error) {
	var tx entity.Transaction

	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		return tx, err
	}
	if amount != nil {
		tx.Amount = *amount
	}

	tx.Title = deref(req.Title)
	tx.Type = entity.TransactionType(deref(req.Type))
	tx.Category = deref(req.Category)
	tx.Division = entity.Division(deref(req.Division))

	if s := deref(req.Date); s != "" {
		date, err := entity.ParseDate("date", s)
		if err != nil {
			return tx, err
		}
		tx.Date = date
	}

	return tx, nil
}

// toPatch keeps only the fields present in the body
func (req *TransactionRequest) toPatch() (entity.TransactionPatch, error) {
	var patch entity.TransactionPatch

	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		return patch, err
	}
	patch.Amount = amount
	patch.Title = req.Title
	patch.Category = req.Category

	if req.Type != nil {
		t := entity.TransactionType(*req.Type)
		patch.Type = &t
	}
	if req.Division != nil {
		d := entity.Division(*req.Division)
		patch.Division = &d
	}
	if req.Date != nil {
		date, err := entity.ParseDate("date", *req.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}

	return patch, nil
}

// TransferRequest is the body of the transfer endpoint
type TransferRequest struct {
	Amount       json.RawMessage `json:"amount"`
	FromDivision string          `json:"fromDivision"`
	ToDivision   string          `json:"toDivision"`
}

// TransferResponse confirms a transfer
type TransferResponse struct {
	Message    string `json:"message"`
	OutgoingID string `json:"outgoingId"`
	IncomingID string `json:"incomingId"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
