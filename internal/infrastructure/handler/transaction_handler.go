package handler

import (
	"encoding/json"
	"net/http"

	"github.com/damon-houk/division-ledger/internal/application/service"
	"github.com/damon-houk/division-ledger/internal/domain/entity"
	"github.com/damon-houk/division-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/division-ledger/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// TransactionHandler handles HTTP requests for transactions
type TransactionHandler struct {
	service *service.TransactionService
	logger  logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service *service.TransactionService, log logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionHandler{
		service: service,
		logger:  log,
	}
}

func (h *TransactionHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		requestID := middleware.GetRequestID(r.Context())
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return false
	}
	return true
}

// CreateTransaction handles the creation of a new transaction
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req TransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	input, err := req.toTransaction()
	if err != nil {
		sendServiceError(w, h.logger, err, "create the transaction", requestID)
		return
	}

	tx, err := h.service.CreateTransaction(r.Context(), input)
	if err != nil {
		sendServiceError(w, h.logger, err, "create the transaction", requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, tx)
}

// ListTransactions handles filtered listing
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	filter, err := parseFilter(r)
	if err != nil {
		sendServiceError(w, h.logger, err, "list transactions", requestID)
		return
	}

	txs, err := h.service.ListTransactions(r.Context(), filter)
	if err != nil {
		sendServiceError(w, h.logger, err, "list transactions", requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, txs)
}

// GetTransaction handles retrieving a transaction by ID
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	tx, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		sendServiceError(w, h.logger, err, "retrieve the transaction", requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, tx)
}

// UpdateTransaction handles partial edits inside the edit window
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	var req TransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		sendServiceError(w, h.logger, err, "update the transaction", requestID)
		return
	}

	tx, err := h.service.UpdateTransaction(r.Context(), id, patch)
	if err != nil {
		sendServiceError(w, h.logger, err, "update the transaction", requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, tx)
}

// Transfer handles moving money between divisions
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req TransferRequest
	if !h.decode(w, r, &req) {
		return
	}

	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		sendServiceError(w, h.logger, err, "record the transfer", requestID)
		return
	}
	if amount == nil {
		sendServiceError(w, h.logger, entity.NewValidationError("amount", "amount is required"), "record the transfer", requestID)
		return
	}

	txs, err := h.service.Transfer(r.Context(), *amount, entity.Division(req.FromDivision), entity.Division(req.ToDivision))
	if err != nil {
		sendServiceError(w, h.logger, err, "record the transfer", requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, TransferResponse{
		Message:    "Transfer successful",
		OutgoingID: txs[0].ID,
		IncomingID: txs[1].ID,
	})
}

// parseFilter reads the listing filters from the query string
func parseFilter(r *http.Request) (entity.Filter, error) {
	q := r.URL.Query()

	filter := entity.Filter{
		Division: q.Get("division"),
		Category: q.Get("category"),
		Type:     q.Get("type"),
	}

	if s := q.Get("startDate"); s != "" {
		d, err := entity.ParseDate("startDate", s)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &d
	}
	if s := q.Get("endDate"); s != "" {
		d, err := entity.ParseDate("endDate", s)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &d
	}

	return filter, nil
}

// RegisterRoutes registers the transaction handler routes
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/transactions/transfer", h.Transfer).Methods(http.MethodPost)
	router.HandleFunc("/api/transactions", h.CreateTransaction).Methods(http.MethodPost)
	router.HandleFunc("/api/transactions", h.ListTransactions).Methods(http.MethodGet)
	router.HandleFunc("/api/transactions/{id}", h.GetTransaction).Methods(http.MethodGet)
	router.HandleFunc("/api/transactions/{id}", h.UpdateTransaction).Methods(http.MethodPut)

	h.logger.Info("Transaction routes registered", map[string]interface{}{
		"routes": []string{
			"POST /api/transactions/transfer",
			"POST /api/transactions",
			"GET /api/transactions",
			"GET /api/transactions/{id}",
			"PUT /api/transactions/{id}",
		},
	})
}
