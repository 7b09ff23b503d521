package handler

import (
	"net/http"

	"github.com/damon-houk/division-ledger/internal/application/service"
	"github.com/damon-houk/division-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/division-ledger/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// StatsHandler serves the dashboard totals and the health check
type StatsHandler struct {
	service *service.StatsService
	logger  logger.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service *service.StatsService, log logger.Logger) *StatsHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &StatsHandler{
		service: service,
		logger:  log,
	}
}

// GetStats returns income, expense and balance totals. Without query
// parameters every transaction is counted.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	filter, err := parseFilter(r)
	if err != nil {
		sendServiceError(w, h.logger, err, "compute stats", requestID)
		return
	}

	stats, err := h.service.GetStats(r.Context(), filter)
	if err != nil {
		sendServiceError(w, h.logger, err, "compute stats", requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, stats)
}

// Health always answers 200 and reports the store state in the body
func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.service.Health(r.Context()))
}

// RegisterRoutes registers the stats handler routes
func (h *StatsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/stats", h.GetStats).Methods(http.MethodGet)

	h.logger.Info("Stats routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/health",
			"GET /api/stats",
		},
	})
}
