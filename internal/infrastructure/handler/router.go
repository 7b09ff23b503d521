package handler

import (
	"net/http"

	"github.com/damon-houk/division-ledger/internal/application/service"
	"github.com/damon-houk/division-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/division-ledger/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires every handler and the middleware chain
func NewRouter(txService *service.TransactionService, statsService *service.StatsService, corsOrigins []string, log logger.Logger) http.Handler {
	router := mux.NewRouter()

	NewTransactionHandler(txService, log).RegisterRoutes(router)
	NewStatsHandler(statsService, log).RegisterRoutes(router)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErrorResponse(w, log, "Not found", "No route matches "+r.Method+" "+r.URL.Path,
			http.StatusNotFound, middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErrorResponse(w, log, "Method not allowed", r.Method+" is not supported on "+r.URL.Path,
			http.StatusMethodNotAllowed, middleware.GetRequestID(r.Context()))
	})

	router.Use(middleware.RecoveryMiddleware(log))

	// Request IDs and CORS wrap the router so they also apply to unmatched routes and preflights
	var h http.Handler = router
	h = middleware.LoggingMiddleware(log)(h)
	h = middleware.CORSMiddleware(corsOrigins)(h)
	h = middleware.RequestIDMiddleware(h)

	return h
}
