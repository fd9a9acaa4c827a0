package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sentival/backend/internal/api/handlers"
	"github.com/sentival/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// SSOT: route registration happens in this function only
func NewRouter(flagHandler *handlers.FlagHandler, tickerHandler *handlers.TickerHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Flag endpoints
	api.HandleFunc("/flags", flagHandler.List).Methods("GET")
	api.HandleFunc("/flags/{id:[0-9]+}", flagHandler.Get).Methods("GET")
	api.HandleFunc("/flags/{id:[0-9]+}/close", flagHandler.Close).Methods("POST")

	// Ticker endpoints
	api.HandleFunc("/tickers/{symbol}", tickerHandler.Get).Methods("GET")
	api.HandleFunc("/tickers/{symbol}/flags", tickerHandler.Flags).Methods("GET")
	api.HandleFunc("/tickers/{symbol}/posts", tickerHandler.Posts).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "sentival-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
