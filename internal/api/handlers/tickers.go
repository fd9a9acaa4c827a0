package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/pkg/logger"
)

const defaultPostsLimit = 10

// TickerHandler handles ticker API endpoints
type TickerHandler struct {
	tickers    contracts.TickerRepository
	flags      contracts.FlagRepository
	sentiments contracts.SentimentRepository
	logger     *logger.Logger
}

// NewTickerHandler creates a new ticker handler
func NewTickerHandler(tickers contracts.TickerRepository, flags contracts.FlagRepository, sentiments contracts.SentimentRepository, log *logger.Logger) *TickerHandler {
	return &TickerHandler{
		tickers:    tickers,
		flags:      flags,
		sentiments: sentiments,
		logger:     log,
	}
}

// Get returns a ticker by symbol
// GET /api/tickers/{symbol}
func (h *TickerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	ticker, err := h.tickers.GetBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Ticker not found")
			return
		}
		h.logger.WithError(err).Error("Failed to get ticker")
		respondError(w, http.StatusInternalServerError, "Failed to get ticker")
		return
	}

	respondJSON(w, http.StatusOK, ticker)
}

// Flags returns the flag history for a ticker
// GET /api/tickers/{symbol}/flags
func (h *TickerHandler) Flags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	ticker, err := h.tickers.GetBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Ticker not found")
			return
		}
		h.logger.WithError(err).Error("Failed to get ticker")
		respondError(w, http.StatusInternalServerError, "Failed to get ticker")
		return
	}

	flags, err := h.flags.ListByTicker(ctx, ticker.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list ticker flags")
		respondError(w, http.StatusInternalServerError, "Failed to list ticker flags")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"count":  len(flags),
		"flags":  flags,
	})
}

// Posts returns the highest-scoring stored posts for a ticker
// GET /api/tickers/{symbol}/posts?limit=10
func (h *TickerHandler) Posts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	ticker, err := h.tickers.GetBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Ticker not found")
			return
		}
		h.logger.WithError(err).Error("Failed to get ticker")
		respondError(w, http.StatusInternalServerError, "Failed to get ticker")
		return
	}

	limit := defaultPostsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	posts, err := h.sentiments.TopPosts(ctx, ticker.ID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list ticker posts")
		respondError(w, http.StatusInternalServerError, "Failed to list ticker posts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"count":  len(posts),
		"posts":  posts,
	})
}
