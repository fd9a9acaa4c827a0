package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/sentival/backend/internal/contracts"
	"github.com/sentival/backend/pkg/logger"
)

const defaultListLimit = 100

// FlagHandler handles trading flag API endpoints
type FlagHandler struct {
	flags  contracts.FlagRepository
	logger *logger.Logger
}

// NewFlagHandler creates a new flag handler
func NewFlagHandler(flags contracts.FlagRepository, log *logger.Logger) *FlagHandler {
	return &FlagHandler{
		flags:  flags,
		logger: log,
	}
}

// List returns flags filtered by status
// GET /api/flags?status=OPEN&limit=50
func (h *FlagHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := contracts.FlagStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = contracts.StatusOpen
	}
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	flags, err := h.flags.ListByStatus(ctx, status, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list flags")
		respondError(w, http.StatusInternalServerError, "Failed to list flags")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": status,
		"count":  len(flags),
		"flags":  flags,
	})
}

// Get returns a single flag
// GET /api/flags/{id}
func (h *FlagHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flag id")
		return
	}

	flag, err := h.flags.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Flag not found")
			return
		}
		h.logger.WithError(err).Error("Failed to get flag")
		respondError(w, http.StatusInternalServerError, "Failed to get flag")
		return
	}

	respondJSON(w, http.StatusOK, flag)
}

// Close transitions an OPEN flag to CLOSED
// POST /api/flags/{id}/close
func (h *FlagHandler) Close(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid flag id")
		return
	}

	closedAt := time.Now()
	if err := h.flags.Close(ctx, id, contracts.StatusClosed, closedAt); err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusConflict, "Flag not found or not open")
			return
		}
		h.logger.WithError(err).Error("Failed to close flag")
		respondError(w, http.StatusInternalServerError, "Failed to close flag")
		return
	}

	h.logger.WithField("flag_id", id).Info("Flag closed manually")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":        id,
		"status":    contracts.StatusClosed,
		"closed_at": closedAt,
	})
}
