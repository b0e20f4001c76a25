package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"passport/internal/platform/middleware"
	"passport/internal/stamp/models"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/httputil"
)

// Service defines the stamp operations consumed by this handler.
type Service interface {
	RecordStamp(ctx context.Context, code, notes string) error
	ListStamps(ctx context.Context, code string) ([]models.Entry, error)
}

// Handler exposes the stamp ledger endpoints.
type Handler struct {
	logger    *slog.Logger
	service   Service
	validator middleware.SponsorValidator
}

func New(service Service, validator middleware.SponsorValidator, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service, validator: validator}
}

// Register adds the stamp routes to the router. Recording requires a
// verified sponsor token; listing is open to the passport holder.
func (h *Handler) Register(r chi.Router) {
	r.With(middleware.RequireSponsor(h.validator, h.logger)).
		Post("/passport/{code}/stamps", h.handleRecord)
	r.Get("/passport/{code}/stamps", h.handleList)
}

type recordRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req recordRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	if err := h.service.RecordStamp(ctx, chi.URLParam(r, "code"), req.Notes); err != nil {
		h.logError(ctx, "stamp rejected", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "stamp recorded"})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.service.ListStamps(ctx, chi.URLParam(r, "code"))
	if err != nil {
		h.logError(ctx, "stamp listing failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"stamps": entries})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	attrs := []any{
		"error", err.Error(),
		"request_id", middleware.GetRequestID(ctx),
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal || dErrors.CodeOf(err) == dErrors.CodeUnavailable {
		h.logger.ErrorContext(ctx, msg, attrs...)
		return
	}
	h.logger.WarnContext(ctx, msg, attrs...)
}
