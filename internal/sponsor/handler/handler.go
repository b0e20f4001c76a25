package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"passport/internal/platform/middleware"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/httputil"
)

// Service defines the sponsor operations consumed by this handler.
type Service interface {
	Authenticate(ctx context.Context, sponsorID, secret string) (string, error)
}

// Handler exposes the sponsor login endpoint.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register adds the sponsor routes to the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sponsors/token", h.handleToken)
}

type tokenRequest struct {
	SponsorID  string `json:"sponsor_id"`
	SponsorKey string `json:"sponsor_key"`
}

func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	signed, err := h.service.Authenticate(ctx, req.SponsorID, req.SponsorKey)
	if err != nil {
		h.logger.WarnContext(ctx, "sponsor token rejected",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"token": signed})
}
