package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"passport/internal/attendee/models"
	"passport/internal/platform/middleware"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/httputil"
	"passport/pkg/requestcontext"
)

// Service defines the attendee operations consumed by this handler.
type Service interface {
	Ingest(ctx context.Context, reg models.Registration) (*models.User, bool, error)
	Disclose(ctx context.Context, code string, creds models.Credentials) (*models.DisclosedProfile, error)
	ActivationStatus(ctx context.Context, code string) (method string, initialized bool, err error)
	IssueUnlockKey(ctx context.Context, code, proof string) (string, error)
	UpdateProfile(ctx context.Context, code, unlockKey string, upd models.ProfileUpdate) error
}

// Handler exposes the passport endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register adds the attendee routes to the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/webhooks/registration", h.handleIngest)
	r.Get("/passport/{code}", h.handleDisclose)
	r.Get("/passport/{code}/status", h.handleStatus)
	r.Post("/passport/{code}/unlock", h.handleUnlock)
	r.Put("/passport/{code}/profile", h.handleUpdateProfile)
}

func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	u, created, err := h.service.Ingest(ctx, req.toRegistration())
	if err != nil {
		h.logError(ctx, "ingest failed", err)
		httputil.WriteError(w, err)
		return
	}

	msg := "record created"
	if !created {
		msg = "record already initialized, no update performed"
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":  msg,
		"short_id": u.ShortCode,
	})
}

func (h *Handler) handleDisclose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	creds := models.Credentials{
		PIN:       r.URL.Query().Get("pin"),
		UnlockKey: r.URL.Query().Get("unlock_key"),
	}
	if device := r.URL.Query().Get("device"); device != "" {
		ctx = requestcontext.WithDeviceID(ctx, device)
	}

	profile, err := h.service.Disclose(ctx, code, creds)
	if err != nil {
		h.logError(ctx, "disclosure rejected", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	method, initialized, err := h.service.ActivationStatus(ctx, chi.URLParam(r, "code"))
	if err != nil {
		h.logError(ctx, "status lookup failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"method":      method,
		"initialized": initialized,
	})
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	key, err := h.service.IssueUnlockKey(ctx, chi.URLParam(r, "code"), req.Value)
	if err != nil {
		h.logError(ctx, "unlock rejected", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"unlock_key": key})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	err := h.service.UpdateProfile(ctx, chi.URLParam(r, "code"), req.UnlockKey, req.toUpdate())
	if err != nil {
		h.logError(ctx, "profile update rejected", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
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
