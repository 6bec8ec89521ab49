// Package handler exposes the directory sync endpoints used by the identity
// provider integration. Routes are guarded by the admin token.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"siteops/internal/directory"
	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
	"siteops/pkg/platform/httputil"
	"siteops/pkg/platform/middleware/admin"
	request "siteops/pkg/platform/middleware/request"
	"siteops/pkg/requestcontext"
)

type Service interface {
	Sync(ctx context.Context, user *directory.User) error
	Get(ctx context.Context, userID id.UserID) (*directory.User, error)
}

type Handler struct {
	service    Service
	logger     *slog.Logger
	adminToken string
}

func New(service Service, adminToken string, logger *slog.Logger) *Handler {
	return &Handler{service: service, adminToken: adminToken, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/directory/users", func(r chi.Router) {
		r.Use(admin.RequireAdminToken(h.adminToken, h.logger))
		r.Put("/{id}", h.handleSync)
		r.Get("/{id}", h.handleGet)
	})
}

type syncUserRequest struct {
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
	Active   *bool    `json:"active"`
}

func (r *syncUserRequest) Validate() error {
	if r.Active == nil {
		return dErrors.New(dErrors.CodeValidation, "active is required")
	}
	if len(r.Roles) > 50 {
		return dErrors.New(dErrors.CodeValidation, "too many roles")
	}
	return nil
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[syncUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := directory.NewUser(userID, req.Email, req.FullName, req.Roles, *req.Active, requestcontext.Now(ctx))
	if err != nil {
		httputil.WriteError(w, dErrors.Recode(err, dErrors.CodeInvariantViolation, dErrors.CodeValidation))
		return
	}
	if err := h.service.Sync(ctx, user); err != nil {
		h.logger.ErrorContext(ctx, "failed to sync directory user",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}
