// Package handler exposes the acknowledgment workflow over HTTP.
//
// Author routes (create, reconcile, unassign, remind, inspect) require the
// manager or admin role. Recipient routes act on the caller's own record;
// the caller always comes from the authenticated context, never the body.
// Authentication itself is applied by the router that mounts this handler.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"siteops/internal/acknowledgment/models"
	"siteops/internal/acknowledgment/notify"
	"siteops/internal/acknowledgment/readprogress"
	"siteops/internal/acknowledgment/recipients"
	"siteops/internal/acknowledgment/sequencer"
	"siteops/internal/acknowledgment/service"
	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
	"siteops/pkg/platform/httputil"
	"siteops/pkg/platform/middleware/auth"
	request "siteops/pkg/platform/middleware/request"
	"siteops/pkg/requestcontext"
)

// AuthorRoles may create and manage documents.
var AuthorRoles = []string{"manager", "admin"}

type Service interface {
	CreateDocument(ctx context.Context, req service.CreateDocumentRequest) (*models.Document, *service.ReconcileResult, error)
	GetDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	ListAcknowledgments(ctx context.Context, docID id.DocumentID) ([]*models.Acknowledgment, error)
	ReconcileAssignment(ctx context.Context, docID id.DocumentID, sel recipients.Selection) (*service.ReconcileResult, error)
	Unassign(ctx context.Context, docID id.DocumentID, userID id.UserID) error
	NotifyRecipients(ctx context.Context, docID id.DocumentID, recipientIDs []id.UserID) (*notify.DeliveryReport, error)
	RecordViewed(ctx context.Context, docID id.DocumentID, userID id.UserID) (*models.Acknowledgment, error)
	RecordProgress(ctx context.Context, docID id.DocumentID, userID id.UserID, sig readprogress.Signal) (bool, *models.Acknowledgment, error)
	RecordSignature(ctx context.Context, req service.SignRequest) (*models.Acknowledgment, error)
	Dismiss(ctx context.Context, docID id.DocumentID, userID id.UserID) (*models.Acknowledgment, error)
	GetObligationQueue(ctx context.Context, userID id.UserID) (*sequencer.Queue, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the routes on r. r must already authenticate callers.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(h.logger, AuthorRoles...))
		r.Post("/documents", h.handleCreateDocument)
		r.Get("/documents/{id}", h.handleGetDocument)
		r.Get("/documents/{id}/acknowledgments", h.handleListAcknowledgments)
		r.Put("/documents/{id}/recipients", h.handleReconcile)
		r.Delete("/documents/{id}/recipients/{userID}", h.handleUnassign)
		r.Post("/documents/{id}/notify", h.handleNotify)
	})

	r.Post("/documents/{id}/view", h.handleView)
	r.Post("/documents/{id}/progress", h.handleProgress)
	r.Post("/documents/{id}/sign", h.handleSign)
	r.Post("/documents/{id}/dismiss", h.handleDismiss)
	r.Get("/me/obligations", h.handleObligations)
}

type createDocumentRequest struct {
	Kind       string               `json:"kind"`
	Title      string               `json:"title"`
	Body       string               `json:"body"`
	ContentRef string               `json:"content_ref"`
	Mandatory  *bool                `json:"mandatory"`
	Recipients recipients.Selection `json:"recipients"`

	kind id.DocumentKind
}

// Validate parses the kind. Mandatory defaults to true; risk packs cannot
// be advisory.
func (r *createDocumentRequest) Validate() error {
	kind, err := id.ParseDocumentKind(strings.TrimSpace(r.Kind))
	if err != nil {
		return dErrors.Recode(err, dErrors.CodeInvalidInput, dErrors.CodeValidation)
	}
	r.kind = kind
	if r.Mandatory == nil {
		mandatory := true
		r.Mandatory = &mandatory
	}
	if r.Recipients.IsEmpty() {
		return dErrors.New(dErrors.CodeValidation, "recipients are required")
	}
	return nil
}

type createDocumentResponse struct {
	Document   *models.Document         `json:"document"`
	Assignment *service.ReconcileResult `json:"assignment"`
}

type reconcileRequest struct {
	recipients.Selection
}

func (r *reconcileRequest) Validate() error {
	if r.IsEmpty() {
		return dErrors.New(dErrors.CodeValidation, "recipients are required")
	}
	return nil
}

type notifyRequest struct {
	RecipientIDs []string `json:"recipient_ids"`

	parsed []id.UserID
}

func (r *notifyRequest) Validate() error {
	for _, raw := range r.RecipientIDs {
		u, err := id.ParseUserID(raw)
		if err != nil {
			return dErrors.Recode(err, dErrors.CodeInvalidInput, dErrors.CodeValidation)
		}
		r.parsed = append(r.parsed, u)
	}
	return nil
}

type progressRequest struct {
	Trigger        string  `json:"trigger"`
	ScrollFraction float64 `json:"scroll_fraction"`
	DwellMillis    int64   `json:"dwell_ms"`
}

func (r *progressRequest) Validate() error {
	return r.signal().Validate()
}

func (r *progressRequest) signal() readprogress.Signal {
	return readprogress.Signal{
		Trigger:        readprogress.Trigger(r.Trigger),
		ScrollFraction: r.ScrollFraction,
		Dwell:          time.Duration(r.DwellMillis) * time.Millisecond,
	}
}

type progressResponse struct {
	Viewed         bool                   `json:"viewed"`
	Acknowledgment *models.Acknowledgment `json:"acknowledgment"`
}

type signRequest struct {
	Signature string `json:"signature"`
	Comment   string `json:"comment"`
}

func (r *signRequest) Validate() error {
	if strings.TrimSpace(r.Signature) == "" {
		return dErrors.New(dErrors.CodeValidation, "signature is required")
	}
	return nil
}

type obligationsResponse struct {
	*sequencer.Queue
	Next *sequencer.Item `json:"next"`
}

func (h *Handler) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[createDocumentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	doc, result, err := h.service.CreateDocument(ctx, service.CreateDocumentRequest{
		Kind:       req.kind,
		Title:      req.Title,
		Body:       req.Body,
		ContentRef: req.ContentRef,
		Mandatory:  *req.Mandatory,
		CreatedBy:  requestcontext.UserID(ctx),
		Recipients: req.Recipients,
	})
	if err != nil {
		h.fail(w, r, "failed to create document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, createDocumentResponse{Document: doc, Assignment: result})
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	doc, err := h.service.GetDocument(r.Context(), docID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleListAcknowledgments(w http.ResponseWriter, r *http.Request) {
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	acks, err := h.service.ListAcknowledgments(r.Context(), docID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"acknowledgments": acks})
}

func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[reconcileRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	result, err := h.service.ReconcileAssignment(ctx, docID, req.Selection)
	if err != nil {
		h.fail(w, r, "failed to reconcile recipients", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleUnassign(w http.ResponseWriter, r *http.Request) {
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Unassign(r.Context(), docID, userID); err != nil {
		h.fail(w, r, "failed to unassign recipient", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleNotify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[notifyRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	report, err := h.service.NotifyRecipients(ctx, docID, req.parsed)
	if err != nil {
		h.fail(w, r, "failed to send reminders", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	ack, err := h.service.RecordViewed(r.Context(), docID, requestcontext.UserID(r.Context()))
	if err != nil {
		h.fail(w, r, "failed to record view", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ack)
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[progressRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	viewed, ack, err := h.service.RecordProgress(ctx, docID, requestcontext.UserID(ctx), req.signal())
	if err != nil {
		h.fail(w, r, "failed to record read progress", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, progressResponse{Viewed: viewed, Acknowledgment: ack})
}

func (h *Handler) handleSign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[signRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	ack, err := h.service.RecordSignature(ctx, service.SignRequest{
		DocumentID:  docID,
		RecipientID: requestcontext.UserID(ctx),
		Signature:   req.Signature,
		Comment:     req.Comment,
		UserAgent:   requestcontext.UserAgent(ctx),
	})
	if err != nil {
		h.fail(w, r, "failed to record signature", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ack)
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	docID, ok := documentID(w, r)
	if !ok {
		return
	}
	ack, err := h.service.Dismiss(r.Context(), docID, requestcontext.UserID(r.Context()))
	if err != nil {
		h.fail(w, r, "failed to dismiss advisory", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ack)
}

func (h *Handler) handleObligations(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.GetObligationQueue(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		h.fail(w, r, "failed to build obligation queue", err)
		return
	}
	resp := obligationsResponse{Queue: q}
	if next, ok := q.Next(); ok {
		resp.Next = &next
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// fail logs server-side failures and writes the mapped error response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	if de, ok := dErrors.As(err); !ok || dErrors.ToHTTPStatus(de.Code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg,
			"request_id", request.GetRequestID(ctx),
			"user_id", requestcontext.UserID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func documentID(w http.ResponseWriter, r *http.Request) (id.DocumentID, bool) {
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.DocumentID{}, false
	}
	return docID, true
}
