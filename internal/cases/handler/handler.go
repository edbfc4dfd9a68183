package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"caseflow/internal/cases"
	"caseflow/internal/zgw/client"
	"caseflow/internal/zgw/models"
	"caseflow/pkg/platform/httputil"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/requestcontext"
)

// Preprocessor enriches raw cases.
type Preprocessor interface {
	Preprocess(ctx context.Context, raw []*models.Case, group client.Group) ([]*cases.Case, error)
}

// Handler serves the enriched case list of a citizen.
type Handler struct {
	group    client.Group
	pipeline Preprocessor
	logger   *slog.Logger
}

// New creates a new case listing Handler.
func New(group client.Group, pipeline Preprocessor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		group:    group,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Register registers the case routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/cases", h.handleListCases)
}

func (h *Handler) handleListCases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	bsn := r.URL.Query().Get("bsn")
	if !validBSN(bsn) {
		h.logger.WarnContext(ctx, "invalid case list request",
			"request_id", requestID,
		)
		httputil.WriteError(w, httputil.NewError(httputil.CodeBadRequest, "bsn must be nine digits"))
		return
	}

	raw, err := h.listCases(ctx, bsn)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list cases",
			"request_id", requestID,
			"error", err,
		)
		if errors.Is(err, sentinel.ErrUnavailable) {
			httputil.WriteError(w, httputil.NewError(httputil.CodeUnavailable, "case registry unavailable"))
			return
		}
		httputil.WriteError(w, httputil.NewError(httputil.CodeInternal, "failed to list cases"))
		return
	}

	enriched, err := h.pipeline.Preprocess(ctx, raw, h.group)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enrich cases",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, httputil.NewError(httputil.CodeUnavailable, "case registry unavailable"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toListResponse(enriched))
}

func (h *Handler) listCases(ctx context.Context, bsn string) ([]*models.Case, error) {
	session, err := h.group.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			h.logger.WarnContext(ctx, "closing zgw session failed", "error", cerr)
		}
	}()
	return session.Zaken.ListCasesForBSN(ctx, bsn)
}

func validBSN(bsn string) bool {
	if len(bsn) != 9 {
		return false
	}
	for _, r := range bsn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
