package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cloo-solutions/greenplate/internal/api"
	"github.com/cloo-solutions/greenplate/internal/api/middleware"
	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/cloo-solutions/greenplate/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

type DiscoveryService interface {
	Discover(ctx context.Context, req service.DiscoveryRequest) (*domain.ResultPage, error)
	Similar(ctx context.Context, req service.SimilarRequest) (*domain.ResultPage, error)
}

type DiscoveryHandler struct {
	svc      DiscoveryService
	logRepo  service.SearchLogRepository
	pageSize int
}

// NewDiscoveryHandler creates the search and similar-recipes handler. logRepo
// may be nil.
func NewDiscoveryHandler(svc DiscoveryService, logRepo service.SearchLogRepository, pageSize int) *DiscoveryHandler {
	if pageSize <= 0 {
		pageSize = service.DefaultPageSize
	}
	return &DiscoveryHandler{svc: svc, logRepo: logRepo, pageSize: pageSize}
}

// Search serves GET /search.
func (h *DiscoveryHandler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sq, err := parseSearchQuery(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	userID := middleware.GetUserID(r.Context())

	page, err := h.svc.Discover(r.Context(), service.DiscoveryRequest{
		Query:  sq.Query,
		UserID: userID,
		Sort:   sq.SortBy,
		Page:   sq.Page,
	})
	resp, ok := h.pageResponse(w, r, page, err, domain.RouteNone, sq)
	if !ok {
		return
	}

	if h.logRepo != nil && err == nil {
		entry := service.NewSearchLogEntry(sq.Query, userID, page, time.Since(start))
		if searchID, logErr := h.logRepo.CreateSearchLog(r.Context(), entry); logErr == nil {
			resp.SearchID = searchID
		} else {
			logging.Ctx(r.Context()).Warn().Err(logErr).Msg("failed to record search log")
		}
	}

	api.Success(w, http.StatusOK, resp)
}

// Similar serves GET /recipes/{slug}/similar.
func (h *DiscoveryHandler) Similar(w http.ResponseWriter, r *http.Request) {
	sq, err := parseSearchQuery(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	page, err := h.svc.Similar(r.Context(), service.SimilarRequest{
		Slug:   chi.URLParam(r, "slug"),
		UserID: middleware.GetUserID(r.Context()),
		Sort:   sq.SortBy,
		Page:   sq.Page,
	})
	resp, ok := h.pageResponse(w, r, page, err, domain.RouteExact, sq)
	if !ok {
		return
	}
	api.Success(w, http.StatusOK, resp)
}

// SearchFeedback records which result the user opened for a prior search.
func (h *DiscoveryHandler) SearchFeedback(w http.ResponseWriter, r *http.Request) {
	if h.logRepo == nil {
		api.Error(w, http.StatusNotImplemented, "search feedback not available")
		return
	}

	var req SearchFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		api.HandleError(w, err)
		return
	}

	if err := h.logRepo.RecordSearchSelection(r.Context(), req.SearchID, req.RecipeID); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]any{"status": "ok"})
}

// pageResponse renders a served page, or degrades a not-found or store
// failure into an empty page. Malformed input is written as 400 and ok is
// false.
func (h *DiscoveryHandler) pageResponse(w http.ResponseWriter, r *http.Request, page *domain.ResultPage, err error, route domain.Route, sq SearchQuery) (*PageResponse, bool) {
	if err == nil {
		return pageToResponse(StatusOK, page), true
	}
	if domain.IsValidation(err) {
		api.HandleError(w, err)
		return nil, false
	}

	status := StatusUnavailable
	if domain.IsNotFound(err) {
		status = StatusNotFound
	} else {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("serving empty page")
		telemetry.CaptureError(r.Context(), err)
	}

	sortKey, _ := domain.ParseSortKey(sq.SortBy)
	return pageToResponse(status, domain.EmptyPage(route, sortKey, sq.Page, h.pageSize)), true
}
