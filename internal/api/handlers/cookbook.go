package handlers

import (
	"context"
	"net/http"

	"github.com/cloo-solutions/greenplate/internal/api"
	"github.com/cloo-solutions/greenplate/internal/api/middleware"
	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/cloo-solutions/greenplate/internal/telemetry"
)

const defaultSummarySize = 5

type CookbookService interface {
	Page(ctx context.Context, req service.CookbookRequest) (*domain.ResultPage, error)
	Favorites(ctx context.Context, userID int64, n int) ([]*domain.Recipe, error)
	FavoriteCategories(ctx context.Context, userID int64, n int) ([]service.CategoryCount, error)
}

type CookbookHandler struct {
	svc      CookbookService
	pageSize int
}

func NewCookbookHandler(svc CookbookService, pageSize int) *CookbookHandler {
	if pageSize <= 0 {
		pageSize = service.DefaultCookbookPageSize
	}
	return &CookbookHandler{svc: svc, pageSize: pageSize}
}

// Page serves GET /cookbook. Store failures render an empty cookbook.
func (h *CookbookHandler) Page(w http.ResponseWriter, r *http.Request) {
	sq, err := parseSearchQuery(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	page, err := h.svc.Page(r.Context(), service.CookbookRequest{
		UserID: middleware.GetUserID(r.Context()),
		Sort:   sq.SortBy,
		Page:   sq.Page,
	})
	switch {
	case err == nil:
		api.Success(w, http.StatusOK, pageToResponse(StatusOK, page))
	case domain.IsValidation(err):
		api.HandleError(w, err)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("serving empty cookbook")
		telemetry.CaptureError(r.Context(), err)
		sortKey, _ := domain.ParseSortKey(sq.SortBy)
		api.Success(w, http.StatusOK, pageToResponse(StatusUnavailable, domain.EmptyPage(domain.RouteNone, sortKey, sq.Page, h.pageSize)))
	}
}

// Favorites serves GET /cookbook/favorites.
func (h *CookbookHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	n, err := parseLimit(r, defaultSummarySize)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	recipes, err := h.svc.Favorites(r.Context(), middleware.GetUserID(r.Context()), n)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]RecipeResponse, len(recipes))
	for i, rec := range recipes {
		out[i] = recipeToResponse(rec)
	}
	api.Success(w, http.StatusOK, map[string]any{"recipes": out})
}

// Categories serves GET /cookbook/categories.
func (h *CookbookHandler) Categories(w http.ResponseWriter, r *http.Request) {
	n, err := parseLimit(r, defaultSummarySize)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	counts, err := h.svc.FavoriteCategories(r.Context(), middleware.GetUserID(r.Context()), n)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if counts == nil {
		counts = []service.CategoryCount{}
	}
	api.Success(w, http.StatusOK, map[string]any{"categories": counts})
}
