package handlers

import (
	"context"
	"net/http"

	"github.com/cloo-solutions/greenplate/internal/api"
	"github.com/cloo-solutions/greenplate/internal/api/middleware"
	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

type InteractionService interface {
	RateRecipe(ctx context.Context, userID int64, slug string, rating domain.Rating) error
	AddBookmark(ctx context.Context, userID int64, slug string) (domain.BookmarkStatus, error)
	RemoveBookmark(ctx context.Context, userID int64, slug string) (domain.BookmarkStatus, error)
	ToggleBookmark(ctx context.Context, userID int64, slug string) (domain.BookmarkStatus, error)
	IsBookmarked(ctx context.Context, userID int64, slug string) (bool, error)
	UserRating(ctx context.Context, userID int64, slug string) (domain.Rating, error)
}

type InteractionHandler struct {
	svc InteractionService
}

func NewInteractionHandler(svc InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

type BookmarkResponse struct {
	Slug       string `json:"slug"`
	Status     string `json:"status,omitempty"`
	Bookmarked bool   `json:"bookmarked"`
}

type RatingResponse struct {
	Slug    string `json:"slug"`
	Rating  int    `json:"rating"`
	Percent int    `json:"percent"`
}

func (h *InteractionHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	h.mutateBookmark(w, r, h.svc.AddBookmark)
}

func (h *InteractionHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	h.mutateBookmark(w, r, h.svc.RemoveBookmark)
}

func (h *InteractionHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	h.mutateBookmark(w, r, h.svc.ToggleBookmark)
}

func (h *InteractionHandler) mutateBookmark(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, string) (domain.BookmarkStatus, error)) {
	slug := chi.URLParam(r, "slug")
	status, err := op(r.Context(), middleware.GetUserID(r.Context()), slug)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	code := http.StatusOK
	if status == domain.BookmarkCreated {
		code = http.StatusCreated
	}
	api.Success(w, code, BookmarkResponse{
		Slug:       slug,
		Status:     string(status),
		Bookmarked: status == domain.BookmarkCreated || status == domain.BookmarkAlreadyExists,
	})
}

func (h *InteractionHandler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	bookmarked, err := h.svc.IsBookmarked(r.Context(), middleware.GetUserID(r.Context()), slug)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, BookmarkResponse{Slug: slug, Bookmarked: bookmarked})
}

func (h *InteractionHandler) PutRating(w http.ResponseWriter, r *http.Request) {
	var req RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		api.HandleError(w, err)
		return
	}

	slug := chi.URLParam(r, "slug")
	rating := domain.Rating(req.Rating)
	if err := h.svc.RateRecipe(r.Context(), middleware.GetUserID(r.Context()), slug, rating); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, RatingResponse{Slug: slug, Rating: int(rating), Percent: rating.Percent()})
}

func (h *InteractionHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	rating, err := h.svc.UserRating(r.Context(), middleware.GetUserID(r.Context()), slug)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, RatingResponse{Slug: slug, Rating: int(rating), Percent: rating.Percent()})
}
