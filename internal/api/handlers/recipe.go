package handlers

import (
	"net/http"

	"github.com/cloo-solutions/greenplate/internal/api"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/go-chi/chi/v5"
)

type HistogramService interface {
	Current() (*service.EmissionsHistogram, error)
	Marker(slug string) (*service.HistogramMarker, error)
}

type RecipeHandler struct {
	histogram HistogramService
}

func NewRecipeHandler(histogram HistogramService) *RecipeHandler {
	return &RecipeHandler{histogram: histogram}
}

// Emissions serves GET /recipes/{slug}/emissions: the catalog-wide emissions
// distribution with the recipe's position on it.
func (h *RecipeHandler) Emissions(w http.ResponseWriter, r *http.Request) {
	marker, err := h.histogram.Marker(chi.URLParam(r, "slug"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, marker)
}

// Histogram serves GET /emissions/histogram.
func (h *RecipeHandler) Histogram(w http.ResponseWriter, r *http.Request) {
	hist, err := h.histogram.Current()
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, hist)
}
