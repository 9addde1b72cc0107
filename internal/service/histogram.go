package service

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/cloo-solutions/greenplate/internal/metrics"
	"github.com/cloo-solutions/greenplate/internal/telemetry"
)

const DefaultHistogramBins = 300

// EmissionsHistogram is a density histogram of log10 emissions over the
// whole catalog. len(Edges) == len(Density)+1.
type EmissionsHistogram struct {
	Edges      []float64 `json:"edges"`
	Density    []float64 `json:"density"`
	Recipes    int       `json:"recipes"`
	ComputedAt time.Time `json:"computed_at"`
}

// HistogramMarker places one recipe on the histogram. Bin is -1 when the
// recipe falls outside the histogram range.
type HistogramMarker struct {
	Histogram      *EmissionsHistogram `json:"histogram"`
	Slug           string              `json:"slug"`
	Title          string              `json:"title"`
	Emissions      float64             `json:"emissions"`
	EmissionsLog10 float64             `json:"emissions_log10"`
	Bin            int                 `json:"bin"`
}

// HistogramService keeps an in-memory snapshot of the catalog-wide emissions
// histogram. Refresh replaces the snapshot; readers never block on the store.
type HistogramService struct {
	catalog CatalogRepositoryInterface
	bins    int
	now     func() time.Time

	mu      sync.RWMutex
	current *EmissionsHistogram
	bySlug  map[string]domain.EmissionScore
}

func NewHistogramService(catalog CatalogRepositoryInterface, bins int) *HistogramService {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	return &HistogramService{catalog: catalog, bins: bins, now: time.Now}
}

// Refresh recomputes the snapshot from the catalog.
func (s *HistogramService) Refresh(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "service.histogram.refresh", telemetry.SpanAttributes{
		Operation: "refresh_histogram",
	})
	defer span.End()

	scores, err := s.catalog.AllEmissionScores(ctx)
	if err != nil {
		span.SetError(err)
		metrics.HistogramRefreshes.WithLabelValues("error").Inc()
		return storeError("load emission scores", err)
	}

	values := make([]float64, 0, len(scores))
	bySlug := make(map[string]domain.EmissionScore, len(scores))
	for _, sc := range scores {
		bySlug[sc.Slug] = sc
		if !math.IsNaN(sc.EmissionsLog10) && !math.IsInf(sc.EmissionsLog10, 0) {
			values = append(values, sc.EmissionsLog10)
		}
	}

	edges, density := DensityHistogram(values, s.bins)
	snapshot := &EmissionsHistogram{
		Edges:      edges,
		Density:    density,
		Recipes:    len(values),
		ComputedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.current = snapshot
	s.bySlug = bySlug
	s.mu.Unlock()

	metrics.HistogramRefreshes.WithLabelValues("ok").Inc()
	metrics.HistogramRecipes.Set(float64(len(values)))
	logging.Ctx(ctx).Info().Int("recipes", len(values)).Int("bins", s.bins).Msg("emissions histogram refreshed")
	return nil
}

// ProcessJobs lets the background worker drive Refresh.
func (s *HistogramService) ProcessJobs(ctx context.Context) error {
	return s.Refresh(ctx)
}

// Current returns the latest snapshot or domain.ErrHistogramPending.
func (s *HistogramService) Current() (*EmissionsHistogram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, domain.ErrHistogramPending
	}
	return s.current, nil
}

// Marker locates a recipe on the current snapshot.
func (s *HistogramService) Marker(slug string) (*HistogramMarker, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.ErrEmptySlug
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, domain.ErrHistogramPending
	}
	sc, ok := s.bySlug[slug]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return &HistogramMarker{
		Histogram:      s.current,
		Slug:           sc.Slug,
		Title:          sc.Title,
		Emissions:      sc.Emissions,
		EmissionsLog10: sc.EmissionsLog10,
		Bin:            binIndex(s.current.Edges, sc.EmissionsLog10),
	}, nil
}

// DensityHistogram bins values into equal-width bins between their minimum
// and maximum. The last bin is closed. Density is count/(n*width) so the
// histogram integrates to one. A constant input is widened by 0.5 each side.
func DensityHistogram(values []float64, bins int) ([]float64, []float64) {
	if len(values) == 0 || bins <= 0 {
		return []float64{}, []float64{}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := make([]float64, bins+1)
	step := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[bins] = hi

	counts := make([]int, bins)
	for _, v := range values {
		if i := binIndex(edges, v); i >= 0 {
			counts[i]++
		}
	}

	density := make([]float64, bins)
	n := float64(len(values))
	for i, c := range counts {
		density[i] = float64(c) / (n * (edges[i+1] - edges[i]))
	}
	return edges, density
}

// binIndex returns the bin holding v, or -1 when v is outside the edges.
func binIndex(edges []float64, v float64) int {
	bins := len(edges) - 1
	if bins <= 0 || v < edges[0] || v > edges[bins] {
		return -1
	}
	if v == edges[bins] {
		return bins - 1
	}
	i := int((v - edges[0]) / (edges[bins] - edges[0]) * float64(bins))
	if i >= bins {
		i = bins - 1
	}
	// Correct for floating point error at bin boundaries.
	if i > 0 && v < edges[i] {
		i--
	}
	if i < bins-1 && v >= edges[i+1] {
		i++
	}
	return i
}
