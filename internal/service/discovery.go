package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/cloo-solutions/greenplate/internal/metrics"
	"github.com/cloo-solutions/greenplate/internal/telemetry"
)

// DiscoveryRequest is one search box submission.
type DiscoveryRequest struct {
	Query  string
	UserID int64
	Sort   string
	Page   int
}

// SimilarRequest asks for the neighbours of a named recipe.
type SimilarRequest struct {
	Slug   string
	UserID int64
	Sort   string
	Page   int
}

// DiscoveryService routes a query to the recommender on an exact slug match
// and to free-text search otherwise, then assembles the page.
type DiscoveryService struct {
	catalog     CatalogRepositoryInterface
	text        *TextSearch
	recommender *Recommender
	assembler   *Assembler
	searchLimit int
	pageSize    int
}

// DiscoveryConfig tunes the dispatcher. Zero values select the defaults.
type DiscoveryConfig struct {
	FreeSearchLimit int
	PageSize        int
}

func NewDiscoveryService(catalog CatalogRepositoryInterface, text *TextSearch, recommender *Recommender, assembler *Assembler, cfg DiscoveryConfig) *DiscoveryService {
	if cfg.FreeSearchLimit <= 0 {
		cfg.FreeSearchLimit = DefaultFreeSearchLimit
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &DiscoveryService{
		catalog:     catalog,
		text:        text,
		recommender: recommender,
		assembler:   assembler,
		searchLimit: cfg.FreeSearchLimit,
		pageSize:    cfg.PageSize,
	}
}

// Discover validates the request before touching any store.
func (s *DiscoveryService) Discover(ctx context.Context, req DiscoveryRequest) (*domain.ResultPage, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	sortKey, err := validatePresentation(req.Sort, req.Page)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "service.discovery.discover", telemetry.SpanAttributes{
		UserID:    req.UserID,
		Operation: "discover",
	})
	defer span.End()

	page, err := s.discover(ctx, query, req.UserID, sortKey, req.Page)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	metrics.RecordDiscovery(string(page.Route), time.Since(start))
	telemetry.AddBreadcrumb(ctx, "discovery", "route "+string(page.Route))
	logging.Ctx(ctx).Debug().
		Str("route", string(page.Route)).
		Int("total", page.Total).
		Dur("duration", time.Since(start)).
		Msg("discovery served")
	return page, nil
}

func (s *DiscoveryService) discover(ctx context.Context, query string, userID int64, sortKey domain.SortKey, page int) (*domain.ResultPage, error) {
	ref, err := s.catalog.FindBySlug(ctx, query)
	switch {
	case err == nil:
		results, err := s.recommender.Neighbors(ctx, ref)
		if err != nil {
			return nil, err
		}
		return s.assembler.Assemble(ctx, AssembleInput{
			UserID:         userID,
			Route:          domain.RouteExact,
			Kind:           domain.ScoreSimilarity,
			Results:        results,
			SplitReference: true,
			Sort:           sortKey,
			Page:           page,
			PageSize:       s.pageSize,
		})
	case errors.Is(err, domain.ErrRecipeNotFound):
	default:
		return nil, storeError("find recipe by slug", err)
	}

	found, err := s.text.FreeSearch(ctx, query, s.searchLimit)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, AssembleInput{
		UserID:   userID,
		Route:    found.Route,
		Kind:     found.Kind,
		Results:  found.Results,
		Sort:     sortKey,
		Page:     page,
		PageSize: s.pageSize,
	})
}

// Similar runs only the recommender path. An unknown slug is NotFound.
func (s *DiscoveryService) Similar(ctx context.Context, req SimilarRequest) (*domain.ResultPage, error) {
	if strings.TrimSpace(req.Slug) == "" {
		return nil, domain.ErrEmptySlug
	}
	sortKey, err := validatePresentation(req.Sort, req.Page)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := s.recommender.ContentBasedSearch(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	page, err := s.assembler.Assemble(ctx, AssembleInput{
		UserID:         req.UserID,
		Route:          domain.RouteExact,
		Kind:           domain.ScoreSimilarity,
		Results:        results,
		SplitReference: true,
		Sort:           sortKey,
		Page:           req.Page,
		PageSize:       s.pageSize,
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordDiscovery(string(page.Route), time.Since(start))
	return page, nil
}

func validatePresentation(sort string, page int) (domain.SortKey, error) {
	if page < 0 {
		return "", domain.ErrNegativePage
	}
	return domain.ParseSortKey(sort)
}
