package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/cloo-solutions/greenplate/internal/api/middleware"
	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

type MockDiscoveryService struct {
	mock.Mock
}

func (m *MockDiscoveryService) Discover(ctx context.Context, req service.DiscoveryRequest) (*domain.ResultPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultPage), args.Error(1)
}

func (m *MockDiscoveryService) Similar(ctx context.Context, req service.SimilarRequest) (*domain.ResultPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultPage), args.Error(1)
}

type MockSearchLogRepository struct {
	mock.Mock
}

func (m *MockSearchLogRepository) CreateSearchLog(ctx context.Context, entry service.SearchLogEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSearchLogRepository) RecordSearchSelection(ctx context.Context, searchID, recipeID int64) error {
	args := m.Called(ctx, searchID, recipeID)
	return args.Error(0)
}

type MockInteractionService struct {
	mock.Mock
}

func (m *MockInteractionService) RateRecipe(ctx context.Context, userID int64, slug string, rating domain.Rating) error {
	args := m.Called(ctx, userID, slug, rating)
	return args.Error(0)
}

func (m *MockInteractionService) AddBookmark(ctx context.Context, userID int64, slug string) (domain.BookmarkStatus, error) {
	args := m.Called(ctx, userID, slug)
	return args.Get(0).(domain.BookmarkStatus), args.Error(1)
}

func (m *MockInteractionService) RemoveBookmark(ctx context.Context, userID int64, slug string) (domain.BookmarkStatus, error) {
	args := m.Called(ctx, userID, slug)
	return args.Get(0).(domain.BookmarkStatus), args.Error(1)
}

func (m *MockInteractionService) ToggleBookmark(ctx context.Context, userID int64, slug string) (domain.BookmarkStatus, error) {
	args := m.Called(ctx, userID, slug)
	return args.Get(0).(domain.BookmarkStatus), args.Error(1)
}

func (m *MockInteractionService) IsBookmarked(ctx context.Context, userID int64, slug string) (bool, error) {
	args := m.Called(ctx, userID, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockInteractionService) UserRating(ctx context.Context, userID int64, slug string) (domain.Rating, error) {
	args := m.Called(ctx, userID, slug)
	return args.Get(0).(domain.Rating), args.Error(1)
}

type MockCookbookService struct {
	mock.Mock
}

func (m *MockCookbookService) Page(ctx context.Context, req service.CookbookRequest) (*domain.ResultPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultPage), args.Error(1)
}

func (m *MockCookbookService) Favorites(ctx context.Context, userID int64, n int) ([]*domain.Recipe, error) {
	args := m.Called(ctx, userID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Recipe), args.Error(1)
}

func (m *MockCookbookService) FavoriteCategories(ctx context.Context, userID int64, n int) ([]service.CategoryCount, error) {
	args := m.Called(ctx, userID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.CategoryCount), args.Error(1)
}

type MockHistogramService struct {
	mock.Mock
}

func (m *MockHistogramService) Current() (*service.EmissionsHistogram, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EmissionsHistogram), args.Error(1)
}

func (m *MockHistogramService) Marker(slug string) (*service.HistogramMarker, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HistogramMarker), args.Error(1)
}

// newRequest builds a request as the router would hand it over: acting user
// in context and the slug route parameter resolved.
func newRequest(method, target string, body []byte, userID int64, slug string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := req.Context()
	if userID > 0 {
		ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	}
	if slug != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("slug", slug)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func testRecipe(id int64, slug string) *domain.Recipe {
	return &domain.Recipe{
		ID:                 id,
		Slug:               slug,
		Title:              slug,
		Categories:         "Fruit;Summer",
		Emissions:          1.2,
		Rating:             4.4,
		PercRating:         70,
		PercSustainability: 85,
	}
}

func testPage(route domain.Route) *domain.ResultPage {
	change := 0.25
	return &domain.ResultPage{
		Route: route,
		Reference: &domain.SearchResultRow{
			Recipe:            testRecipe(563, "pineapple-salsa"),
			Score:             1,
			ScoreKind:         domain.ScoreSimilarity,
			UserRating:        domain.RatingNeutral,
			SimilarityPercent: 100,
		},
		Rows: []*domain.SearchResultRow{{
			Recipe:            testRecipe(2326, "mango-salsa"),
			Score:             0.452267,
			ScoreKind:         domain.ScoreSimilarity,
			UserRating:        domain.RatingNeutral,
			SimilarityPercent: 45,
			EmissionChange:    &change,
		}},
		Sort:     domain.SortSimilarity,
		PageSize: 20,
		Total:    1,
	}
}
