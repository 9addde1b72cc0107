package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pageEnvelope struct {
	Data PageResponse `json:"data"`
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) PageResponse {
	t.Helper()
	var env pageEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Data
}

func TestDiscoveryHandler_Search_Success(t *testing.T) {
	mockSvc := new(MockDiscoveryService)
	logRepo := new(MockSearchLogRepository)
	handler := NewDiscoveryHandler(mockSvc, logRepo, 20)

	mockSvc.On("Discover", mock.Anything, service.DiscoveryRequest{
		Query: "pineapple-salsa", UserID: 7, Sort: "rating", Page: 0,
	}).Return(testPage(domain.RouteExact), nil)
	logRepo.On("CreateSearchLog", mock.Anything, mock.MatchedBy(func(e service.SearchLogEntry) bool {
		return e.Query == "pineapple-salsa" && e.UserID == 7 && e.Route == domain.RouteExact &&
			assert.ObjectsAreEqual([]int64{563, 2326}, e.ResultIDs)
	})).Return(int64(99), nil)

	w := httptest.NewRecorder()
	handler.Search(w, newRequest(http.MethodGet, "/search?q=pineapple-salsa&sort_by=rating", nil, 7, ""))

	assert.Equal(t, http.StatusOK, w.Code)
	page := decodePage(t, w)
	assert.Equal(t, StatusOK, page.Status)
	assert.Equal(t, "exact", page.Route)
	assert.Equal(t, int64(99), page.SearchID)
	require.NotNil(t, page.Reference)
	assert.Equal(t, "pineapple-salsa", page.Reference.Recipe.Slug)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, 45, page.Rows[0].SimilarityPercent)
	require.NotNil(t, page.Rows[0].EmissionChange)
	assert.Equal(t, 0.25, *page.Rows[0].EmissionChange)
	assert.Equal(t, []string{"Fruit", "Summer"}, page.Rows[0].Recipe.Categories)
	mockSvc.AssertExpectations(t)
	logRepo.AssertExpectations(t)
}

func TestDiscoveryHandler_Search_EmptyQueryIsBadRequest(t *testing.T) {
	mockSvc := new(MockDiscoveryService)
	handler := NewDiscoveryHandler(mockSvc, nil, 20)
	mockSvc.On("Discover", mock.Anything, mock.Anything).Return(nil, domain.ErrEmptyQuery)

	w := httptest.NewRecorder()
	handler.Search(w, newRequest(http.MethodGet, "/search?q=", nil, 0, ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "query is required")
}

func TestDiscoveryHandler_Search_NonIntegerPage(t *testing.T) {
	mockSvc := new(MockDiscoveryService)
	handler := NewDiscoveryHandler(mockSvc, nil, 20)

	w := httptest.NewRecorder()
	handler.Search(w, newRequest(http.MethodGet, "/search?q=salsa&page=two", nil, 0, ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "page must be an integer")
	mockSvc.AssertNotCalled(t, "Discover", mock.Anything, mock.Anything)
}

func TestDiscoveryHandler_Search_OverlongQuery(t *testing.T) {
	mockSvc := new(MockDiscoveryService)
	handler := NewDiscoveryHandler(mockSvc, nil, 20)

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}

	w := httptest.NewRecorder()
	handler.Search(w, newRequest(http.MethodGet, "/search?q="+string(long), nil, 0, ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "q must be at most 200")
}

func TestDiscoveryHandler_Search_StoreFailureRendersEmptyPage(t *testing.T) {
	mockSvc := new(MockDiscoveryService)
	logRepo := new(MockSearchLogRepository)
	handler := NewDiscoveryHandler(mockSvc, logRepo, 20)

	mockSvc.On("Discover", mock.Anything, mock.Anything).
		Return(nil, domain.StoreUnavailable("find recipe by slug", errors.New("connection refused")))

	w := httptest.NewRecorder()
	handler.Search(w, newRequest(http.MethodGet, "/search?q=salsa&page=2", nil, 0, ""))

	assert.Equal(t, http.StatusOK, w.Code)
	page := decodePage(t, w)
	assert.Equal(t, StatusUnavailable, page.Status)
	assert.Empty(t, page.Rows)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, "similarity", page.Sort)
	logRepo.AssertNotCalled(t, "CreateSearchLog", mock.Anything, mock.Anything)
}

func TestDiscoveryHandler_Search_LogFailureDoesNotFailRequest(t *testing.T) {
	mockSvc := new(MockDiscoveryService)
	logRepo := new(MockSearchLogRepository)
	handler := NewDiscoveryHandler(mockSvc, logRepo, 20)

	mockSvc.On("Discover", mock.Anything, mock.Anything).Return(testPage(domain.RoutePhrase), nil)
	logRepo.On("CreateSearchLog", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full"))

	w := httptest.NewRecorder()
	handler.Search(w, newRequest(http.MethodGet, "/search?q=salsa", nil, 0, ""))

	assert.Equal(t, http.StatusOK, w.Code)
	page := decodePage(t, w)
	assert.Equal(t, StatusOK, page.Status)
	assert.Zero(t, page.SearchID)
}

func TestDiscoveryHandler_Similar_UnknownSlugIsEmptyNotFound(t *testing.T) {
	mockSvc := new(MockDiscoveryService)
	handler := NewDiscoveryHandler(mockSvc, nil, 20)

	mockSvc.On("Similar", mock.Anything, service.SimilarRequest{Slug: "nope"}).Return(nil, domain.ErrRecipeNotFound)

	w := httptest.NewRecorder()
	handler.Similar(w, newRequest(http.MethodGet, "/recipes/nope/similar", nil, 0, "nope"))

	assert.Equal(t, http.StatusOK, w.Code)
	page := decodePage(t, w)
	assert.Equal(t, StatusNotFound, page.Status)
	assert.Equal(t, "exact", page.Route)
	assert.Nil(t, page.Reference)
	assert.Empty(t, page.Rows)
}

func TestDiscoveryHandler_Similar_InvalidSort(t *testing.T) {
	mockSvc := new(MockDiscoveryService)
	handler := NewDiscoveryHandler(mockSvc, nil, 20)

	mockSvc.On("Similar", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidSortKey)

	w := httptest.NewRecorder()
	handler.Similar(w, newRequest(http.MethodGet, "/recipes/x/similar?sort_by=emissions", nil, 0, "x"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiscoveryHandler_SearchFeedback(t *testing.T) {
	mockSvc := new(MockDiscoveryService)
	logRepo := new(MockSearchLogRepository)
	handler := NewDiscoveryHandler(mockSvc, logRepo, 20)

	logRepo.On("RecordSearchSelection", mock.Anything, int64(12), int64(563)).Return(nil)

	w := httptest.NewRecorder()
	handler.SearchFeedback(w, newRequest(http.MethodPost, "/search/feedback", []byte(`{"search_id":12,"recipe_id":563}`), 7, ""))

	assert.Equal(t, http.StatusOK, w.Code)
	logRepo.AssertExpectations(t)
}

func TestDiscoveryHandler_SearchFeedback_Validation(t *testing.T) {
	logRepo := new(MockSearchLogRepository)
	handler := NewDiscoveryHandler(new(MockDiscoveryService), logRepo, 20)

	w := httptest.NewRecorder()
	handler.SearchFeedback(w, newRequest(http.MethodPost, "/search/feedback", []byte(`{"search_id":12}`), 7, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "recipe_id is required")

	w = httptest.NewRecorder()
	handler.SearchFeedback(w, newRequest(http.MethodPost, "/search/feedback", []byte(`not json`), 7, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiscoveryHandler_SearchFeedback_UnknownSearch(t *testing.T) {
	logRepo := new(MockSearchLogRepository)
	handler := NewDiscoveryHandler(new(MockDiscoveryService), logRepo, 20)
	logRepo.On("RecordSearchSelection", mock.Anything, int64(5), int64(1)).Return(domain.ErrSearchLogNotFound)

	w := httptest.NewRecorder()
	handler.SearchFeedback(w, newRequest(http.MethodPost, "/search/feedback", []byte(`{"search_id":5,"recipe_id":1}`), 7, ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDiscoveryHandler_SearchFeedback_Unavailable(t *testing.T) {
	handler := NewDiscoveryHandler(new(MockDiscoveryService), nil, 20)

	w := httptest.NewRecorder()
	handler.SearchFeedback(w, newRequest(http.MethodPost, "/search/feedback", []byte(`{"search_id":5,"recipe_id":1}`), 7, ""))

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
