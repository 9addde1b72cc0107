package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInteractionHandler_AddBookmark(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.BookmarkStatus
		wantCode   int
		bookmarked bool
	}{
		{"created", domain.BookmarkCreated, http.StatusCreated, true},
		{"already exists", domain.BookmarkAlreadyExists, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockInteractionService)
			mockSvc.On("AddBookmark", mock.Anything, int64(7), "pineapple-salsa").Return(tt.status, nil)

			w := httptest.NewRecorder()
			NewInteractionHandler(mockSvc).AddBookmark(w, newRequest(http.MethodPut, "/recipes/pineapple-salsa/bookmark", nil, 7, "pineapple-salsa"))

			assert.Equal(t, tt.wantCode, w.Code)
			var env struct {
				Data BookmarkResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, string(tt.status), env.Data.Status)
			assert.Equal(t, tt.bookmarked, env.Data.Bookmarked)
		})
	}
}

func TestInteractionHandler_RemoveBookmark_NotBookmarked(t *testing.T) {
	mockSvc := new(MockInteractionService)
	mockSvc.On("RemoveBookmark", mock.Anything, int64(7), "pineapple-salsa").Return(domain.BookmarkNotBookmarked, nil)

	w := httptest.NewRecorder()
	NewInteractionHandler(mockSvc).RemoveBookmark(w, newRequest(http.MethodDelete, "/recipes/pineapple-salsa/bookmark", nil, 7, "pineapple-salsa"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"not_bookmarked"`)
	assert.Contains(t, w.Body.String(), `"bookmarked":false`)
}

func TestInteractionHandler_ToggleBookmark_UnknownRecipe(t *testing.T) {
	mockSvc := new(MockInteractionService)
	mockSvc.On("ToggleBookmark", mock.Anything, int64(7), "nope").Return(domain.BookmarkStatus(""), domain.ErrRecipeNotFound)

	w := httptest.NewRecorder()
	NewInteractionHandler(mockSvc).ToggleBookmark(w, newRequest(http.MethodPost, "/recipes/nope/bookmark/toggle", nil, 7, "nope"))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInteractionHandler_GetBookmark(t *testing.T) {
	mockSvc := new(MockInteractionService)
	mockSvc.On("IsBookmarked", mock.Anything, int64(7), "pineapple-salsa").Return(true, nil)

	w := httptest.NewRecorder()
	NewInteractionHandler(mockSvc).GetBookmark(w, newRequest(http.MethodGet, "/recipes/pineapple-salsa/bookmark", nil, 7, "pineapple-salsa"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bookmarked":true`)
}

func TestInteractionHandler_PutRating(t *testing.T) {
	mockSvc := new(MockInteractionService)
	mockSvc.On("RateRecipe", mock.Anything, int64(7), "pineapple-salsa", domain.RatingLike).Return(nil)

	w := httptest.NewRecorder()
	NewInteractionHandler(mockSvc).PutRating(w, newRequest(http.MethodPut, "/recipes/pineapple-salsa/rating", []byte(`{"rating":5}`), 7, "pineapple-salsa"))

	assert.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data RatingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 5, env.Data.Rating)
	assert.Equal(t, 100, env.Data.Percent)
	mockSvc.AssertExpectations(t)
}

func TestInteractionHandler_PutRating_RejectsUnenumeratedValue(t *testing.T) {
	for _, body := range []string{`{"rating":2}`, `{"rating":0}`, `{}`, `{"rating":"five"}`} {
		t.Run(body, func(t *testing.T) {
			mockSvc := new(MockInteractionService)

			w := httptest.NewRecorder()
			NewInteractionHandler(mockSvc).PutRating(w, newRequest(http.MethodPut, "/recipes/x/rating", []byte(body), 7, "x"))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockSvc.AssertNotCalled(t, "RateRecipe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestInteractionHandler_PutRating_UnknownUser(t *testing.T) {
	mockSvc := new(MockInteractionService)
	mockSvc.On("RateRecipe", mock.Anything, int64(404), "pineapple-salsa", domain.RatingDislike).Return(domain.ErrUserNotFound)

	w := httptest.NewRecorder()
	NewInteractionHandler(mockSvc).PutRating(w, newRequest(http.MethodPut, "/recipes/pineapple-salsa/rating", []byte(`{"rating":1}`), 404, "pineapple-salsa"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "user not found")
}

func TestInteractionHandler_GetRating_DefaultsToNeutral(t *testing.T) {
	mockSvc := new(MockInteractionService)
	mockSvc.On("UserRating", mock.Anything, int64(7), "pineapple-salsa").Return(domain.RatingNeutral, nil)

	w := httptest.NewRecorder()
	NewInteractionHandler(mockSvc).GetRating(w, newRequest(http.MethodGet, "/recipes/pineapple-salsa/rating", nil, 7, "pineapple-salsa"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rating":3`)
	assert.Contains(t, w.Body.String(), `"percent":60`)
}
