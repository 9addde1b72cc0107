package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/cloo-solutions/greenplate/internal/api"
	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
)

const (
	UserIDKey    contextKey = "user_id"
	UserIDHeader            = "X-User-ID"
)

// UserIdentity reads the acting user from the X-User-ID header set by the
// fronting session layer. Requests without the header stay anonymous.
func UserIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			api.HandleError(w, domain.ErrInvalidUserID)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = logging.ContextWithUserID(ctx, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) == 0 {
			api.HandleError(w, domain.ErrMissingUser)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID returns the acting user, or 0 for anonymous requests.
func GetUserID(ctx context.Context) int64 {
	userID, _ := ctx.Value(UserIDKey).(int64)
	return userID
}
