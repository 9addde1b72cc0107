package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/goccy/go-json"
)

// StatusClientClosedRequest is reported when the caller went away before
// the store answered. Nothing is written to the client in that case.
const StatusClientClosedRequest = 499

// storeRetryAfter is sent with 503s so the gateway backs off instead of
// hammering a catalog that is down.
const storeRetryAfter = 5

// SuccessResponse is the {data} envelope.
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is the {error, code} envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Warn().Err(err).Int("status", status).Msg("failed to encode response")
	}
}

func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, SuccessResponse{Data: data})
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// DomainErrorToHTTP maps an error to the status the API answers with.
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, context.Canceled) {
		return StatusClientClosedRequest
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	switch domain.ErrorCode(err) {
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeAlreadyExists:
		return http.StatusConflict
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes the error envelope for err. Client errors carry the
// domain message; server errors carry only the status text.
func HandleError(w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)
	if status == StatusClientClosedRequest {
		return
	}

	message := err.Error()
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(storeRetryAfter))
	}

	JSON(w, status, ErrorResponse{Error: message, Code: domain.ErrorCode(err)})
}
