package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// validateRequest reports the first failing field as a validation error.
func validateRequest(v interface{}) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid request", err)
	}
	return domain.NewDomainError(domain.ErrCodeValidation, fieldMessage(fieldErrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// SearchQuery is the query string shared by result page endpoints.
type SearchQuery struct {
	Query  string `json:"q" validate:"max=200"`
	SortBy string `json:"sort_by" validate:"max=32"`
	Page   int    `json:"page"`
}

// LimitQuery bounds the small cookbook summaries.
type LimitQuery struct {
	N int `json:"n" validate:"min=1,max=50"`
}

type RatingRequest struct {
	Rating int `json:"rating" validate:"required,oneof=1 3 5"`
}

type SearchFeedbackRequest struct {
	SearchID int64 `json:"search_id" validate:"required,gt=0"`
	RecipeID int64 `json:"recipe_id" validate:"required,gt=0"`
}

var errPageNotInteger = domain.NewDomainError(domain.ErrCodeValidation, "page must be an integer")

func parseSearchQuery(r *http.Request) (SearchQuery, error) {
	q := r.URL.Query()
	sq := SearchQuery{
		Query:  q.Get("q"),
		SortBy: q.Get("sort_by"),
	}
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return sq, errPageNotInteger
		}
		sq.Page = page
	}
	return sq, validateRequest(&sq)
}

func parseLimit(r *http.Request, def int) (int, error) {
	lq := LimitQuery{N: def}
	if raw := strings.TrimSpace(r.URL.Query().Get("n")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, domain.NewDomainError(domain.ErrCodeValidation, "n must be an integer")
		}
		lq.N = n
	}
	if err := validateRequest(&lq); err != nil {
		return 0, err
	}
	return lq.N, nil
}
