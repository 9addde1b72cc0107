package pagination

import "errors"

// PageResult is one zero-based page of a result set.
type PageResult[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

var (
	ErrNegativePage    = errors.New("page must not be negative")
	ErrInvalidPageSize = errors.New("page size must be positive")
)

// Paginate returns items[page*size : (page+1)*size]. Pages past the end are
// empty, never an error.
func Paginate[T any](items []T, page, size int) (PageResult[T], error) {
	if page < 0 {
		return PageResult[T]{}, ErrNegativePage
	}
	if size <= 0 {
		return PageResult[T]{}, ErrInvalidPageSize
	}

	total := len(items)
	// Compare page counts before multiplying so huge page values cannot overflow.
	if total == 0 || page > (total-1)/size {
		return PageResult[T]{Items: []T{}, Page: page, Total: total}, nil
	}
	start := page * size
	end := start + min(size, total-start)
	return PageResult[T]{
		Items:   items[start:end],
		Page:    page,
		Total:   total,
		HasMore: end < total,
	}, nil
}
