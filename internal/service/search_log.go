package service

import (
	"context"
	"time"

	"github.com/cloo-solutions/greenplate/internal/domain"
)

// SearchLogEntry captures a discovery request and what it returned.
type SearchLogEntry struct {
	UserID     int64
	Query      string
	Route      domain.Route
	Sort       domain.SortKey
	Page       int
	ResultIDs  []int64
	Total      int
	DurationMs int64
}

// SearchLogRepository persists search logs and result selections for offline
// evaluation.
type SearchLogRepository interface {
	CreateSearchLog(ctx context.Context, entry SearchLogEntry) (int64, error)
	RecordSearchSelection(ctx context.Context, searchID, recipeID int64) error
}

// NewSearchLogEntry builds a log entry from a served page.
func NewSearchLogEntry(query string, userID int64, page *domain.ResultPage, elapsed time.Duration) SearchLogEntry {
	entry := SearchLogEntry{
		UserID:     userID,
		Query:      query,
		DurationMs: elapsed.Milliseconds(),
	}
	if page == nil {
		return entry
	}
	entry.Route = page.Route
	entry.Sort = page.Sort
	entry.Page = page.Page
	entry.Total = page.Total
	entry.ResultIDs = make([]int64, 0, len(page.Rows)+1)
	if page.Reference != nil {
		entry.ResultIDs = append(entry.ResultIDs, page.Reference.Recipe.ID)
	}
	for _, row := range page.Rows {
		entry.ResultIDs = append(entry.ResultIDs, row.Recipe.ID)
	}
	return entry
}
