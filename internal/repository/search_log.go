package repository

import (
	"context"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SearchLogRepository stores search logs for evaluation/feedback loops.
type SearchLogRepository struct {
	pool *pgxpool.Pool
}

func NewSearchLogRepository(pool *pgxpool.Pool) *SearchLogRepository {
	return &SearchLogRepository{pool: pool}
}

func (r *SearchLogRepository) CreateSearchLog(ctx context.Context, entry service.SearchLogEntry) (int64, error) {
	resultIDs := entry.ResultIDs
	if resultIDs == nil {
		resultIDs = []int64{}
	}

	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO search_logs (user_id, query, route, sort_by, page, result_ids, result_count, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		nullableUserID(entry.UserID),
		entry.Query,
		string(entry.Route),
		string(entry.Sort),
		entry.Page,
		resultIDs,
		entry.Total,
		entry.DurationMs,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SearchLogRepository) RecordSearchSelection(ctx context.Context, searchID, recipeID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE search_logs
		 SET chosen_recipe_id = $1, chosen_at = NOW()
		 WHERE id = $2`,
		recipeID,
		searchID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSearchLogNotFound
	}
	return nil
}

func nullableUserID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
