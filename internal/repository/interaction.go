package repository

import (
	"context"
	"errors"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InteractionRepository struct {
	db dbtx
}

func NewInteractionRepository(pool *pgxpool.Pool) *InteractionRepository {
	return &InteractionRepository{db: pool}
}

func NewInteractionRepositoryWithTx(tx pgx.Tx) *InteractionRepository {
	return &InteractionRepository{db: tx}
}

func (r *InteractionRepository) Get(ctx context.Context, userID, recipeID int64) (*domain.Interaction, error) {
	var in domain.Interaction
	err := r.db.QueryRow(ctx,
		`SELECT user_id, recipe_id, bookmarked, rating, created_at
		 FROM interactions WHERE user_id = $1 AND recipe_id = $2`,
		userID, recipeID,
	).Scan(&in.UserID, &in.RecipeID, &in.Bookmarked, &in.Rating, &in.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInteractionNotFound
		}
		return nil, err
	}
	return &in, nil
}

func (r *InteractionRepository) GetMany(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]domain.Interaction, error) {
	out := make(map[int64]domain.Interaction, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT user_id, recipe_id, bookmarked, rating, created_at
		 FROM interactions WHERE user_id = $1 AND recipe_id = ANY($2)`,
		userID, recipeIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var in domain.Interaction
		if err := rows.Scan(&in.UserID, &in.RecipeID, &in.Bookmarked, &in.Rating, &in.CreatedAt); err != nil {
			return nil, err
		}
		out[in.RecipeID] = in
	}
	return out, rows.Err()
}

// UpsertRating sets the rating, creating an unbookmarked record when needed.
func (r *InteractionRepository) UpsertRating(ctx context.Context, userID, recipeID int64, rating domain.Rating) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO interactions (user_id, recipe_id, bookmarked, rating)
		 VALUES ($1, $2, FALSE, $3)
		 ON CONFLICT (user_id, recipe_id) DO UPDATE SET rating = EXCLUDED.rating`,
		userID, recipeID, int16(rating),
	)
	return mapForeignKey(err)
}

// UpsertBookmark only writes when the record is missing or unbookmarked, so
// zero affected rows means the bookmark already existed.
func (r *InteractionRepository) UpsertBookmark(ctx context.Context, userID, recipeID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO interactions (user_id, recipe_id, bookmarked)
		 VALUES ($1, $2, TRUE)
		 ON CONFLICT (user_id, recipe_id) DO UPDATE SET bookmarked = TRUE
		 WHERE interactions.bookmarked = FALSE`,
		userID, recipeID,
	)
	if err != nil {
		return false, mapForeignKey(err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteBookmarked removes the record, rating included, if it is bookmarked.
func (r *InteractionRepository) DeleteBookmarked(ctx context.Context, userID, recipeID int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM interactions WHERE user_id = $1 AND recipe_id = $2 AND bookmarked`,
		userID, recipeID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListForUser returns every interaction record of the user joined with its
// recipe, best rated first. Rated but unbookmarked records are included.
func (r *InteractionRepository) ListForUser(ctx context.Context, userID int64) ([]*domain.CookbookEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT i.user_id, i.recipe_id, i.bookmarked, i.rating, i.created_at, `+recipeColumns+`
		 FROM interactions i
		 JOIN recipes r ON r.id = i.recipe_id
		 WHERE i.user_id = $1
		 ORDER BY i.rating DESC, i.created_at DESC, r.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.CookbookEntry
	for rows.Next() {
		var e domain.CookbookEntry
		var rec domain.Recipe
		dest := append([]any{&e.Interaction.UserID, &e.Interaction.RecipeID, &e.Interaction.Bookmarked, &e.Interaction.Rating, &e.Interaction.CreatedAt}, recipeFields(&rec)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		e.Recipe = &rec
		out = append(out, &e)
	}
	return out, rows.Err()
}
