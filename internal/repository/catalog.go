package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

const recipeColumns = `r.id, r.title, r.slug, r.ingredients, r.categories, r.servings,
	r.calories, r.sodium, r.fat, r.protein, r.emissions, r.emissions_log10, r.prop_ingredients,
	r.rating, r.review_count, r.image_url, r.perc_rating, r.perc_sustainability`

type CatalogRepository struct {
	db dbtx
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: pool}
}

func NewCatalogRepositoryWithTx(tx pgx.Tx) *CatalogRepository {
	return &CatalogRepository{db: tx}
}

func (r *CatalogRepository) FindBySlug(ctx context.Context, slug string) (*domain.Recipe, error) {
	rec, err := scanRecipe(r.db.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes r WHERE r.slug = $1`,
		slug,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *CatalogRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Recipe, error) {
	if len(ids) == 0 {
		return []*domain.Recipe{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+recipeColumns+` FROM recipes r WHERE r.id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecipes(rows)
}

func (r *CatalogRepository) SimilarityRow(ctx context.Context, recipeID int64) (*domain.SimilarityRow, error) {
	var ids []int64
	var scores []float32
	err := r.db.QueryRow(ctx,
		`SELECT neighbor_ids, scores::real[] FROM content_similarity WHERE recipe_id = $1`,
		recipeID,
	).Scan(&ids, &scores)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSimilarityNotFound
		}
		return nil, err
	}
	return domain.NewSimilarityRow(recipeID, ids, scores), nil
}

// TextRank matches the weighted title and category vector with web search
// syntax. Ties keep id order.
func (r *CatalogRepository) TextRank(ctx context.Context, term string, limit int) ([]domain.ScoredRecipe, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+recipeColumns+`, ts_rank_cd(r.combined_tsv, q)::float8 AS relevance
		 FROM recipes r, websearch_to_tsquery('simple', $1) q
		 WHERE r.combined_tsv @@ q
		 ORDER BY relevance DESC, r.id
		 LIMIT $2`,
		term, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScored(rows)
}

// EditDistanceRank orders recipes by Levenshtein distance between the column
// and the term, optionally only among values containing the term.
func (r *CatalogRepository) EditDistanceRank(ctx context.Context, q domain.FuzzyQuery) ([]domain.ScoredRecipe, error) {
	if !q.Column.Valid() {
		return nil, domain.ErrInvalidColumn
	}
	// Column comes from a closed set, never from user input.
	column := "r." + string(q.Column)

	var rows pgx.Rows
	var err error
	if q.RequireSubstring {
		rows, err = r.db.Query(ctx,
			fmt.Sprintf(`SELECT %s, levenshtein(%s, $1)::float8 AS distance
			 FROM recipes r
			 WHERE %s LIKE '%%' || $2 || '%%'
			 ORDER BY distance, r.id
			 LIMIT $3`, recipeColumns, column, column),
			q.Term, escapeLike(q.Term), q.Limit,
		)
	} else {
		rows, err = r.db.Query(ctx,
			fmt.Sprintf(`SELECT %s, levenshtein(%s, $1)::float8 AS distance
			 FROM recipes r
			 ORDER BY distance, r.id
			 LIMIT $2`, recipeColumns, column),
			q.Term, q.Limit,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScored(rows)
}

func (r *CatalogRepository) AllEmissionScores(ctx context.Context) ([]domain.EmissionScore, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, emissions, emissions_log10, slug, title FROM recipes ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.EmissionScore
	for rows.Next() {
		var s domain.EmissionScore
		if err := rows.Scan(&s.RecipeID, &s.Emissions, &s.EmissionsLog10, &s.Slug, &s.Title); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertRecipe loads a catalog entry. Used by the offline import.
func (r *CatalogRepository) UpsertRecipe(ctx context.Context, rec *domain.Recipe) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO recipes (id, title, slug, ingredients, categories, servings,
			calories, sodium, fat, protein, emissions, emissions_log10, prop_ingredients,
			rating, review_count, image_url, perc_rating, perc_sustainability)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, slug = EXCLUDED.slug, ingredients = EXCLUDED.ingredients,
			categories = EXCLUDED.categories, servings = EXCLUDED.servings,
			calories = EXCLUDED.calories, sodium = EXCLUDED.sodium, fat = EXCLUDED.fat,
			protein = EXCLUDED.protein, emissions = EXCLUDED.emissions,
			emissions_log10 = EXCLUDED.emissions_log10, prop_ingredients = EXCLUDED.prop_ingredients,
			rating = EXCLUDED.rating, review_count = EXCLUDED.review_count, image_url = EXCLUDED.image_url,
			perc_rating = EXCLUDED.perc_rating, perc_sustainability = EXCLUDED.perc_sustainability`,
		rec.ID, rec.Title, rec.Slug, rec.Ingredients, rec.Categories, rec.Servings,
		rec.Calories, rec.Sodium, rec.Fat, rec.Protein, rec.Emissions, rec.EmissionsLog10, rec.PropIngredients,
		rec.Rating, rec.ReviewCount, rec.ImageURL, rec.PercRating, rec.PercSustainability,
	)
	return err
}

// UpsertSimilarityRow loads a precomputed neighbour row as stored upstream,
// signs included.
func (r *CatalogRepository) UpsertSimilarityRow(ctx context.Context, recipeID int64, neighborIDs []int64, scores []float32) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO content_similarity (recipe_id, neighbor_ids, scores)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (recipe_id) DO UPDATE SET neighbor_ids = EXCLUDED.neighbor_ids, scores = EXCLUDED.scores`,
		recipeID, neighborIDs, pgvector.NewVector(scores),
	)
	return err
}

func scanRecipe(row pgx.Row) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := row.Scan(recipeFields(&rec)...)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanRecipes(rows pgx.Rows) ([]*domain.Recipe, error) {
	var out []*domain.Recipe
	for rows.Next() {
		var rec domain.Recipe
		if err := rows.Scan(recipeFields(&rec)...); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func scanScored(rows pgx.Rows) ([]domain.ScoredRecipe, error) {
	var out []domain.ScoredRecipe
	for rows.Next() {
		var rec domain.Recipe
		var score float64
		if err := rows.Scan(append(recipeFields(&rec), &score)...); err != nil {
			return nil, err
		}
		out = append(out, domain.ScoredRecipe{Recipe: &rec, Score: score})
	}
	return out, rows.Err()
}

func recipeFields(rec *domain.Recipe) []any {
	return []any{
		&rec.ID, &rec.Title, &rec.Slug, &rec.Ingredients, &rec.Categories, &rec.Servings,
		&rec.Calories, &rec.Sodium, &rec.Fat, &rec.Protein, &rec.Emissions, &rec.EmissionsLog10, &rec.PropIngredients,
		&rec.Rating, &rec.ReviewCount, &rec.ImageURL, &rec.PercRating, &rec.PercSustainability,
	}
}
