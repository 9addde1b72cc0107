package repository

import (
	"context"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db dbtx
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

func (r *UserRepository) Create(ctx context.Context) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`INSERT INTO users DEFAULT VALUES RETURNING id, created_at`,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns every user with their bookmark count, oldest first.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.created_at, COUNT(i.recipe_id) FILTER (WHERE i.bookmarked)
		 FROM users u
		 LEFT JOIN interactions i ON i.user_id = u.id
		 GROUP BY u.id, u.created_at
		 ORDER BY u.id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.CreatedAt, &u.Bookmarks); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
