package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const pgForeignKeyViolation = "23503"

// mapForeignKey turns a foreign-key violation on interactions into the
// matching not-found error.
func mapForeignKey(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgForeignKeyViolation {
		return err
	}
	if strings.Contains(pgErr.ConstraintName, "recipe") {
		return domain.ErrRecipeNotFound
	}
	return domain.ErrUserNotFound
}

// escapeLike escapes LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
