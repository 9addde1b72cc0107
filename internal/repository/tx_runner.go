package repository

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner hands out repositories sharing a single pgx transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// WithTx rolls back on error or panic. Begin and commit failures are
// reported as an unavailable store.
func (r *TxRunner) WithTx(ctx context.Context, fn func(repos service.TxRepositories) error) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.StoreUnavailable("begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(txRepos{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.StoreUnavailable("commit transaction", err)
	}
	return nil
}

type txRepos struct {
	tx pgx.Tx
}

func (r txRepos) Catalog() service.CatalogWriter {
	return NewCatalogRepositoryWithTx(r.tx)
}

func (r txRepos) Interactions() service.InteractionRepositoryInterface {
	return NewInteractionRepositoryWithTx(r.tx)
}
