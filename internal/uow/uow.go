package uow

import (
	"context"
	"fmt"

	"github.com/kirinyoku/cinebook/internal/repository"
	postgres "github.com/kirinyoku/cinebook/internal/repository/postgres"
)

// UoW runs booking operations in one Postgres transaction.
type UoW struct {
	store *postgres.Store
}

var _ repository.UnitOfWork = (*UoW)(nil)

func NewUoW(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside a serializable transaction. After a successful commit,
// it executes all after-commit hooks in registration order.
//
// A serialization failure or deadlock is reported as repository.ErrConflict;
// the caller decides whether to retry.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, r repository.Repos, after func(repository.AfterCommit)) error,
) error {
	var hooks []repository.AfterCommit

	err := u.store.RunTx(ctx, func(ctx context.Context, tx postgres.DB) error {
		return fn(ctx, u.store.Repos(tx), func(h repository.AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		if postgres.IsRetryable(err) {
			return fmt.Errorf("%w: %w", repository.ErrConflict, err)
		}
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
