package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/repository"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
	}
}

// RunTx runs fn in a serializable read-write transaction.
func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context, tx DB) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", translateDBErr(err))
	}

	return nil
}

func (s *Store) Rooms() *RoomRepo         { return &RoomRepo{pool: s.pool} }
func (s *Store) Sessions() *SessionRepo   { return &SessionRepo{pool: s.pool} }
func (s *Store) Tickets() *TicketRepo     { return &TicketRepo{pool: s.pool} }
func (s *Store) Rentals() *RentalRepo     { return &RentalRepo{pool: s.pool} }
func (s *Store) Cleanings() *CleaningRepo { return &CleaningRepo{pool: s.pool} }
func (s *Store) Catalog() *CatalogRepo    { return &CatalogRepo{pool: s.pool} }
func (s *Store) Products() *ProductRepo   { return &ProductRepo{pool: s.pool} }

// Repos exposes the store through the repository interfaces. With a nil tx
// every call runs on the pool.
func (s *Store) Repos(tx DB) repository.Repos {
	return bound{store: s, tx: tx}
}

type bound struct {
	store *Store
	tx    DB
}

func (b bound) Rooms() repository.RoomRepository         { return b.store.Rooms().With(b.tx) }
func (b bound) Sessions() repository.SessionRepository   { return b.store.Sessions().With(b.tx) }
func (b bound) Tickets() repository.TicketRepository     { return b.store.Tickets().With(b.tx) }
func (b bound) Rentals() repository.RentalRepository     { return b.store.Rentals().With(b.tx) }
func (b bound) Cleanings() repository.CleaningRepository { return b.store.Cleanings().With(b.tx) }
func (b bound) Catalog() repository.CatalogRepository    { return b.store.Catalog().With(b.tx) }
func (b bound) Inventory() repository.Inventory          { return b.store.Products().With(b.tx) }
