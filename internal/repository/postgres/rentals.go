package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
)

type RentalRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *RentalRepo) With(db DB) *RentalRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *RentalRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const rentalColumns = `id, customer_id, room_id, starts_at, ends_at, status, value_cents,
	birthday_package, created_at`

func scanRental(row pgx.Row) (*domain.RoomRental, error) {
	var rr domain.RoomRental
	var status string
	if err := row.Scan(
		&rr.ID,
		&rr.CustomerID,
		&rr.RoomID,
		&rr.Starts,
		&rr.Ends,
		&status,
		&rr.ValueCents,
		&rr.BirthdayPackage,
		&rr.CreatedAt,
	); err != nil {
		return nil, err
	}
	rr.Status = domain.RentalStatus(status)
	return &rr, nil
}

func (r *RentalRepo) Get(ctx context.Context, id uuid.UUID) (*domain.RoomRental, error) {
	const op = "postgres.RentalRepo.Get"

	rr, err := scanRental(r.handle().QueryRow(ctx,
		`SELECT `+rentalColumns+` FROM room_rentals WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return rr, nil
}

func (r *RentalRepo) Lock(ctx context.Context, id uuid.UUID) (*domain.RoomRental, error) {
	const op = "postgres.RentalRepo.Lock"

	rr, err := scanRental(r.handle().QueryRow(ctx,
		`SELECT `+rentalColumns+` FROM room_rentals WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return rr, nil
}

func (r *RentalRepo) Create(ctx context.Context, rr *domain.RoomRental) error {
	const op = "postgres.RentalRepo.Create"

	if _, err := r.handle().Exec(ctx,
		`INSERT INTO room_rentals(id, customer_id, room_id, starts_at, ends_at, status,
			value_cents, birthday_package, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rr.ID, rr.CustomerID, rr.RoomID, rr.Starts, rr.Ends, string(rr.Status),
		rr.ValueCents, rr.BirthdayPackage, rr.CreatedAt,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *RentalRepo) Update(ctx context.Context, rr *domain.RoomRental) error {
	const op = "postgres.RentalRepo.Update"

	tag, err := r.handle().Exec(ctx,
		`UPDATE room_rentals
		 SET starts_at = $2, ends_at = $3, status = $4, value_cents = $5, birthday_package = $6
		 WHERE id = $1`,
		rr.ID, rr.Starts, rr.Ends, string(rr.Status), rr.ValueCents, rr.BirthdayPackage,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}
