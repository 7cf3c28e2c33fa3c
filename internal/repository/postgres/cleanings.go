package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/schedule"
)

type CleaningRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CleaningRepo) With(db DB) *CleaningRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CleaningRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *CleaningRepo) Get(ctx context.Context, id uuid.UUID) (*domain.CleaningAssignment, error) {
	const op = "postgres.CleaningRepo.Get"

	var c domain.CleaningAssignment
	var status string
	if err := r.handle().QueryRow(ctx,
		`SELECT id, room_id, employee_id, starts_at, ends_at, status
		 FROM cleaning_assignments WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.RoomID, &c.EmployeeID, &c.Starts, &c.Ends, &status); err != nil {
		return nil, wrapDBErr(op, err)
	}
	c.Status = domain.CleaningStatus(status)

	return &c, nil
}

func (r *CleaningRepo) Create(ctx context.Context, c *domain.CleaningAssignment) error {
	const op = "postgres.CleaningRepo.Create"

	if _, err := r.handle().Exec(ctx,
		`INSERT INTO cleaning_assignments(id, room_id, employee_id, starts_at, ends_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.RoomID, c.EmployeeID, c.Starts, c.Ends, string(c.Status),
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *CleaningRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.CleaningRepo.Delete"

	tag, err := r.handle().Exec(ctx, `DELETE FROM cleaning_assignments WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

func (r *CleaningRepo) EmployeeTimeline(
	ctx context.Context,
	employeeID int64,
	from, to time.Time,
) (schedule.Timeline, error) {
	const op = "postgres.CleaningRepo.EmployeeTimeline"

	rows, err := r.handle().Query(ctx,
		`SELECT id::text, room_id, starts_at, ends_at
		 FROM cleaning_assignments
		 WHERE employee_id = $1 AND starts_at < $3 AND ends_at > $2`,
		employeeID, from, to,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out schedule.Timeline
	for rows.Next() {
		s := schedule.Slot{EmployeeID: employeeID}
		s.Kind = schedule.KindCleaning
		if err := rows.Scan(&s.ID, &s.RoomID, &s.Start, &s.End); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
