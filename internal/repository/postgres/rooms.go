package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
	"github.com/kirinyoku/cinebook/internal/schedule"
)

type RoomRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *RoomRepo) With(db DB) *RoomRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *RoomRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const roomColumns = `id, cinema_id, name, capacity, class, couple_seats, accessible_seats`

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var rm domain.Room
	var class string
	if err := row.Scan(
		&rm.ID,
		&rm.CinemaID,
		&rm.Name,
		&rm.Capacity,
		&class,
		&rm.CoupleSeats,
		&rm.AccessibleSeats,
	); err != nil {
		return nil, err
	}
	rm.Class = domain.RoomClass(class)
	return &rm, nil
}

// Get retrieves a room by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the room does not exist.
func (r *RoomRepo) Get(ctx context.Context, id int64) (*domain.Room, error) {
	const op = "postgres.RoomRepo.Get"

	rm, err := scanRoom(r.handle().QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return rm, nil
}

// Lock retrieves a room and row-locks it for the rest of the transaction.
// Concurrent schedulers of the same room serialise on this lock.
func (r *RoomRepo) Lock(ctx context.Context, id int64) (*domain.Room, error) {
	const op = "postgres.RoomRepo.Lock"

	rm, err := scanRoom(r.handle().QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return rm, nil
}

func (r *RoomRepo) UpdateLayout(ctx context.Context, room *domain.Room) error {
	const op = "postgres.RoomRepo.UpdateLayout"

	tag, err := r.handle().Exec(ctx,
		`UPDATE rooms
		 SET capacity = $2, couple_seats = $3, accessible_seats = $4
		 WHERE id = $1`,
		room.ID, room.Capacity, room.CoupleSeats, room.AccessibleSeats,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

// Seats lists the seats of a room ordered by row and number. Availability is
// tracked per session, so every seat reads as available here.
func (r *RoomRepo) Seats(ctx context.Context, roomID int64) ([]domain.Seat, error) {
	const op = "postgres.RoomRepo.Seats"

	rows, err := r.handle().Query(ctx,
		`SELECT id, room_id, row, number, class, seat_count, preferential, true
		 FROM seats
		 WHERE room_id = $1
		 ORDER BY length(row), row, number`,
		roomID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	seats, err := collectSeats(rows)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return seats, nil
}

// ReplaceSeats deletes the room's seat set and inserts seats in its place.
//
// Returns:
//   - []domain.Seat: the inserted seats with their new IDs.
//   - error: repository.ErrConflict if two seats share coordinates.
func (r *RoomRepo) ReplaceSeats(ctx context.Context, roomID int64, seats []domain.Seat) ([]domain.Seat, error) {
	const op = "postgres.RoomRepo.ReplaceSeats"

	db := r.handle()

	if _, err := db.Exec(ctx, `DELETE FROM seats WHERE room_id = $1`, roomID); err != nil {
		return nil, wrapDBErr(op, err)
	}

	batch := &pgx.Batch{}
	for _, s := range seats {
		batch.Queue(
			`INSERT INTO seats(room_id, row, number, class, seat_count, preferential)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			roomID, s.Row, s.Number, string(s.Class), s.SeatCount, s.Preferential,
		)
	}

	br := db.SendBatch(ctx, batch)
	out := make([]domain.Seat, len(seats))
	for i, s := range seats {
		if err := br.QueryRow().Scan(&s.ID); err != nil {
			_ = br.Close()
			return nil, wrapDBErr(op, err)
		}
		s.RoomID = roomID
		out[i] = s
	}
	if err := br.Close(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *RoomRepo) SetPreferential(ctx context.Context, seatID int64, preferential bool) error {
	const op = "postgres.RoomRepo.SetPreferential"

	tag, err := r.handle().Exec(ctx,
		`UPDATE seats SET preferential = $2 WHERE id = $1`,
		seatID, preferential,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

// Timeline lists every booking occupying the room within [from, to).
func (r *RoomRepo) Timeline(ctx context.Context, roomID int64, from, to time.Time) (schedule.Timeline, error) {
	const op = "postgres.RoomRepo.Timeline"

	rows, err := r.handle().Query(ctx,
		`SELECT 'session', id::text, 0::bigint, starts_at, ends_at
		 FROM sessions
		 WHERE room_id = $1 AND starts_at < $3 AND ends_at > $2
		 UNION ALL
		 SELECT 'rental', id::text, 0::bigint, starts_at, ends_at
		 FROM room_rentals
		 WHERE room_id = $1 AND status <> 'cancelled' AND starts_at < $3 AND ends_at > $2
		 UNION ALL
		 SELECT 'cleaning', id::text, employee_id, starts_at, ends_at
		 FROM cleaning_assignments
		 WHERE room_id = $1 AND starts_at < $3 AND ends_at > $2`,
		roomID, from, to,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out schedule.Timeline
	for rows.Next() {
		var kind string
		s := schedule.Slot{RoomID: roomID}
		if err := rows.Scan(&kind, &s.ID, &s.EmployeeID, &s.Start, &s.End); err != nil {
			return nil, wrapDBErr(op, err)
		}
		s.Kind = schedule.Kind(kind)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func collectSeats(rows pgx.Rows) ([]domain.Seat, error) {
	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		var class string
		if err := rows.Scan(
			&s.ID,
			&s.RoomID,
			&s.Row,
			&s.Number,
			&class,
			&s.SeatCount,
			&s.Preferential,
			&s.Available,
		); err != nil {
			return nil, err
		}
		s.Class = domain.SeatClass(class)
		out = append(out, s)
	}

	return out, rows.Err()
}
