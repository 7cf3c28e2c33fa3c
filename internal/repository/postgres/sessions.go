package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
)

type SessionRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *SessionRepo) With(db DB) *SessionRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *SessionRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const sessionColumns = `s.id, s.room_id, s.film_id, s.starts_at, s.ends_at, s.base_price_cents,
	s.final_price_cents, s.type, s.event_name, s.partner_name, s.language`

func sessionDest(s *domain.Session, typ *string) []any {
	return []any{
		&s.ID,
		&s.RoomID,
		&s.FilmID,
		&s.Starts,
		&s.Ends,
		&s.BasePriceCents,
		&s.FinalPriceCents,
		typ,
		&s.EventName,
		&s.PartnerName,
		&s.Language,
	}
}

// Get retrieves a session by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the session does not exist.
func (r *SessionRepo) Get(ctx context.Context, id int64) (*domain.Session, error) {
	const op = "postgres.SessionRepo.Get"

	var s domain.Session
	var typ string
	if err := r.handle().QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.id = $1`,
		id,
	).Scan(sessionDest(&s, &typ)...); err != nil {
		return nil, wrapDBErr(op, err)
	}
	s.Type = domain.SessionType(typ)

	return &s, nil
}

// Details retrieves a session with its room and film. The joins are outer so
// that a session whose room or film vanished is still returned and can be
// reported as inconsistent by the caller.
func (r *SessionRepo) Details(ctx context.Context, id int64) (*domain.SessionDetails, error) {
	const op = "postgres.SessionRepo.Details"

	var (
		d   domain.SessionDetails
		typ string

		roomID, cinemaID                  *int64
		roomName, roomClass               *string
		capacity, coupleSeats, accessible *int
		filmID                            *int64
		title                             *string
		duration, minAge                  *int
		is3D                              *bool
	)

	dest := append(sessionDest(&d.Session, &typ),
		&roomID, &cinemaID, &roomName, &capacity, &roomClass, &coupleSeats, &accessible,
		&filmID, &title, &duration, &is3D, &minAge,
	)

	if err := r.handle().QueryRow(ctx,
		`SELECT `+sessionColumns+`,
			rm.id, rm.cinema_id, rm.name, rm.capacity, rm.class, rm.couple_seats, rm.accessible_seats,
			f.id, f.title, f.duration_min, f.is_3d, f.minimum_age
		 FROM sessions s
		 LEFT JOIN rooms rm ON rm.id = s.room_id
		 LEFT JOIN films f ON f.id = s.film_id
		 WHERE s.id = $1`,
		id,
	).Scan(dest...); err != nil {
		return nil, wrapDBErr(op, err)
	}
	d.Session.Type = domain.SessionType(typ)

	if roomID != nil {
		d.Room = &domain.Room{
			ID:              *roomID,
			CinemaID:        *cinemaID,
			Name:            *roomName,
			Capacity:        *capacity,
			Class:           domain.RoomClass(*roomClass),
			CoupleSeats:     *coupleSeats,
			AccessibleSeats: *accessible,
		}
	}

	if filmID != nil {
		d.Film = &domain.Film{
			ID:          *filmID,
			Title:       *title,
			DurationMin: *duration,
			Is3D:        *is3D,
			MinimumAge:  *minAge,
		}
	}

	return &d, nil
}

func (r *SessionRepo) Create(ctx context.Context, s *domain.Session) (int64, error) {
	const op = "postgres.SessionRepo.Create"

	var id int64
	if err := r.handle().QueryRow(ctx,
		`INSERT INTO sessions(room_id, film_id, starts_at, ends_at, base_price_cents,
			final_price_cents, type, event_name, partner_name, language)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		s.RoomID, s.FilmID, s.Starts, s.Ends, s.BasePriceCents,
		s.FinalPriceCents, string(s.Type), s.EventName, s.PartnerName, s.Language,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	s.ID = id

	return id, nil
}

func (r *SessionRepo) Update(ctx context.Context, s *domain.Session) error {
	const op = "postgres.SessionRepo.Update"

	tag, err := r.handle().Exec(ctx,
		`UPDATE sessions
		 SET starts_at = $2, ends_at = $3, base_price_cents = $4, final_price_cents = $5,
		 	type = $6, event_name = $7, partner_name = $8, language = $9
		 WHERE id = $1`,
		s.ID, s.Starts, s.Ends, s.BasePriceCents, s.FinalPriceCents,
		string(s.Type), s.EventName, s.PartnerName, s.Language,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

func (r *SessionRepo) InitSeats(ctx context.Context, sessionID, roomID int64) (int64, error) {
	const op = "postgres.SessionRepo.InitSeats"

	tag, err := r.handle().Exec(ctx,
		`INSERT INTO session_seats(session_id, seat_id, available)
		 SELECT $1, s.id, true
		 FROM seats s
		 WHERE s.room_id = $2
		 ON CONFLICT DO NOTHING`,
		sessionID, roomID,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}

func (r *SessionRepo) ResetUnfinishedSeats(ctx context.Context, roomID int64, t time.Time) error {
	const op = "postgres.SessionRepo.ResetUnfinishedSeats"

	if _, err := r.handle().Exec(ctx,
		`INSERT INTO session_seats(session_id, seat_id, available)
		 SELECT ss.id, s.id, true
		 FROM sessions ss
		 JOIN seats s ON s.room_id = ss.room_id
		 WHERE ss.room_id = $1 AND ss.ends_at > $2
		 ON CONFLICT (session_id, seat_id) DO UPDATE SET available = true`,
		roomID, t,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *SessionRepo) UnfinishedIDs(ctx context.Context, roomID int64, t time.Time) ([]int64, error) {
	const op = "postgres.SessionRepo.UnfinishedIDs"

	rows, err := r.handle().Query(ctx,
		`SELECT id FROM sessions WHERE room_id = $1 AND ends_at > $2 ORDER BY starts_at`,
		roomID, t,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return ids, nil
}

// SeatMap lists the session's seats with their availability.
//
// Returns:
//   - error: repository.ErrNotFound if the session has no seats.
func (r *SessionRepo) SeatMap(ctx context.Context, sessionID int64) ([]domain.Seat, error) {
	const op = "postgres.SessionRepo.SeatMap"

	rows, err := r.handle().Query(ctx,
		`SELECT s.id, s.room_id, s.row, s.number, s.class, s.seat_count, s.preferential, ss.available
		 FROM session_seats ss
		 JOIN seats s ON s.id = ss.seat_id
		 WHERE ss.session_id = $1
		 ORDER BY length(s.row), s.row, s.number`,
		sessionID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	seats, err := collectSeats(rows)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if len(seats) == 0 {
		return nil, wrapDBErr(op, repository.ErrNotFound)
	}

	return seats, nil
}

// ReserveSeat takes the seat for the session. The conditional update is the
// check-then-act: it only matches while the seat is still available.
//
// Returns:
//   - error: repository.ErrSeatsUnavailable if the seat is already taken.
func (r *SessionRepo) ReserveSeat(ctx context.Context, sessionID, seatID int64) error {
	const op = "postgres.SessionRepo.ReserveSeat"

	tag, err := r.handle().Exec(ctx,
		`UPDATE session_seats
		 SET available = false
		 WHERE session_id = $1 AND seat_id = $2 AND available`,
		sessionID, seatID,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() != 1 {
		return wrapDBErr(op, repository.ErrSeatsUnavailable)
	}

	return nil
}

func (r *SessionRepo) ReleaseSeat(ctx context.Context, sessionID, seatID int64) error {
	const op = "postgres.SessionRepo.ReleaseSeat"

	if _, err := r.handle().Exec(ctx,
		`UPDATE session_seats
		 SET available = true
		 WHERE session_id = $1 AND seat_id = $2`,
		sessionID, seatID,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *SessionRepo) ActiveTickets(ctx context.Context, sessionID int64) (int64, error) {
	const op = "postgres.SessionRepo.ActiveTickets"

	var n int64
	if err := r.handle().QueryRow(ctx,
		`SELECT count(*) FROM tickets WHERE session_id = $1 AND status <> 'cancelled'`,
		sessionID,
	).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

func (r *SessionRepo) UnfinishedActiveTickets(ctx context.Context, roomID int64, t time.Time) (int64, error) {
	const op = "postgres.SessionRepo.UnfinishedActiveTickets"

	var n int64
	if err := r.handle().QueryRow(ctx,
		`SELECT count(*)
		 FROM tickets tk
		 JOIN sessions s ON s.id = tk.session_id
		 WHERE s.room_id = $1 AND s.ends_at > $2 AND tk.status <> 'cancelled'`,
		roomID, t,
	).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}
